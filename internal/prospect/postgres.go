package prospect

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/metrics"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the direct-database resolver used when the
// service is co-located with the store and skips the REST gateway.
type PostgresConfig struct {
	DSN     string
	Table   string
	Timeout time.Duration
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresResolver queries the prospects table through a pgx pool.
type PostgresResolver struct {
	pool     rowQuerier
	table    string
	timeout  time.Duration
	defaults Record
	logger   *zap.Logger
}

// NewPostgres creates a PostgresResolver with its own connection pool.
func NewPostgres(ctx context.Context, cfg PostgresConfig, defaults Record, logger *zap.Logger) (*PostgresResolver, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewPostgresWithPool(pool, cfg.Table, cfg.Timeout, defaults, logger)
}

// NewPostgresWithPool constructs a resolver from an existing pool
// (primarily for testing).
func NewPostgresWithPool(pool rowQuerier, table string, timeout time.Duration, defaults Record, logger *zap.Logger) (*PostgresResolver, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "prospects"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &PostgresResolver{
		pool:     pool,
		table:    table,
		timeout:  timeout,
		defaults: defaults,
		logger:   logger,
	}, nil
}

// Resolve performs one bounded query. Any database failure degrades to
// the defaults record.
func (p *PostgresResolver) Resolve(ctx context.Context, slug string) Record {
	start := time.Now()
	row, found, err := p.lookup(ctx, slug)
	if err != nil {
		metrics.ObserveStoreLookup("error", time.Since(start))
		p.logger.Warn("prospect query failed, using defaults",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return Merge(p.defaults, slug, Row{})
	}
	if !found {
		metrics.ObserveStoreLookup("miss", time.Since(start))
		return Merge(p.defaults, slug, Row{})
	}
	metrics.ObserveStoreLookup("hit", time.Since(start))
	return Merge(p.defaults, slug, row)
}

func (p *PostgresResolver) lookup(ctx context.Context, slug string) (Row, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Table name is validated against validTableName at construction.
	query := fmt.Sprintf(
		"SELECT full_name, business_summary, profile_pic_url, site_screenshot_url FROM %s WHERE slug = $1 LIMIT 1",
		p.table,
	)
	rows, err := p.pool.Query(ctx, query, slug)
	if err != nil {
		return Row{}, false, fmt.Errorf("query prospects: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Row{}, false, fmt.Errorf("read prospects: %w", err)
		}
		return Row{}, false, nil
	}

	var fullName, summary, picURL, shotURL *string
	if err := rows.Scan(&fullName, &summary, &picURL, &shotURL); err != nil {
		return Row{}, false, fmt.Errorf("scan prospect row: %w", err)
	}
	return Row{
		FullName:          deref(fullName),
		BusinessSummary:   deref(summary),
		ProfilePicURL:     deref(picURL),
		SiteScreenshotURL: deref(shotURL),
	}, true, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
