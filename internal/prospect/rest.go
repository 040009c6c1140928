package prospect

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/metrics"
)

// selectColumns is the fixed projection requested from the store.
const selectColumns = "full_name,business_summary,profile_pic_url,site_screenshot_url"

// RESTConfig controls the PostgREST-style store client.
type RESTConfig struct {
	// URL is the store base URL, e.g. https://abc.supabase.co.
	URL string
	// APIKey is sent both as apikey and bearer token.
	APIKey string
	// Resource is the table resource under /rest/v1/.
	Resource string
	// Timeout bounds a single lookup. One attempt, no retry.
	Timeout time.Duration
}

// RESTResolver queries the store through its REST gateway.
type RESTResolver struct {
	cfg      RESTConfig
	client   *http.Client
	defaults Record
	logger   *zap.Logger
}

// NewREST builds a RESTResolver.
func NewREST(cfg RESTConfig, defaults Record, logger *zap.Logger) *RESTResolver {
	if cfg.Resource == "" {
		cfg.Resource = "prospects"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &RESTResolver{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(newHTTPTransport()),
		},
		defaults: defaults,
		logger:   logger,
	}
}

// Resolve performs one bounded lookup. Timeouts, non-2xx statuses, and
// malformed bodies all degrade to the defaults record; they are logged
// but never surfaced to the caller.
func (r *RESTResolver) Resolve(ctx context.Context, slug string) Record {
	start := time.Now()
	row, found, err := r.lookup(ctx, slug)
	if err != nil {
		metrics.ObserveStoreLookup("error", time.Since(start))
		r.logger.Warn("prospect lookup failed, using defaults",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return Merge(r.defaults, slug, Row{})
	}
	if !found {
		metrics.ObserveStoreLookup("miss", time.Since(start))
		return Merge(r.defaults, slug, Row{})
	}
	metrics.ObserveStoreLookup("hit", time.Since(start))
	return Merge(r.defaults, slug, row)
}

func (r *RESTResolver) lookup(ctx context.Context, slug string) (Row, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/rest/v1/%s", strings.TrimRight(r.cfg.URL, "/"), r.cfg.Resource)
	query := url.Values{}
	query.Set("slug", "eq."+slug)
	query.Set("select", selectColumns)
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return Row{}, false, fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("apikey", r.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Row{}, false, fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Row{}, false, fmt.Errorf("store returned status %d", resp.StatusCode)
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return Row{}, false, fmt.Errorf("decode store response: %w", err)
	}
	if len(rows) == 0 {
		return Row{}, false, nil
	}
	// The store contract promises at most one row; take the first
	// regardless.
	return rows[0], true, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
