// Package server assembles the proxy application from its parts and
// manages its lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/botdetect"
	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/config"
	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/metrics"
	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/prospect"
	"github.com/kevinosmingomezbarahona-star/Automated-Personalized-IG-Websites/internal/proxy"
)

// App holds the assembled service and its HTTP server.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	srv    *http.Server
	api    *proxy.Server
}

// New builds the App: metrics, resolver (per store mode), origin
// client, passthrough proxy, and router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.Init()

	defaults := prospect.DefaultRecord(cfg.Proxy.Brand)

	var resolver prospect.Resolver
	switch mode := cfg.StoreMode(); mode {
	case config.StoreProviderREST:
		resolver = prospect.NewREST(prospect.RESTConfig{
			URL:      cfg.Store.URL,
			APIKey:   cfg.Store.APIKey,
			Resource: cfg.Store.Resource,
			Timeout:  cfg.StoreTimeout(),
		}, defaults, logger.Named("store"))
		logger.Info("prospect store configured", zap.String("mode", mode))
	case config.StoreProviderPostgres:
		pg, err := prospect.NewPostgres(ctx, prospect.PostgresConfig{
			DSN:     cfg.Store.DSN,
			Table:   cfg.Store.Table,
			Timeout: cfg.StoreTimeout(),
		}, defaults, logger.Named("store"))
		if err != nil {
			return nil, fmt.Errorf("init postgres resolver: %w", err)
		}
		resolver = pg
		logger.Info("prospect store configured", zap.String("mode", mode))
	default:
		// Running without a store is a supported deployment mode:
		// crawlers get brand-default metadata.
		resolver = prospect.NewDisabled(defaults)
		logger.Info("prospect store not configured, serving default metadata")
	}

	originClient, err := proxy.NewOriginClient(cfg.Origin.URL, cfg.OriginTimeout())
	if err != nil {
		return nil, fmt.Errorf("init origin client: %w", err)
	}
	passthrough, err := proxy.NewPassthrough(cfg.Origin.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("init passthrough proxy: %w", err)
	}

	classifier := botdetect.New(cfg.Proxy.AgentCategoryHeader)
	api := proxy.NewServer(cfg, classifier, resolver, originClient, passthrough, logger.Named("proxy"))

	return &App{
		cfg:    cfg,
		logger: logger,
		api:    api,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Handler exposes the assembled router, primarily for tests.
func (a *App) Handler() http.Handler {
	return a.api.Handler()
}

// Run serves until the context is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}
