package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
proxy:
  route_prefix: /demo/
  brand: Acme
  cache_seconds: 120
origin:
  url: http://origin.internal:3000
  timeout_seconds: 20
store:
  provider: rest
  url: https://abc.supabase.co
  api_key: secret
  resource: prospects
  timeout_seconds: 3
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Proxy.RoutePrefix != "/demo/" || cfg.Proxy.Brand != "Acme" {
		t.Fatalf("expected proxy overrides to apply: %+v", cfg.Proxy)
	}
	if cfg.Proxy.CacheSeconds != 120 {
		t.Fatalf("expected cache_seconds 120, got %d", cfg.Proxy.CacheSeconds)
	}
	if cfg.Store.URL != "https://abc.supabase.co" || cfg.Store.APIKey != "secret" {
		t.Fatalf("expected store overrides to apply: %+v", cfg.Store)
	}
	if cfg.Logging.Development {
		t.Fatal("expected logging.development false")
	}
	if got := cfg.StoreTimeout(); got != 3*time.Second {
		t.Fatalf("expected store timeout 3s, got %v", got)
	}
	if got := cfg.OriginTimeout(); got != 20*time.Second {
		t.Fatalf("expected origin timeout 20s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
origin:
  url: http://localhost:3000
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Proxy.RoutePrefix != "/p/" {
		t.Fatalf("expected default route prefix /p/, got %q", cfg.Proxy.RoutePrefix)
	}
	if cfg.Proxy.Brand != "CelestIA" {
		t.Fatalf("expected default brand, got %q", cfg.Proxy.Brand)
	}
	if cfg.Proxy.AgentCategoryHeader != "netlify-agent-category" {
		t.Fatalf("unexpected agent category header %q", cfg.Proxy.AgentCategoryHeader)
	}
	if cfg.Proxy.CacheSeconds != 300 {
		t.Fatalf("expected default cache_seconds 300, got %d", cfg.Proxy.CacheSeconds)
	}
	if cfg.Store.Resource != "prospects" || cfg.Store.Table != "prospects" {
		t.Fatalf("expected default store resource/table: %+v", cfg.Store)
	}
}

func TestLoadMissingOriginURL(t *testing.T) {
	t.Parallel()

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "origin.url") {
		t.Fatalf("expected origin.url error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080},
			Proxy:  ProxyConfig{RoutePrefix: "/p/", CacheSeconds: 300},
			Origin: OriginConfig{URL: "http://localhost:3000", TimeoutSeconds: 15},
			Store:  StoreConfig{TimeoutSeconds: 5},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"zero origin timeout", func(c *Config) { c.Origin.TimeoutSeconds = 0 }, "origin.timeout_seconds"},
		{"zero store timeout", func(c *Config) { c.Store.TimeoutSeconds = 0 }, "store.timeout_seconds"},
		{"negative cache", func(c *Config) { c.Proxy.CacheSeconds = -1 }, "cache_seconds"},
		{"relative prefix", func(c *Config) { c.Proxy.RoutePrefix = "p/" }, "route_prefix"},
		{"rest without key", func(c *Config) { c.Store.Provider = StoreProviderREST }, "store.url"},
		{"postgres without dsn", func(c *Config) { c.Store.Provider = StoreProviderPostgres }, "store.dsn"},
		{"unknown provider", func(c *Config) { c.Store.Provider = "redis" }, "unknown store.provider"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestStoreMode(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	if got := cfg.StoreMode(); got != StoreProviderDisabled {
		t.Fatalf("expected disabled mode, got %q", got)
	}

	cfg.Store.URL = "https://abc.supabase.co"
	cfg.Store.APIKey = "key"
	if got := cfg.StoreMode(); got != StoreProviderREST {
		t.Fatalf("expected rest mode, got %q", got)
	}

	cfg.Store = StoreConfig{DSN: "postgres://localhost/app"}
	if got := cfg.StoreMode(); got != StoreProviderPostgres {
		t.Fatalf("expected postgres mode, got %q", got)
	}

	cfg.Store.Provider = StoreProviderDisabled
	if got := cfg.StoreMode(); got != StoreProviderDisabled {
		t.Fatalf("expected explicit provider to win, got %q", got)
	}
}
