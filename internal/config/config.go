// Package config loads and validates proxy configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store provider modes. Empty means auto-detect from credentials.
const (
	StoreProviderREST     = "rest"
	StoreProviderPostgres = "postgres"
	StoreProviderDisabled = "disabled"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Origin  OriginConfig  `mapstructure:"origin"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ProxyConfig governs the interception pipeline.
type ProxyConfig struct {
	RoutePrefix         string `mapstructure:"route_prefix"`
	Brand               string `mapstructure:"brand"`
	CacheSeconds        int    `mapstructure:"cache_seconds"`
	AgentCategoryHeader string `mapstructure:"agent_category_header"`
}

// OriginConfig points at the SPA shell the proxy sits in front of.
type OriginConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StoreConfig controls access to the prospect store. The REST fields
// target a PostgREST-style gateway; DSN targets the database directly.
type StoreConfig struct {
	Provider       string `mapstructure:"provider"`
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key"`
	Resource       string `mapstructure:"resource"`
	DSN            string `mapstructure:"dsn"`
	Table          string `mapstructure:"table"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OGPROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("proxy.route_prefix", "/p/")
	v.SetDefault("proxy.brand", "CelestIA")
	v.SetDefault("proxy.cache_seconds", 300)
	v.SetDefault("proxy.agent_category_header", "netlify-agent-category")
	v.SetDefault("origin.timeout_seconds", 15)
	v.SetDefault("store.resource", "prospects")
	v.SetDefault("store.table", "prospects")
	v.SetDefault("store.timeout_seconds", 5)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. Absent store
// credentials are legal: the service runs with default metadata only.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Origin.URL == "" {
		return fmt.Errorf("origin.url is required")
	}
	if c.Origin.TimeoutSeconds <= 0 {
		return fmt.Errorf("origin.timeout_seconds must be > 0")
	}
	if c.Store.TimeoutSeconds <= 0 {
		return fmt.Errorf("store.timeout_seconds must be > 0")
	}
	if c.Proxy.CacheSeconds < 0 {
		return fmt.Errorf("proxy.cache_seconds must be >= 0")
	}
	if !strings.HasPrefix(c.Proxy.RoutePrefix, "/") {
		return fmt.Errorf("proxy.route_prefix must start with /")
	}
	switch c.Store.Provider {
	case "", StoreProviderDisabled:
	case StoreProviderREST:
		if c.Store.URL == "" || c.Store.APIKey == "" {
			return fmt.Errorf("store.url and store.api_key are required when store.provider is %q", StoreProviderREST)
		}
	case StoreProviderPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required when store.provider is %q", StoreProviderPostgres)
		}
	default:
		return fmt.Errorf("unknown store.provider %q", c.Store.Provider)
	}
	return nil
}

// StoreMode resolves the effective store provider. An explicit provider
// wins; otherwise credentials select the mode, and no credentials at
// all selects the disabled mode.
func (c Config) StoreMode() string {
	if c.Store.Provider != "" {
		return c.Store.Provider
	}
	if c.Store.URL != "" && c.Store.APIKey != "" {
		return StoreProviderREST
	}
	if c.Store.DSN != "" {
		return StoreProviderPostgres
	}
	return StoreProviderDisabled
}

// StoreTimeout converts the store timeout config into a duration.
func (c Config) StoreTimeout() time.Duration {
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

// OriginTimeout converts the origin timeout config into a duration.
func (c Config) OriginTimeout() time.Duration {
	return time.Duration(c.Origin.TimeoutSeconds) * time.Second
}
