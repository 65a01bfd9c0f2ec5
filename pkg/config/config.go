// Package config loads the dashboard server configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Transport names accepted by DASHBOARD_TRANSPORT.
const (
	TransportRouter = "router"
	TransportHTTP   = "http"
)

// Config holds runtime configuration for the dashboard server.
type Config struct {
	Addr            string        `envconfig:"DASHBOARD_ADDR" default:":8080"`
	BasePath        string        `envconfig:"DASHBOARD_BASE_PATH" default:""`
	RefreshInterval time.Duration `envconfig:"DASHBOARD_REFRESH_INTERVAL" default:"10s"`
	RefreshLatency  time.Duration `envconfig:"DASHBOARD_REFRESH_LATENCY" default:"1s"`
	IdleTimeout     time.Duration `envconfig:"DASHBOARD_IDLE_TIMEOUT" default:"30m"`
	ShutdownTimeout time.Duration `envconfig:"DASHBOARD_SHUTDOWN_TIMEOUT" default:"10s"`
	ChartCacheTTL   time.Duration `envconfig:"DASHBOARD_CHART_CACHE_TTL" default:"0s"`
	Seed            uint64        `envconfig:"DASHBOARD_SEED" default:"0"`
	Transport       string        `envconfig:"DASHBOARD_TRANSPORT" default:"router"`
	RefreshLimit    int           `envconfig:"DASHBOARD_REFRESH_LIMIT" default:"30"`

	// MetricsAddr serves /metrics on its own listener for the router transport.
	MetricsAddr string `envconfig:"DASHBOARD_METRICS_ADDR" default:":9090"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportRouter, TransportHTTP:
	default:
		return fmt.Errorf("config: unknown transport %q (want %s or %s)", c.Transport, TransportRouter, TransportHTTP)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("config: refresh interval must be positive, got %s", c.RefreshInterval)
	}
	if c.RefreshLatency < 0 {
		return fmt.Errorf("config: refresh latency must not be negative, got %s", c.RefreshLatency)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps LOG_LEVEL values onto slog levels.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", level, err)
	}
	return lvl, nil
}

// NewLogger builds the process logger. "json" selects the JSON handler; anything
// else logs text.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
