package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
	assert.Equal(t, time.Second, cfg.RefreshLatency)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, TransportRouter, cfg.Transport)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DASHBOARD_ADDR", ":9000")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "2s")
	t.Setenv("DASHBOARD_SEED", "42")
	t.Setenv("DASHBOARD_TRANSPORT", "http")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 2*time.Second, cfg.RefreshInterval)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, TransportHTTP, cfg.Transport)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("DASHBOARD_TRANSPORT", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DASHBOARD_TRANSPORT", "router")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "0s")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "json", "warn")
	logger.Info("hidden")
	logger.Warn("shown", slog.String("session_id", "s1"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "s1", record["session_id"])
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
