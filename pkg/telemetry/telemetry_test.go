package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogTelemetryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	NewSlogTelemetry(logger).Record(context.Background(), "dashboard.session.mount", map[string]any{
		"session_id": "s1",
		"mobile":     true,
	})
	out := buf.String()
	assert.Contains(t, out, "event=dashboard.session.mount")
	assert.Contains(t, out, "session_id=s1")
	assert.Contains(t, out, "mobile=true")
}

func TestPrometheusTelemetryCountsEvents(t *testing.T) {
	prom := NewPrometheusTelemetry()
	ctx := context.Background()
	prom.Record(ctx, "dashboard.session.mount", map[string]any{"session_id": "a"})
	prom.Record(ctx, "dashboard.session.mount", map[string]any{"session_id": "b"})
	prom.Record(ctx, "dashboard.session.tick", map[string]any{"session_id": "a"})
	prom.Record(ctx, "dashboard.session.closed", map[string]any{"session_id": "a"})

	rec := httptest.NewRecorder()
	prom.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `dashboard_events_total{event="dashboard_session_mount"} 2`)
	assert.Contains(t, body, `dashboard_events_total{event="dashboard_session_tick"} 1`)
	assert.Contains(t, body, "dashboard_sessions_active 1")
}

func TestMultiSkipsNil(t *testing.T) {
	counter := &countingRecorder{}
	Multi{nil, counter, counter}.Record(context.Background(), "x", nil)
	assert.Equal(t, 2, counter.calls)
}

type countingRecorder struct{ calls int }

func (c *countingRecorder) Record(context.Context, string, map[string]any) { c.calls++ }
