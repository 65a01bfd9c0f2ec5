// Package telemetry provides dashboard.Telemetry sinks backed by slog and Prometheus.
package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder matches dashboard.Telemetry and commands.Telemetry.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// SlogTelemetry writes every event as a debug log line.
type SlogTelemetry struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewSlogTelemetry logs events at debug level.
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{Logger: logger, Level: slog.LevelDebug}
}

// Record logs the event with its payload as sorted attributes.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys)+1)
	attrs = append(attrs, slog.String("event", event))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	t.Logger.LogAttrs(ctx, t.Level, "telemetry", attrs...)
}

// PrometheusTelemetry counts events on a private registry.
type PrometheusTelemetry struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	sessions prometheus.Gauge
	handler  http.Handler

	mu     sync.Mutex
	active map[string]struct{}
}

// NewPrometheusTelemetry registers the dashboard metrics.
func NewPrometheusTelemetry() *PrometheusTelemetry {
	registry := prometheus.NewRegistry()
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_events_total",
		Help: "Dashboard session and command events by name.",
	}, []string{"event"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_sessions_active",
		Help: "Mounted dashboard sessions.",
	})
	registry.MustRegister(events, sessions)
	return &PrometheusTelemetry{
		registry: registry,
		events:   events,
		sessions: sessions,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		active:   make(map[string]struct{}),
	}
}

// Record increments the counter for event and tracks mounted sessions.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.events.WithLabelValues(metricLabel(event)).Inc()
	id, _ := payload["session_id"].(string)
	if id == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	switch event {
	case "dashboard.session.mount":
		t.active[id] = struct{}{}
	case "dashboard.session.unmount", "dashboard.session.closed":
		delete(t.active, id)
	default:
		return
	}
	t.sessions.Set(float64(len(t.active)))
}

// Handler exposes the registry for the /metrics endpoint.
func (t *PrometheusTelemetry) Handler() http.Handler {
	return t.handler
}

// Registerer exposes the registry for additional collectors.
func (t *PrometheusTelemetry) Registerer() prometheus.Registerer {
	return t.registry
}

func metricLabel(event string) string {
	return strings.ReplaceAll(event, ".", "_")
}

// Multi fans events out to every non-nil recorder.
type Multi []Recorder

// Record forwards the event.
func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, event, payload)
		}
	}
}
