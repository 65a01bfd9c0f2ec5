package dashboard

import (
	"context"
	"time"
)

// Metrics are the top-level business KPIs shown in the main card row.
type Metrics struct {
	Revenue     int `json:"revenue" yaml:"revenue"`
	Users       int `json:"users" yaml:"users"`
	Performance int `json:"performance" yaml:"performance"`
	Growth      int `json:"growth" yaml:"growth"`
}

// Analytics are the secondary engagement KPIs shown in the overview row.
type Analytics struct {
	PageViews         int     `json:"page_views" yaml:"page_views"`
	BounceRate        int     `json:"bounce_rate" yaml:"bounce_rate"`
	AvgSessionSeconds int     `json:"avg_session_seconds" yaml:"avg_session_seconds"`
	ConversionRate    float64 `json:"conversion_rate" yaml:"conversion_rate"`
}

// ChartPoint is a single monthly bar. Value is the visual height percentage.
type ChartPoint struct {
	Month   string  `json:"month" yaml:"month"`
	Value   float64 `json:"value" yaml:"value"`
	Revenue int     `json:"revenue" yaml:"revenue"`
}

// Generator produces fresh mock values for a refresh cycle.
type Generator interface {
	Metrics() Metrics
	Analytics() Analytics
	ChartPoints() []ChartPoint
}

// RefreshHook notifies transports (WebSocket/SSE) about session changes.
type RefreshHook interface {
	SessionUpdated(ctx context.Context, event SnapshotEvent) error
}

// ViewerContext captures the page instance and client environment needed to render.
type ViewerContext struct {
	SessionID string
	Locale    string
	Viewport  Viewport
}

// Snapshot is an immutable copy of a session's view model.
type Snapshot struct {
	SessionID     string    `json:"session_id" yaml:"session_id"`
	Metrics       Metrics   `json:"metrics" yaml:"metrics"`
	Analytics     Analytics `json:"analytics" yaml:"analytics"`
	IsRefreshing  bool      `json:"is_refreshing" yaml:"is_refreshing"`
	Hovered       int       `json:"hovered_bar" yaml:"hovered_bar"`
	IsMobile      bool      `json:"is_mobile" yaml:"is_mobile"`
	ReducedMotion bool      `json:"reduced_motion" yaml:"reduced_motion"`
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
}

// HoveredBar returns the hovered bar index when a tooltip is active.
func (s Snapshot) HoveredBar() (int, bool) {
	if s.Hovered < 0 {
		return 0, false
	}
	return s.Hovered, true
}

// SnapshotEvent describes changes that transports might care about.
type SnapshotEvent struct {
	SessionID string   `json:"session_id"`
	Reason    string   `json:"reason"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Event reasons published through the RefreshHook.
const (
	ReasonMount        = "mount"
	ReasonTick         = "tick"
	ReasonRefreshStart = "refresh_start"
	ReasonRefreshDone  = "refresh_done"
	ReasonTooltip      = "tooltip"
	ReasonViewport     = "viewport"
	ReasonUnmount      = "unmount"
)
