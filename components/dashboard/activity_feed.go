package dashboard

import (
	"context"
	"fmt"
	"time"
)

// ActivityItem is a recent activity entry shown under the chart.
type ActivityItem struct {
	User   string        `json:"user"`
	Action string        `json:"action"`
	Ago    time.Duration `json:"ago"`
	Kind   string        `json:"kind"`
}

// AgoLabel renders the age as "5m ago" / "2h ago".
func (a ActivityItem) AgoLabel() string {
	switch {
	case a.Ago < time.Minute:
		return "just now"
	case a.Ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(a.Ago/time.Minute))
	case a.Ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(a.Ago/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(a.Ago/(24*time.Hour)))
	}
}

// ActivityFeed fetches recent activity entries for the page.
type ActivityFeed interface {
	Recent(ctx context.Context, limit int) ([]ActivityItem, error)
}

// StaticActivityFeed returns fixed entries.
type StaticActivityFeed struct {
	Items []ActivityItem
}

// Recent returns up to limit items from the static list.
func (f StaticActivityFeed) Recent(_ context.Context, limit int) ([]ActivityItem, error) {
	if limit <= 0 || limit >= len(f.Items) {
		return append([]ActivityItem{}, f.Items...), nil
	}
	return append([]ActivityItem{}, f.Items[:limit]...), nil
}

// DefaultActivityFeed provides the placeholder entries shown on the page.
func DefaultActivityFeed() ActivityFeed {
	return StaticActivityFeed{
		Items: []ActivityItem{
			{User: "John Doe", Action: "completed a purchase", Ago: 2 * time.Minute, Kind: "sale"},
			{User: "Jane Smith", Action: "signed up for a trial", Ago: 5 * time.Minute, Kind: "signup"},
			{User: "Mike Johnson", Action: "upgraded to Pro", Ago: 12 * time.Minute, Kind: "upgrade"},
			{User: "Sarah Wilson", Action: "left a 5-star review", Ago: 25 * time.Minute, Kind: "review"},
		},
	}
}

// Feature is a tile in the feature grid.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultFeatures is the static feature grid content.
func DefaultFeatures() []Feature {
	return []Feature{
		{Title: "Real-time Updates", Description: "Metrics refresh automatically every 10 seconds."},
		{Title: "Responsive Layout", Description: "Compact chart and tap-to-reveal tooltips on small screens."},
		{Title: "Accessible Motion", Description: "Animations are disabled when reduced motion is requested."},
		{Title: "Live Stream", Description: "Open pages receive new values over WebSocket or SSE."},
	}
}
