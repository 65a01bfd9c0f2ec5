package dashboard

import (
	"html/template"

	"github.com/ettle/strcase"
)

// Trend labels are placeholder copy; they do not follow the generated values.
const (
	revenueTrend     = "+12.5%"
	usersTrend       = "+8.2%"
	performanceTrend = "+3.1%"
	growthTrend      = "+15.3%"
)

// Card is a single KPI tile.
type Card struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Value    string `json:"value"`
	Trend    string `json:"trend,omitempty"`
	Progress int    `json:"progress,omitempty"`
}

// ChartBar is one visible bar of the revenue chart.
type ChartBar struct {
	Index   int     `json:"index"`
	Month   string  `json:"month"`
	Height  float64 `json:"height"`
	Revenue string  `json:"revenue"`
	Hovered bool    `json:"hovered"`
}

// ChartTooltip is the detail panel of the hovered bar.
type ChartTooltip struct {
	Month   string `json:"month"`
	Revenue string `json:"revenue"`
}

// ActivityRow is a display-ready activity entry.
type ActivityRow struct {
	User   string `json:"user"`
	Action string `json:"action"`
	Ago    string `json:"ago"`
	Kind   string `json:"kind"`
}

// PageViewModel is everything the dashboard template needs.
type PageViewModel struct {
	SessionID              string        `json:"session_id"`
	Metrics                []Card        `json:"metrics"`
	Analytics              []Card        `json:"analytics"`
	Chart                  template.HTML `json:"chart"`
	Bars                   []ChartBar    `json:"bars"`
	Tooltip                *ChartTooltip `json:"tooltip,omitempty"`
	TooltipTrigger         string        `json:"tooltip_trigger"`
	Activity               []ActivityRow `json:"activity"`
	Features               []Feature     `json:"features"`
	IsRefreshing           bool          `json:"is_refreshing"`
	RefreshDisabled        bool          `json:"refresh_disabled"`
	ReducedMotion          bool          `json:"reduced_motion"`
	IsMobile               bool          `json:"is_mobile"`
	RefreshIntervalSeconds int           `json:"refresh_interval_seconds"`
	GeneratedAt            string        `json:"generated_at"`
}

// MetricCards builds the main KPI row.
func MetricCards(m Metrics) []Card {
	return []Card{
		newCard("Total Revenue", FormatCurrency(m.Revenue), revenueTrend, 0),
		newCard("Active Users", FormatCount(m.Users), usersTrend, 0),
		newCard("Performance", FormatPercent(m.Performance), performanceTrend, m.Performance),
		newCard("Growth Rate", FormatPercent(m.Growth), growthTrend, 0),
	}
}

// AnalyticsCards builds the overview row.
func AnalyticsCards(a Analytics) []Card {
	return []Card{
		newCard("Page Views", FormatCount(a.PageViews), "", 0),
		newCard("Bounce Rate", FormatPercent(a.BounceRate), "", 0),
		newCard("Avg Session", FormatSessionDuration(a.AvgSessionSeconds), "", 0),
		newCard("Conversion", FormatDecimalPercent(a.ConversionRate), "", 0),
	}
}

func newCard(title, value, trend string, progress int) Card {
	return Card{
		ID:       strcase.ToKebab(title),
		Title:    title,
		Value:    value,
		Trend:    trend,
		Progress: progress,
	}
}

// ChartBars converts visible points into bars, marking the hovered one.
func ChartBars(points []ChartPoint, hovered int) ([]ChartBar, *ChartTooltip) {
	bars := make([]ChartBar, len(points))
	var tooltip *ChartTooltip
	for i, point := range points {
		bars[i] = ChartBar{
			Index:   i,
			Month:   point.Month,
			Height:  point.Value,
			Revenue: FormatCurrency(point.Revenue),
			Hovered: i == hovered,
		}
		if i == hovered {
			tooltip = &ChartTooltip{Month: point.Month, Revenue: bars[i].Revenue}
		}
	}
	return bars, tooltip
}

func activityRows(items []ActivityItem) []ActivityRow {
	rows := make([]ActivityRow, len(items))
	for i, item := range items {
		rows[i] = ActivityRow{
			User:   item.User,
			Action: item.Action,
			Ago:    item.AgoLabel(),
			Kind:   item.Kind,
		}
	}
	return rows
}
