package dashboard

import (
	"strconv"
	"strings"
)

const (
	// MobileBreakpoint is the viewport width (px) below which the compact layout is used.
	MobileBreakpoint = 640
	// MaxViewportWidth caps reported widths; larger values are clamped.
	MaxViewportWidth = 100000

	mobileChartPoints  = 6
	desktopChartPoints = 12
)

// Viewport mirrors the client environment observed by the page.
// A zero Width means the client did not report one and is treated as desktop.
type Viewport struct {
	Width         int  `json:"width"`
	ReducedMotion bool `json:"reduced_motion"`
}

// IsMobile reports whether the compact layout applies.
func (v Viewport) IsMobile() bool {
	return v.Width > 0 && v.Width < MobileBreakpoint
}

// VisibleChartPoints is the number of bars rendered for the viewport.
func (v Viewport) VisibleChartPoints() int {
	return VisibleChartPoints(v.IsMobile())
}

// VisibleChartPoints is the number of bars rendered in mobile or desktop mode.
func VisibleChartPoints(mobile bool) int {
	if mobile {
		return mobileChartPoints
	}
	return desktopChartPoints
}

// VisiblePoints trims points to the most recent entries that fit the layout.
func VisiblePoints(points []ChartPoint, mobile bool) []ChartPoint {
	limit := VisibleChartPoints(mobile)
	if len(points) <= limit {
		return points
	}
	return points[len(points)-limit:]
}

// TooltipTrigger maps the layout to the chart interaction: tap on mobile, hover otherwise.
func (v Viewport) TooltipTrigger() string {
	if v.IsMobile() {
		return "click"
	}
	return "mousemove"
}

// ParseViewportWidth parses a reported width such as "375" or "1280.5".
// Invalid or negative input yields zero (unknown); huge values clamp to MaxViewportWidth.
func ParseViewportWidth(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0
		}
		return min(n, MaxViewportWidth)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
		if f >= MaxViewportWidth {
			return MaxViewportWidth
		}
		return int(f)
	}
	return 0
}

// ParseReducedMotion understands the Sec-CH-Prefers-Reduced-Motion client hint
// ("reduce" / "no-preference") as well as boolean query values.
func ParseReducedMotion(raw string) bool {
	raw = strings.Trim(strings.TrimSpace(strings.ToLower(raw)), `"`)
	switch raw {
	case "reduce", "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
