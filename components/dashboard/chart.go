package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultChartHeight = "320px"
	mobileChartHeight  = "220px"

	barColor        = "#6366f1"
	hoveredBarColor = "#a855f7"
)

// ChartOptions carries the per-render flags that shape the revenue chart.
type ChartOptions struct {
	Hovered       int
	Mobile        bool
	ReducedMotion bool
}

// ChartRenderer renders the revenue bar chart as server-side go-echarts markup.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the go-echarts theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost points the ECharts runtime at a CDN or self-hosted path.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render returns chart HTML for the visible points.
func (r *ChartRenderer) Render(points []ChartPoint, options ChartOptions) (template.HTML, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("dashboard: chart points are required")
	}
	renderFn := func() (string, error) {
		return r.renderBar(points, options)
	}

	var (
		html string
		err  error
	)
	if r.cache != nil {
		key := "revenue_bar:" + configHash(map[string]any{
			"points":  points,
			"options": options,
			"theme":   r.theme,
		})
		html, err = r.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return "", err
	}
	return template.HTML(html), nil
}

func (r *ChartRenderer) renderBar(points []ChartPoint, options ChartOptions) (string, error) {
	height := defaultChartHeight
	trigger := "mousemove"
	if options.Mobile {
		height = mobileChartHeight
		trigger = "click"
	}
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: "Revenue", Subtitle: fmt.Sprintf("Last %d months", len(points))}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), TriggerOn: trigger}),
	)
	if options.ReducedMotion {
		bar.SetGlobalOptions(charts.WithAnimation(false))
	}

	labels := make([]string, len(points))
	for i, point := range points {
		labels[i] = point.Month
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Revenue", toBarData(points, options.Hovered))
	return renderChart(bar)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toBarData(points []ChartPoint, hovered int) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		color := barColor
		if i == hovered {
			color = hoveredBarColor
		}
		data[i] = opts.BarData{
			Name:      fmt.Sprintf("%s · %s", point.Month, FormatCurrency(point.Revenue)),
			Value:     point.Value,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}
	return data
}
