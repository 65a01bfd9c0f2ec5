package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	core "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
)

type snapshotCmd struct {
	Seed   uint64 `help:"Seed for reproducible values (0 seeds from the clock)."`
	Format string `enum:"yaml,json" default:"yaml" help:"Output format (yaml or json)."`
	Mobile bool   `help:"Only include the chart points visible on a mobile viewport."`
}

type snapshotDocument struct {
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Metrics     core.Metrics      `json:"metrics" yaml:"metrics"`
	Analytics   core.Analytics    `json:"analytics" yaml:"analytics"`
	Display     map[string]string `json:"display" yaml:"display"`
	Chart       []core.ChartPoint `json:"chart" yaml:"chart"`
}

func (cmd *snapshotCmd) Run(_ context.Context, out io.Writer) error {
	return cmd.write(out, time.Now())
}

func (cmd *snapshotCmd) write(out io.Writer, now time.Time) error {
	gen := generatorFor(cmd.Seed)
	metrics, analytics := gen.Metrics(), gen.Analytics()
	doc := snapshotDocument{
		GeneratedAt: now.UTC(),
		Metrics:     metrics,
		Analytics:   analytics,
		Display: map[string]string{
			"revenue":         core.FormatCurrency(metrics.Revenue),
			"users":           core.FormatCount(metrics.Users),
			"page_views":      core.FormatCount(analytics.PageViews),
			"bounce_rate":     core.FormatPercent(analytics.BounceRate),
			"avg_session":     core.FormatSessionDuration(analytics.AvgSessionSeconds),
			"conversion_rate": core.FormatDecimalPercent(analytics.ConversionRate),
		},
		Chart: core.VisiblePoints(gen.ChartPoints(), cmd.Mobile),
	}
	switch cmd.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("snapshot: unknown format %q", cmd.Format)
	}
}
