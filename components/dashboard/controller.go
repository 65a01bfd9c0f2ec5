package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

const defaultActivityLimit = 4

// SessionMounter resolves the session backing a page render.
type SessionMounter interface {
	Mount(ctx context.Context, viewer ViewerContext) (*Session, error)
	Generator() Generator
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service         SessionMounter
	Renderer        Renderer
	Template        string
	Charts          *ChartRenderer
	Activity        ActivityFeed
	Features        []Feature
	Translator      TranslationService
	ActivityLimit   int
	RefreshInterval time.Duration
}

// Controller builds page view models and renders the dashboard template.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer()
	}
	if opts.Activity == nil {
		opts.Activity = DefaultActivityFeed()
	}
	if opts.Features == nil {
		opts.Features = DefaultFeatures()
	}
	if opts.Translator == nil {
		opts.Translator = DefaultTranslations()
	}
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = defaultActivityLimit
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	return &Controller{opts: opts}
}

// ViewModel mounts (or resumes) the viewer's session and builds the page model.
// Chart points are regenerated on every call.
func (c *Controller) ViewModel(ctx context.Context, viewer ViewerContext) (PageViewModel, error) {
	if c.opts.Service == nil {
		return PageViewModel{}, errors.New("dashboard: controller requires a service")
	}
	session, err := c.opts.Service.Mount(ctx, viewer)
	if err != nil {
		return PageViewModel{}, err
	}
	snap := session.Snapshot()
	viewport := session.Viewport()

	points := VisiblePoints(c.opts.Service.Generator().ChartPoints(), snap.IsMobile)
	hovered := snap.Hovered
	bars, tooltip := ChartBars(points, hovered)
	chart, err := c.opts.Charts.Render(points, ChartOptions{
		Hovered:       hovered,
		Mobile:        snap.IsMobile,
		ReducedMotion: snap.ReducedMotion,
	})
	if err != nil {
		return PageViewModel{}, fmt.Errorf("dashboard: render chart: %w", err)
	}

	items, err := c.opts.Activity.Recent(ctx, c.opts.ActivityLimit)
	if err != nil {
		return PageViewModel{}, fmt.Errorf("dashboard: load activity: %w", err)
	}

	return PageViewModel{
		SessionID:              snap.SessionID,
		Metrics:                localizeCards(ctx, c.opts.Translator, viewer.Locale, MetricCards(snap.Metrics)),
		Analytics:              localizeCards(ctx, c.opts.Translator, viewer.Locale, AnalyticsCards(snap.Analytics)),
		Chart:                  chart,
		Bars:                   bars,
		Tooltip:                tooltip,
		TooltipTrigger:         viewport.TooltipTrigger(),
		Activity:               activityRows(items),
		Features:               c.opts.Features,
		IsRefreshing:           snap.IsRefreshing,
		RefreshDisabled:        snap.IsRefreshing,
		ReducedMotion:          snap.ReducedMotion,
		IsMobile:               snap.IsMobile,
		RefreshIntervalSeconds: int(c.opts.RefreshInterval / time.Second),
		GeneratedAt:            snap.GeneratedAt.Format(time.Kitchen),
	}, nil
}

// RenderTemplate renders the dashboard page into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: controller requires a renderer")
	}
	page, err := c.ViewModel(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, map[string]any{
		"page":       page,
		"session_id": page.SessionID,
	}, out)
	return err
}
