package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	router "github.com/goliatone/go-router"
	"golang.org/x/sync/errgroup"

	core "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/gorouter"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/httpapi"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/queries"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Config assembles a complete dashboard. Options.RefreshHook, when set, receives
// events alongside the built-in broadcast hook.
type Config struct {
	Options  Options
	Renderer core.Renderer
	Charts   *core.ChartRenderer
	Activity core.ActivityFeed
	BasePath string

	// ChartCacheTTL enables the rendered chart cache when positive. It is
	// ignored when Charts is set.
	ChartCacheTTL time.Duration
}

// Dashboard bundles the wired service, transports, and hooks.
type Dashboard struct {
	Service    *Service
	Broadcast  *core.BroadcastHook
	Controller *core.Controller
	Executor   *httpapi.CommandExecutor
	Snapshots  *queries.SnapshotQuery
	Validator  *core.JSONSchemaValidator

	logger     *slog.Logger
	basePath   string
	chartCache *core.ChartCache
	cacheTTL   time.Duration
}

// New wires a Dashboard. The embedded templates are used when no renderer is given.
func New(cfg Config) (*Dashboard, error) {
	renderer := cfg.Renderer
	if renderer == nil {
		var err error
		if renderer, err = core.NewTemplateRenderer(); err != nil {
			return nil, fmt.Errorf("dashboard: template renderer: %w", err)
		}
	}
	logger := cfg.Options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	broadcast := core.NewBroadcastHook()
	opts := cfg.Options
	opts.Logger = logger
	if opts.RefreshHook != nil {
		opts.RefreshHook = fanoutHook{broadcast, opts.RefreshHook}
	} else {
		opts.RefreshHook = broadcast
	}
	service := core.NewService(opts)

	// A caller-supplied chart renderer owns its cache; ChartCacheTTL only
	// configures the default renderer.
	charts := cfg.Charts
	var cache *core.ChartCache
	if charts == nil && cfg.ChartCacheTTL > 0 {
		cache = core.NewChartCache(cfg.ChartCacheTTL)
		charts = core.NewChartRenderer(core.WithChartCache(cache))
	}

	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = core.DefaultRefreshInterval
	}
	controller := core.NewController(core.ControllerOptions{
		Service:         service,
		Renderer:        renderer,
		Charts:          charts,
		Activity:        cfg.Activity,
		RefreshInterval: interval,
	})

	return &Dashboard{
		Service:    service,
		Broadcast:  broadcast,
		Controller: controller,
		Executor:   httpapi.NewCommandExecutor(service, opts.Telemetry),
		Snapshots:  queries.NewSnapshotQuery(service),
		Validator:  core.NewJSONSchemaValidator(),
		logger:     logger,
		basePath:   cfg.BasePath,
		chartCache: cache,
		cacheTTL:   cfg.ChartCacheTTL,
	}, nil
}

// Handlers returns the net/http handlers for the dashboard.
func (d *Dashboard) Handlers() *httpapi.Handlers {
	return &httpapi.Handlers{
		API:       d.Executor,
		Pages:     d.Controller,
		Snapshots: d.Snapshots,
		Broadcast: d.Broadcast,
		Validator: d.Validator,
		Logger:    d.logger,
	}
}

// HTTPHandler mounts every route on a chi router, plus /metrics when given.
func (d *Dashboard) HTTPHandler(refreshLimit int, metrics http.Handler) http.Handler {
	base := d.basePath + "/dashboard"
	return d.Handlers().Router(httpapi.RouterOptions{
		BasePath:      base,
		RefreshLimit:  refreshLimit,
		RefreshWindow: time.Minute,
		Metrics:       metrics,
	})
}

// Register mounts the dashboard routes on a go-router router.
func Register[T any](r router.Router[T], d *Dashboard) error {
	if d == nil {
		return errors.New("dashboard: nil dashboard")
	}
	return gorouter.Register(gorouter.Config[T]{
		Router:     r,
		Controller: d.Controller,
		API:        d.Executor,
		Snapshots:  d.Snapshots,
		Broadcast:  d.Broadcast,
		Validator:  d.Validator,
		BasePath:   d.basePath,
	})
}

// Run sweeps idle sessions, and expired charts when caching is enabled, until ctx is done.
func (d *Dashboard) Run(ctx context.Context) error {
	if d.chartCache == nil {
		return d.Service.Run(ctx)
	}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return d.Service.Run(ctx) })
	group.Go(func() error {
		ticker := time.NewTicker(d.cacheTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				if n := d.chartCache.Purge(now); n > 0 {
					d.logger.Debug("purged chart cache", slog.Int("count", n))
				}
			}
		}
	})
	return group.Wait()
}

type fanoutHook []core.RefreshHook

func (f fanoutHook) SessionUpdated(ctx context.Context, event core.SnapshotEvent) error {
	var errs []error
	for _, hook := range f {
		if err := hook.SessionUpdated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
