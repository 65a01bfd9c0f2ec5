package gorouter

import (
	"bytes"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/Turbo9k/dynamic-dashboard/components/dashboard"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/commands"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/httpapi"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/queries"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, APIs, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     httpapi.PageRenderer
	API            httpapi.Executor
	Snapshots      httpapi.SnapshotReader
	Broadcast      *dashboard.BroadcastHook
	Validator      dashboard.PayloadValidator
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML         string
	Snapshot     string
	Refresh      string
	Viewport     string
	ChartHover   string
	ChartLeave   string
	ChartTap     string
	Session      string
	SessionClose string
	WebSocket    string
}

// Register mounts dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = DefaultViewerResolver
	}
	validator := cfg.Validator
	if validator == nil {
		validator = dashboard.NewJSONSchemaValidator()
	}

	group := cfg.Router.Group(cfg.BasePath)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewerResolver(ctx), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.Snapshots != nil {
		group.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
			snap, err := cfg.Snapshots.Query(ctx.Context(), queries.SnapshotInput{SessionID: viewerResolver(ctx).SessionID})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, snap)
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, validator, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, validator dashboard.PayloadValidator, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		input := commands.RefreshDashboardInput{SessionID: resolver(ctx).SessionID}
		if err := api.Refresh(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshing"})
	}))

	r.Post(routes.Viewport, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Width         int  `json:"width"`
			ReducedMotion bool `json:"reduced_motion"`
		}
		if err := dashboard.DecodePayload(validator, dashboard.PayloadViewport, ctx.Body(), &payload); err != nil {
			return respondError(ctx, err)
		}
		input := commands.UpdateViewportInput{
			SessionID:     resolver(ctx).SessionID,
			Width:         payload.Width,
			ReducedMotion: payload.ReducedMotion,
		}
		if err := api.Viewport(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	tooltip := func(action string) router.HandlerFunc {
		return router.WrapHandler(func(ctx router.Context) error {
			input, err := tooltipInput(validator, action, resolver(ctx).SessionID, ctx.Body())
			if err != nil {
				return respondError(ctx, err)
			}
			if err := api.Tooltip(ctx.Context(), input); err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
		})
	}
	r.Post(routes.ChartHover, tooltip(commands.TooltipHover))
	r.Post(routes.ChartLeave, tooltip(commands.TooltipLeave))
	r.Post(routes.ChartTap, tooltip(commands.TooltipTap))

	unmount := router.WrapHandler(func(ctx router.Context) error {
		input := commands.UnmountDashboardInput{SessionID: resolver(ctx).SessionID}
		if err := api.Unmount(ctx.Context(), input); err != nil && !errors.Is(err, dashboard.ErrSessionNotFound) {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	})
	r.Delete(routes.Session, unmount)
	r.Post(routes.SessionClose, unmount)
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	cfg.OnPreUpgrade = func(ctx router.Context) (router.UpgradeData, error) {
		sessionID, err := streamSessionID(ctx.Header(dashboard.SessionHeader), ctx.Query(dashboard.SessionQueryParam))
		if err != nil {
			return nil, err
		}
		return router.UpgradeData{dashboard.SessionQueryParam: sessionID}, nil
	}
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		upgraded, _ := ws.UpgradeData(dashboard.SessionQueryParam)
		id, _ := upgraded.(string)
		sessionID, err := streamSessionID(id, ws.Query(dashboard.SessionQueryParam))
		if err != nil {
			return err
		}
		events, cancel := hook.Subscribe(sessionID)
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
				if event.Reason == dashboard.ReasonUnmount {
					return ws.Close()
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// streamSessionID rejects stream subscriptions that would otherwise receive every session.
// The first non-empty candidate wins.
func streamSessionID(candidates ...string) (string, error) {
	for _, id := range candidates {
		if id != "" {
			return id, nil
		}
	}
	return "", dashboard.ErrSessionRequired
}

func tooltipInput(validator dashboard.PayloadValidator, action, sessionID string, body []byte) (commands.TooltipInput, error) {
	var payload struct {
		Index *int `json:"index"`
	}
	if err := dashboard.DecodePayload(validator, dashboard.PayloadTooltip, body, &payload); err != nil {
		return commands.TooltipInput{}, err
	}
	if action != commands.TooltipLeave && payload.Index == nil {
		return commands.TooltipInput{}, errors.Join(dashboard.ErrInvalidPayload, errors.New("index is required"))
	}
	return commands.TooltipInput{SessionID: sessionID, Action: action, Index: payload.Index}, nil
}

// DefaultViewerResolver reads the session, locale, and viewport from query
// parameters, falling back to headers and client hints.
func DefaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	viewer := dashboard.ViewerFromRequest(
		func(name string) string { return ctx.Query(name) },
		func(name string) string { return ctx.Header(name) },
	)
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		viewer.Locale = locale
	}
	return viewer
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/dashboard/_snapshot"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	if routes.Viewport == "" {
		routes.Viewport = "/dashboard/viewport"
	}
	if routes.ChartHover == "" {
		routes.ChartHover = "/dashboard/chart/hover"
	}
	if routes.ChartLeave == "" {
		routes.ChartLeave = "/dashboard/chart/leave"
	}
	if routes.ChartTap == "" {
		routes.ChartTap = "/dashboard/chart/tap"
	}
	if routes.Session == "" {
		routes.Session = "/dashboard/session"
	}
	if routes.SessionClose == "" {
		routes.SessionClose = "/dashboard/session/close"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
