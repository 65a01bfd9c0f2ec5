package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	gocommand "github.com/goliatone/go-command"

	"github.com/Turbo9k/dynamic-dashboard/components/dashboard"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/commands"
	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/queries"
)

// Service is the session surface the HTTP layer drives.
type Service interface {
	Refresh(ctx context.Context, sessionID string) error
	HoverBar(ctx context.Context, sessionID string, i int) error
	LeaveBar(ctx context.Context, sessionID string) error
	TapBar(ctx context.Context, sessionID string, i int) error
	UpdateViewport(ctx context.Context, sessionID string, viewport dashboard.Viewport) error
	Unmount(ctx context.Context, sessionID string) error
}

// SnapshotReader is the go-command query that reads session snapshots.
type SnapshotReader = gocommand.Querier[queries.SnapshotInput, dashboard.Snapshot]

// PageRenderer renders the dashboard page for a viewer.
type PageRenderer interface {
	RenderTemplate(ctx context.Context, viewer dashboard.ViewerContext, out io.Writer) error
}

const maxBodyBytes = 4 << 10

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API       Executor
	Pages     PageRenderer
	Snapshots SnapshotReader
	Broadcast *dashboard.BroadcastHook
	Validator dashboard.PayloadValidator
	Logger    *slog.Logger
}

// HandlePage mounts (or resumes) the session and renders the dashboard.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Pages == nil {
		h.fail(w, r, errors.New("httpapi: page renderer not configured"))
		return
	}
	var buf bytes.Buffer
	if err := h.Pages.RenderTemplate(r.Context(), viewerFromRequest(r), &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Accept-CH", "Sec-CH-Viewport-Width, Sec-CH-Prefers-Reduced-Motion")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// HandleSnapshot returns the session snapshot as JSON.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.Snapshots == nil {
		h.fail(w, r, errors.New("httpapi: snapshot reader not configured"))
		return
	}
	snap, err := h.Snapshots.Query(r.Context(), queries.SnapshotInput{SessionID: viewerFromRequest(r).SessionID})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleRefresh starts a manual refresh. The values land after the simulated latency.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	input := commands.RefreshDashboardInput{SessionID: viewerFromRequest(r).SessionID}
	if err := h.API.Refresh(r.Context(), input); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// HandleViewport stores the width and motion preference reported by the page.
func (h *Handlers) HandleViewport(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Width         int  `json:"width"`
		ReducedMotion bool `json:"reduced_motion"`
	}
	if err := h.decode(r, dashboard.PayloadViewport, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	input := commands.UpdateViewportInput{
		SessionID:     viewerFromRequest(r).SessionID,
		Width:         payload.Width,
		ReducedMotion: payload.ReducedMotion,
	}
	if err := h.API.Viewport(r.Context(), input); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleTooltip returns a handler for one chart pointer action.
func (h *Handlers) HandleTooltip(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Index *int `json:"index"`
		}
		if err := h.decode(r, dashboard.PayloadTooltip, &payload); err != nil {
			h.fail(w, r, err)
			return
		}
		if action != commands.TooltipLeave && payload.Index == nil {
			h.fail(w, r, errors.Join(dashboard.ErrInvalidPayload, errors.New("index is required")))
			return
		}
		input := commands.TooltipInput{
			SessionID: viewerFromRequest(r).SessionID,
			Action:    action,
			Index:     payload.Index,
		}
		if err := h.API.Tooltip(r.Context(), input); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HandleUnmount closes the session. Unknown sessions are treated as already closed.
func (h *Handlers) HandleUnmount(w http.ResponseWriter, r *http.Request) {
	input := commands.UnmountDashboardInput{SessionID: viewerFromRequest(r).SessionID}
	if err := h.API.Unmount(r.Context(), input); err != nil && !errors.Is(err, dashboard.ErrSessionNotFound) {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RouterOptions configures the chi router.
type RouterOptions struct {
	BasePath string
	// RefreshLimit caps manual refreshes per client IP per RefreshWindow.
	RefreshLimit  int
	RefreshWindow time.Duration
	Metrics       http.Handler
}

// Router mounts every dashboard endpoint on a chi router.
func (h *Handlers) Router(opts RouterOptions) chi.Router {
	base := opts.BasePath
	if base == "" {
		base = "/dashboard"
	}
	if opts.RefreshLimit <= 0 {
		opts.RefreshLimit = 30
	}
	if opts.RefreshWindow <= 0 {
		opts.RefreshWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Route(base, func(r chi.Router) {
		r.Get("/", h.HandlePage)
		r.Get("/_snapshot", h.HandleSnapshot)
		r.With(httprate.LimitByIP(opts.RefreshLimit, opts.RefreshWindow)).Post("/refresh", h.HandleRefresh)
		r.Post("/viewport", h.HandleViewport)
		r.Post("/chart/hover", h.HandleTooltip(commands.TooltipHover))
		r.Post("/chart/leave", h.HandleTooltip(commands.TooltipLeave))
		r.Post("/chart/tap", h.HandleTooltip(commands.TooltipTap))
		r.Delete("/session", h.HandleUnmount)
		r.Post("/session/close", h.HandleUnmount)
		if h.Broadcast != nil {
			r.Get("/ws", h.Broadcast.ServeWebSocket)
			r.Get("/events", h.Broadcast.ServeSSE)
		}
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	return r
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrSessionRequired),
		errors.Is(err, dashboard.ErrBarOutOfRange),
		errors.Is(err, dashboard.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrSessionClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) decode(r *http.Request, kind string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Join(dashboard.ErrInvalidPayload, err)
	}
	validator := h.Validator
	if validator == nil {
		validator = dashboard.NewJSONSchemaValidator()
	}
	return dashboard.DecodePayload(validator, kind, body, dst)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.Error("dashboard request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func viewerFromRequest(r *http.Request) dashboard.ViewerContext {
	return dashboard.ViewerFromRequest(r.URL.Query().Get, r.Header.Get)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
