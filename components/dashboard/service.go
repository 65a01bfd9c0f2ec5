package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultRefreshInterval is how often mounted sessions re-roll their values.
	DefaultRefreshInterval = 10 * time.Second
	// DefaultRefreshLatency is the simulated delay of a manual refresh.
	DefaultRefreshLatency = time.Second
	// DefaultIdleTimeout closes sessions whose client stopped interacting.
	DefaultIdleTimeout = 30 * time.Minute

	defaultSweepInterval = time.Minute
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Generator       Generator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Logger          *slog.Logger
	RefreshInterval time.Duration
	RefreshLatency  time.Duration
	IdleTimeout     time.Duration
	SweepInterval   time.Duration
	Now             func() time.Time
}

// Service owns the mounted dashboard sessions.
type Service struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Generator == nil {
		opts.Generator = NewTimeSeededGenerator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.RefreshLatency < 0 {
		opts.RefreshLatency = 0
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Generator exposes the configured generator (used for per-render chart points).
func (s *Service) Generator() Generator {
	return s.opts.Generator
}

// Mount creates and starts a session for the viewer. A viewer that already
// carries a live session id gets that session back; a reported viewport
// (non-zero width) replaces the stored one.
func (s *Service) Mount(ctx context.Context, viewer ViewerContext) (*Session, error) {
	if viewer.SessionID != "" {
		if existing, err := s.Session(viewer.SessionID); err == nil {
			if viewer.Viewport.Width > 0 {
				if err := existing.UpdateViewport(ctx, viewer.Viewport); err != nil {
					return nil, err
				}
			}
			existing.Touch()
			return existing, nil
		}
	}

	session := NewSession(SessionOptions{
		ID:              uuid.NewString(),
		Generator:       s.opts.Generator,
		RefreshHook:     s.opts.RefreshHook,
		Telemetry:       s.opts.Telemetry,
		Logger:          s.opts.Logger,
		RefreshInterval: s.opts.RefreshInterval,
		RefreshLatency:  s.opts.RefreshLatency,
		Viewport:        viewer.Viewport,
		Now:             s.opts.Now,
	})

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	if err := session.Start(ctx); err != nil {
		s.remove(session.ID())
		return nil, fmt.Errorf("dashboard: start session: %w", err)
	}
	s.opts.Logger.Debug("session mounted",
		slog.String("session_id", session.ID()),
		slog.Bool("mobile", viewer.Viewport.IsMobile()),
		slog.Bool("reduced_motion", viewer.Viewport.ReducedMotion),
	)
	s.recordTelemetry(ctx, "dashboard.session.mount", map[string]any{
		"session_id": session.ID(),
		"mobile":     viewer.Viewport.IsMobile(),
	})
	return session, nil
}

// Session looks up a mounted session.
func (s *Service) Session(id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionRequired
	}
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Unmount closes and forgets a session.
func (s *Service) Unmount(ctx context.Context, id string) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	s.remove(id)
	session.Close()
	s.opts.Logger.Debug("session unmounted", slog.String("session_id", id))
	s.recordTelemetry(ctx, "dashboard.session.unmount", map[string]any{"session_id": id})
	return nil
}

// Snapshot returns the current view model of a session.
func (s *Service) Snapshot(id string) (Snapshot, error) {
	session, err := s.Session(id)
	if err != nil {
		return Snapshot{}, err
	}
	session.Touch()
	return session.Snapshot(), nil
}

// Refresh starts a manual refresh for the session without waiting for the latency.
func (s *Service) Refresh(ctx context.Context, id string) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	if err := session.BeginRefresh(ctx); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.session.refresh_requested", map[string]any{"session_id": id})
	return nil
}

// HoverBar opens the tooltip of bar i.
func (s *Service) HoverBar(ctx context.Context, id string, i int) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	return session.HoverBar(ctx, i)
}

// LeaveBar closes any open tooltip.
func (s *Service) LeaveBar(ctx context.Context, id string) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	return session.LeaveBar(ctx)
}

// TapBar toggles the tooltip of bar i.
func (s *Service) TapBar(ctx context.Context, id string, i int) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	return session.TapBar(ctx, i)
}

// UpdateViewport records a viewport change for the session.
func (s *Service) UpdateViewport(ctx context.Context, id string, viewport Viewport) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	return session.UpdateViewport(ctx, viewport)
}

// Len returns the number of mounted sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout and returns how many were closed.
func (s *Service) Sweep(ctx context.Context, now time.Time) int {
	var stale []*Session
	s.mu.Lock()
	for id, session := range s.sessions {
		if now.Sub(session.LastSeen()) > s.opts.IdleTimeout {
			stale = append(stale, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		session.Close()
	}
	if len(stale) > 0 {
		s.opts.Logger.Info("swept idle sessions", slog.Int("count", len(stale)))
		s.recordTelemetry(ctx, "dashboard.session.sweep", map[string]any{"count": len(stale)})
	}
	return len(stale)
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return nil
		case <-ticker.C:
			s.Sweep(ctx, s.opts.Now())
		}
	}
}

// Close unmounts every session.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

func (s *Service) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}
