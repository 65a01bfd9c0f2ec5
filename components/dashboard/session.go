package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrSessionRequired   = errors.New("dashboard: session id is required")
	ErrSessionNotFound   = errors.New("dashboard: session not found")
	ErrSessionClosed     = errors.New("dashboard: session closed")
	ErrRefreshInProgress = errors.New("dashboard: refresh already in progress")
	ErrBarOutOfRange     = errors.New("dashboard: chart bar index out of range")
)

// Session holds the view model for one mounted dashboard page. The refresh
// ticker and any pending simulated-latency timer live exactly as long as the
// session: Start acquires them and Close releases them.
type Session struct {
	id        string
	gen       Generator
	hook      RefreshHook
	telemetry Telemetry
	logger    *slog.Logger
	interval  time.Duration
	latency   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	metrics     Metrics
	analytics   Analytics
	refreshing  bool
	tooltip     TooltipState
	viewport    Viewport
	generatedAt time.Time
	lastSeen    time.Time
	started     bool
	closed      bool

	done chan struct{}
	wg   sync.WaitGroup
}

// SessionOptions configures a standalone Session. Service fills these from Options.
type SessionOptions struct {
	ID              string
	Generator       Generator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Logger          *slog.Logger
	RefreshInterval time.Duration
	RefreshLatency  time.Duration
	Viewport        Viewport
	Now             func() time.Time
}

// NewSession builds an unstarted session.
func NewSession(opts SessionOptions) *Session {
	if opts.Generator == nil {
		opts.Generator = NewTimeSeededGenerator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.RefreshLatency < 0 {
		opts.RefreshLatency = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		id:        opts.ID,
		gen:       opts.Generator,
		hook:      opts.RefreshHook,
		telemetry: normalizeTelemetry(opts.Telemetry),
		logger:    opts.Logger.With(slog.String("session_id", opts.ID)),
		interval:  opts.RefreshInterval,
		latency:   opts.RefreshLatency,
		now:       opts.Now,
		viewport:  opts.Viewport,
		lastSeen:  opts.Now(),
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start generates the first values and begins the periodic refresh.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.regenerateLocked()
	snap := s.snapshotLocked()
	s.wg.Add(1)
	s.mu.Unlock()

	go s.tick()
	s.publish(ctx, ReasonMount, snap)
	return nil
}

func (s *Session) tick() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			s.regenerateLocked()
			snap := s.snapshotLocked()
			s.mu.Unlock()
			s.telemetry.Record(context.Background(), "dashboard.session.tick", map[string]any{"session_id": s.id})
			s.publish(context.Background(), ReasonTick, snap)
		}
	}
}

// Refresh runs a manual refresh and blocks until the simulated latency elapses.
// IsRefreshing is set before the wait and cleared after; a concurrent manual
// refresh is rejected with ErrRefreshInProgress.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.beginRefresh(ctx, false); err != nil {
		return err
	}
	return s.completeRefresh(ctx)
}

// BeginRefresh starts a manual refresh and returns once IsRefreshing is set.
// The values update in the background after the simulated latency.
func (s *Session) BeginRefresh(ctx context.Context) error {
	if err := s.beginRefresh(ctx, true); err != nil {
		return err
	}
	go func() {
		defer s.wg.Done()
		if err := s.completeRefresh(context.Background()); err != nil && !errors.Is(err, ErrSessionClosed) {
			s.logger.Warn("background refresh", slog.Any("error", err))
		}
	}()
	return nil
}

func (s *Session) beginRefresh(ctx context.Context, async bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.refreshing {
		s.mu.Unlock()
		return ErrRefreshInProgress
	}
	s.refreshing = true
	s.lastSeen = s.now()
	snap := s.snapshotLocked()
	if async {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	s.publish(ctx, ReasonRefreshStart, snap)
	return nil
}

func (s *Session) completeRefresh(ctx context.Context) error {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.clearRefreshing()
			return ctx.Err()
		case <-s.done:
			return ErrSessionClosed
		case <-timer.C:
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.regenerateLocked()
	s.refreshing = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.telemetry.Record(ctx, "dashboard.session.refresh", map[string]any{"session_id": s.id})
	s.publish(ctx, ReasonRefreshDone, snap)
	return nil
}

func (s *Session) clearRefreshing() {
	s.mu.Lock()
	s.refreshing = false
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(context.Background(), ReasonRefreshDone, snap)
}

// HoverBar opens the tooltip for bar i (pointer-enter).
func (s *Session) HoverBar(ctx context.Context, i int) error {
	return s.updateTooltip(ctx, i, TooltipState.Enter)
}

// TapBar toggles the tooltip for bar i (tap on mobile).
func (s *Session) TapBar(ctx context.Context, i int) error {
	return s.updateTooltip(ctx, i, TooltipState.Tap)
}

// LeaveBar closes any open tooltip (pointer-leave).
func (s *Session) LeaveBar(ctx context.Context) error {
	return s.updateTooltip(ctx, 0, func(t TooltipState, _ int) TooltipState { return t.Leave() })
}

func (s *Session) updateTooltip(ctx context.Context, i int, transition func(TooltipState, int) TooltipState) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if i < 0 || i >= s.viewport.VisibleChartPoints() {
		s.mu.Unlock()
		return ErrBarOutOfRange
	}
	s.tooltip = transition(s.tooltip, i)
	s.lastSeen = s.now()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, ReasonTooltip, snap)
	return nil
}

// UpdateViewport replaces the observed viewport flags. A hovered bar that is no
// longer visible is dropped. Reporting an unchanged viewport publishes nothing.
func (s *Session) UpdateViewport(ctx context.Context, viewport Viewport) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.lastSeen = s.now()
	if s.viewport == viewport {
		s.mu.Unlock()
		return nil
	}
	s.viewport = viewport
	s.tooltip = s.tooltip.clamp(viewport.VisibleChartPoints())
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, ReasonViewport, snap)
	return nil
}

// Viewport returns the last observed viewport.
func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Snapshot returns a copy of the current view model.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Touch marks the session as seen by its client.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// LastSeen reports the last client interaction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the refresh ticker and pending latency timers, then waits for
// them to exit. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.refreshing = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
	s.telemetry.Record(context.Background(), "dashboard.session.closed", map[string]any{"session_id": s.id})
	s.publish(context.Background(), ReasonUnmount, snap)
}

func (s *Session) regenerateLocked() {
	s.metrics = s.gen.Metrics()
	s.analytics = s.gen.Analytics()
	s.generatedAt = s.now()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:     s.id,
		Metrics:       s.metrics,
		Analytics:     s.analytics,
		IsRefreshing:  s.refreshing,
		Hovered:       s.tooltip.Index(),
		IsMobile:      s.viewport.IsMobile(),
		ReducedMotion: s.viewport.ReducedMotion,
		GeneratedAt:   s.generatedAt,
	}
}

func (s *Session) publish(ctx context.Context, reason string, snap Snapshot) {
	event := SnapshotEvent{SessionID: s.id, Reason: reason, Snapshot: snap}
	if err := s.hook.SessionUpdated(ctx, event); err != nil {
		s.logger.Warn("publish session event", slog.String("reason", reason), slog.Any("error", err))
		s.telemetry.Record(ctx, "dashboard.session.publish_error", map[string]any{
			"session_id": s.id,
			"reason":     reason,
			"error":      err.Error(),
		})
	}
}

type noopRefreshHook struct{}

func (noopRefreshHook) SessionUpdated(context.Context, SnapshotEvent) error { return nil }
