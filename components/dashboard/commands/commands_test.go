package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
)

func TestRefreshDashboardCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewRefreshDashboardCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), RefreshDashboardInput{SessionID: "s1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.refreshCalls != 1 {
		t.Fatalf("expected refresh call")
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry to record the refresh")
	}
}

func TestRefreshDashboardCommandRequiresSession(t *testing.T) {
	cmd := NewRefreshDashboardCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), RefreshDashboardInput{}); !errors.Is(err, errMissingSession) {
		t.Fatalf("expected missing session error, got %v", err)
	}
}

func TestRefreshDashboardCommandPropagatesInProgress(t *testing.T) {
	service := &stubService{err: dashboard.ErrRefreshInProgress}
	telemetry := &stubTelemetry{}
	cmd := NewRefreshDashboardCommand(service, telemetry)
	err := cmd.Execute(context.Background(), RefreshDashboardInput{SessionID: "s1"})
	if !errors.Is(err, dashboard.ErrRefreshInProgress) {
		t.Fatalf("expected in-progress error, got %v", err)
	}
	if telemetry.calls != 0 {
		t.Fatalf("expected no telemetry on failure")
	}
}

func TestTooltipCommandActions(t *testing.T) {
	service := &stubService{}
	cmd := NewTooltipCommand(service, nil)
	idx := 3

	if err := cmd.Execute(context.Background(), TooltipInput{SessionID: "s1", Action: TooltipHover, Index: &idx}); err != nil {
		t.Fatalf("hover returned error: %v", err)
	}
	if err := cmd.Execute(context.Background(), TooltipInput{SessionID: "s1", Action: TooltipTap, Index: &idx}); err != nil {
		t.Fatalf("tap returned error: %v", err)
	}
	if err := cmd.Execute(context.Background(), TooltipInput{SessionID: "s1", Action: TooltipLeave}); err != nil {
		t.Fatalf("leave returned error: %v", err)
	}
	if service.hoverCalls != 1 || service.tapCalls != 1 || service.leaveCalls != 1 {
		t.Fatalf("unexpected calls: %+v", service)
	}
	if service.lastIndex != 3 {
		t.Fatalf("expected index 3, got %d", service.lastIndex)
	}
}

func TestTooltipCommandRejectsMissingIndex(t *testing.T) {
	cmd := NewTooltipCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), TooltipInput{SessionID: "s1", Action: TooltipHover}); err == nil {
		t.Fatalf("expected error for hover without index")
	}
	if err := cmd.Execute(context.Background(), TooltipInput{SessionID: "s1", Action: "wiggle"}); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestUpdateViewportCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewUpdateViewportCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), UpdateViewportInput{SessionID: "s1", Width: 375, ReducedMotion: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !service.lastViewport.IsMobile() || !service.lastViewport.ReducedMotion {
		t.Fatalf("expected mobile reduced-motion viewport, got %+v", service.lastViewport)
	}
	if telemetry.last["mobile"] != true {
		t.Fatalf("expected telemetry mobile flag, got %#v", telemetry.last)
	}
}

func TestUnmountDashboardCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewUnmountDashboardCommand(service, nil)
	if err := cmd.Execute(context.Background(), UnmountDashboardInput{SessionID: "s1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.unmountCalls != 1 {
		t.Fatalf("expected unmount call")
	}
}

func TestCommandsAgainstService(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{
		Generator:      dashboard.NewRandomGenerator(7),
		RefreshLatency: -1,
	})
	defer service.Close()
	session, err := service.Mount(context.Background(), dashboard.ViewerContext{Viewport: dashboard.Viewport{Width: 1280}})
	if err != nil {
		t.Fatalf("Mount returned error: %v", err)
	}
	idx := 11
	tooltip := NewTooltipCommand(service, nil)
	if err := tooltip.Execute(context.Background(), TooltipInput{SessionID: session.ID(), Action: TooltipTap, Index: &idx}); err != nil {
		t.Fatalf("tap returned error: %v", err)
	}
	viewport := NewUpdateViewportCommand(service, nil)
	if err := viewport.Execute(context.Background(), UpdateViewportInput{SessionID: session.ID(), Width: 320}); err != nil {
		t.Fatalf("viewport returned error: %v", err)
	}
	if _, ok := session.Snapshot().HoveredBar(); ok {
		t.Fatalf("expected hovered bar outside mobile range to reset")
	}
}

type stubService struct {
	err          error
	refreshCalls int
	hoverCalls   int
	leaveCalls   int
	tapCalls     int
	unmountCalls int
	lastIndex    int
	lastViewport dashboard.Viewport
}

func (s *stubService) Refresh(context.Context, string) error {
	s.refreshCalls++
	return s.err
}

func (s *stubService) HoverBar(_ context.Context, _ string, i int) error {
	s.hoverCalls++
	s.lastIndex = i
	return s.err
}

func (s *stubService) LeaveBar(context.Context, string) error {
	s.leaveCalls++
	return s.err
}

func (s *stubService) TapBar(_ context.Context, _ string, i int) error {
	s.tapCalls++
	s.lastIndex = i
	return s.err
}

func (s *stubService) UpdateViewport(_ context.Context, _ string, viewport dashboard.Viewport) error {
	s.lastViewport = viewport
	return s.err
}

func (s *stubService) Unmount(context.Context, string) error {
	s.unmountCalls++
	return s.err
}

type stubTelemetry struct {
	calls int
	last  map[string]any
}

func (s *stubTelemetry) Record(_ context.Context, _ string, payload map[string]any) {
	s.calls++
	s.last = payload
}
