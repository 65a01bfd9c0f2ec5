package queries

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
)

type stubSnapshotService struct {
	calls int
	last  string
}

func (s *stubSnapshotService) Snapshot(id string) (dashboard.Snapshot, error) {
	s.calls++
	s.last = id
	return dashboard.Snapshot{SessionID: id, Hovered: -1}, nil
}

func TestSnapshotQuery(t *testing.T) {
	service := &stubSnapshotService{}
	query := NewSnapshotQuery(service)
	snap, err := query.Query(context.Background(), SnapshotInput{SessionID: "s1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 || snap.SessionID != "s1" {
		t.Fatalf("expected one lookup for s1, got %d (%q)", service.calls, snap.SessionID)
	}
}

func TestSnapshotQueryRequiresSession(t *testing.T) {
	service := &stubSnapshotService{}
	_, err := NewSnapshotQuery(service).Query(context.Background(), SnapshotInput{})
	if !errors.Is(err, dashboard.ErrSessionRequired) {
		t.Fatalf("expected missing session error, got %v", err)
	}
	if service.calls != 0 {
		t.Fatalf("expected no lookup")
	}
}

func TestSnapshotQueryAgainstService(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{Generator: dashboard.NewRandomGenerator(1)})
	defer service.Close()
	session, err := service.Mount(context.Background(), dashboard.ViewerContext{})
	if err != nil {
		t.Fatalf("Mount returned error: %v", err)
	}
	snap, err := NewSnapshotQuery(service).Query(context.Background(), SnapshotInput{SessionID: session.ID()})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if snap.Metrics.Performance < 70 || snap.Metrics.Performance >= 100 {
		t.Fatalf("performance out of range: %d", snap.Metrics.Performance)
	}
	if _, err := NewSnapshotQuery(service).Query(context.Background(), SnapshotInput{SessionID: "gone"}); !errors.Is(err, dashboard.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
