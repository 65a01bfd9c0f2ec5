package queries

import (
	"context"
	"errors"

	dashboard "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SnapshotInput names the session to read.
type SnapshotInput struct {
	SessionID string `json:"session_id"`
}

type snapshotService interface {
	Snapshot(sessionID string) (dashboard.Snapshot, error)
}

// SnapshotQuery executes read-only snapshot lookups.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[SnapshotInput, dashboard.Snapshot] = (*SnapshotQuery)(nil)

// Query returns the current snapshot of the session.
func (q *SnapshotQuery) Query(ctx context.Context, input SnapshotInput) (dashboard.Snapshot, error) {
	if q.service == nil {
		return dashboard.Snapshot{}, errors.New("snapshot query requires service")
	}
	if input.SessionID == "" {
		return dashboard.Snapshot{}, dashboard.ErrSessionRequired
	}
	if err := ctx.Err(); err != nil {
		return dashboard.Snapshot{}, err
	}
	return q.service.Snapshot(input.SessionID)
}
