package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RefreshDashboardInput requests a manual refresh of a mounted session.
type RefreshDashboardInput struct {
	SessionID string `json:"session_id"`
}

type refreshService interface {
	Refresh(ctx context.Context, sessionID string) error
}

// RefreshDashboardCommand starts the simulated-latency refresh cycle.
type RefreshDashboardCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(service refreshService, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute begins the refresh; it returns before the new values land.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, msg RefreshDashboardInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.SessionID == "" {
		return errMissingSession
	}
	if err := c.service.Refresh(ctx, msg.SessionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"session_id": msg.SessionID,
	})
	return nil
}
