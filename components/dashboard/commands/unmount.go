package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// UnmountDashboardInput closes a session when its page goes away.
type UnmountDashboardInput struct {
	SessionID string `json:"session_id"`
}

type unmountService interface {
	Unmount(ctx context.Context, sessionID string) error
}

// UnmountDashboardCommand releases the session's timers and subscribers.
type UnmountDashboardCommand struct {
	service   unmountService
	telemetry Telemetry
}

// NewUnmountDashboardCommand creates the command.
func NewUnmountDashboardCommand(service unmountService, telemetry Telemetry) *UnmountDashboardCommand {
	return &UnmountDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UnmountDashboardInput] = (*UnmountDashboardCommand)(nil)

// Execute unmounts the session.
func (c *UnmountDashboardCommand) Execute(ctx context.Context, msg UnmountDashboardInput) error {
	if c.service == nil {
		return errors.New("unmount command requires service")
	}
	if msg.SessionID == "" {
		return errMissingSession
	}
	if err := c.service.Unmount(ctx, msg.SessionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.unmount", map[string]any{"session_id": msg.SessionID})
	return nil
}
