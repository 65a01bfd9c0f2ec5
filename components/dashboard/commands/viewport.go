package commands

import (
	"context"
	"errors"

	dashboard "github.com/Turbo9k/dynamic-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// UpdateViewportInput reports the page's viewport width and motion preference.
type UpdateViewportInput struct {
	SessionID     string `json:"session_id"`
	Width         int    `json:"width"`
	ReducedMotion bool   `json:"reduced_motion"`
}

type viewportService interface {
	UpdateViewport(ctx context.Context, sessionID string, viewport dashboard.Viewport) error
}

// UpdateViewportCommand records responsive/accessibility observer changes.
type UpdateViewportCommand struct {
	service   viewportService
	telemetry Telemetry
}

// NewUpdateViewportCommand creates the command.
func NewUpdateViewportCommand(service viewportService, telemetry Telemetry) *UpdateViewportCommand {
	return &UpdateViewportCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateViewportInput] = (*UpdateViewportCommand)(nil)

// Execute stores the viewport on the session.
func (c *UpdateViewportCommand) Execute(ctx context.Context, msg UpdateViewportInput) error {
	if c.service == nil {
		return errors.New("viewport command requires service")
	}
	if msg.SessionID == "" {
		return errMissingSession
	}
	viewport := dashboard.Viewport{Width: msg.Width, ReducedMotion: msg.ReducedMotion}
	if err := c.service.UpdateViewport(ctx, msg.SessionID, viewport); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.viewport", map[string]any{
		"session_id":     msg.SessionID,
		"mobile":         viewport.IsMobile(),
		"reduced_motion": viewport.ReducedMotion,
	})
	return nil
}
