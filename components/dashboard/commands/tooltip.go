package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
)

// Tooltip actions mirror the chart pointer events.
const (
	TooltipHover = "hover"
	TooltipLeave = "leave"
	TooltipTap   = "tap"
)

// TooltipInput describes a chart interaction.
type TooltipInput struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Index     *int   `json:"index,omitempty"`
}

type tooltipService interface {
	HoverBar(ctx context.Context, sessionID string, i int) error
	LeaveBar(ctx context.Context, sessionID string) error
	TapBar(ctx context.Context, sessionID string, i int) error
}

// TooltipCommand drives the chart tooltip state of a session.
type TooltipCommand struct {
	service   tooltipService
	telemetry Telemetry
}

// NewTooltipCommand creates the command.
func NewTooltipCommand(service tooltipService, telemetry Telemetry) *TooltipCommand {
	return &TooltipCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TooltipInput] = (*TooltipCommand)(nil)

// Execute applies the pointer event. Hover and tap need a bar index.
func (c *TooltipCommand) Execute(ctx context.Context, msg TooltipInput) error {
	if c.service == nil {
		return errors.New("tooltip command requires service")
	}
	if msg.SessionID == "" {
		return errMissingSession
	}
	var err error
	switch msg.Action {
	case TooltipLeave:
		err = c.service.LeaveBar(ctx, msg.SessionID)
	case TooltipHover, TooltipTap:
		if msg.Index == nil {
			return fmt.Errorf("commands: %s requires a bar index", msg.Action)
		}
		if msg.Action == TooltipHover {
			err = c.service.HoverBar(ctx, msg.SessionID, *msg.Index)
		} else {
			err = c.service.TapBar(ctx, msg.SessionID, *msg.Index)
		}
	default:
		return fmt.Errorf("commands: unknown tooltip action %q", msg.Action)
	}
	if err != nil {
		return err
	}
	payload := map[string]any{
		"session_id": msg.SessionID,
		"action":     msg.Action,
	}
	if msg.Index != nil {
		payload["index"] = *msg.Index
	}
	c.telemetry.Record(ctx, "dashboard.command.tooltip", payload)
	return nil
}
