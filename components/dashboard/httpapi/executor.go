package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/Turbo9k/dynamic-dashboard/components/dashboard/commands"
)

// Executor is the transport-neutral set of dashboard actions.
type Executor interface {
	Refresh(ctx context.Context, input commands.RefreshDashboardInput) error
	Tooltip(ctx context.Context, input commands.TooltipInput) error
	Viewport(ctx context.Context, input commands.UpdateViewportInput) error
	Unmount(ctx context.Context, input commands.UnmountDashboardInput) error
}

var errCommandMissing = errors.New("httpapi: command not configured")

// CommandExecutor dispatches to go-command commanders.
type CommandExecutor struct {
	RefreshCommander  gocommand.Commander[commands.RefreshDashboardInput]
	TooltipCommander  gocommand.Commander[commands.TooltipInput]
	ViewportCommander gocommand.Commander[commands.UpdateViewportInput]
	UnmountCommander  gocommand.Commander[commands.UnmountDashboardInput]
}

var _ Executor = (*CommandExecutor)(nil)

// Refresh executes the refresh commander.
func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDashboardInput) error {
	if e.RefreshCommander == nil {
		return errCommandMissing
	}
	return e.RefreshCommander.Execute(ctx, input)
}

// Tooltip executes the tooltip commander.
func (e *CommandExecutor) Tooltip(ctx context.Context, input commands.TooltipInput) error {
	if e.TooltipCommander == nil {
		return errCommandMissing
	}
	return e.TooltipCommander.Execute(ctx, input)
}

// Viewport executes the viewport commander.
func (e *CommandExecutor) Viewport(ctx context.Context, input commands.UpdateViewportInput) error {
	if e.ViewportCommander == nil {
		return errCommandMissing
	}
	return e.ViewportCommander.Execute(ctx, input)
}

// Unmount executes the unmount commander.
func (e *CommandExecutor) Unmount(ctx context.Context, input commands.UnmountDashboardInput) error {
	if e.UnmountCommander == nil {
		return errCommandMissing
	}
	return e.UnmountCommander.Execute(ctx, input)
}

// NewCommandExecutor wires the default commanders against a service.
func NewCommandExecutor(service Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		RefreshCommander:  commands.NewRefreshDashboardCommand(service, telemetry),
		TooltipCommander:  commands.NewTooltipCommand(service, telemetry),
		ViewportCommander: commands.NewUpdateViewportCommand(service, telemetry),
		UnmountCommander:  commands.NewUnmountDashboardCommand(service, telemetry),
	}
}
