package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows ctrl's screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *controller.Controller, opts ...Option) error {
	if ctrl == nil {
		return fmt.Errorf("controller is required")
	}

	p := tea.NewProgram(
		New(ctx, ctrl, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	common.LogInfo("screen started", common.Fields{"resource": ctrl.Resource()})
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	common.LogInfo("screen closed", common.Fields{"resource": ctrl.Resource()})
	return nil
}
