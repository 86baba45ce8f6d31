package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/ledger"
)

// Run starts the dashboard and blocks until the user quits. The session must
// already be started so the first frame has data behind it.
func Run(ctx context.Context, session *ledger.Session) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}

	program := tea.NewProgram(
		New(ctx, session),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
