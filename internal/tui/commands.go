package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/service"
)

// loadView reloads the session from the store and snapshots the derived
// view. The session discards superseded loads internally, so overlapping
// refreshes are safe.
func (m Model) loadView() tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Reload(m.ctx); err != nil {
			return errorMsg{err: err}
		}
		return viewRefreshedMsg{groups: m.session.Groups(), totals: m.session.Totals()}
	}
}

// loadCategories fetches the owner's categories for the editor.
func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		categories, err := m.session.Categories(m.ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		return categoriesLoadedMsg{categories: categories}
	}
}

// submitTransaction persists the editor's fields, creating when id is empty.
func (m Model) submitTransaction(fields service.TransactionFields, id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.SubmitTransaction(m.ctx, fields, id); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{groups: m.session.Groups(), totals: m.session.Totals()}
	}
}

// deleteTransaction removes a transaction after the user confirmed.
func (m Model) deleteTransaction(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.DeleteTransaction(m.ctx, id); err != nil {
			return errorMsg{err: err}
		}
		return mutationDoneMsg{groups: m.session.Groups(), totals: m.session.Totals()}
	}
}
