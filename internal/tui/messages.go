package tui

import (
	"github.com/tally-fin/tally/internal/ledger"
	"github.com/tally-fin/tally/internal/model"
)

// Data loading messages.
type viewRefreshedMsg struct {
	groups []ledger.DayGroup
	totals ledger.Totals
}

type categoriesLoadedMsg struct {
	categories []model.Category
}

// mutationDoneMsg signals a completed create, update, or delete. The session
// has already reloaded; the view snapshot rides along.
type mutationDoneMsg struct {
	groups []ledger.DayGroup
	totals ledger.Totals
}

// Error handling.
type errorMsg struct {
	err error
}
