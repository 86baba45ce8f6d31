// Package tui implements the interactive dashboard: the grouped transaction
// list, its filters and totals, and the transaction editor.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/ledger"
	"github.com/tally-fin/tally/internal/model"
)

// State represents the current state of the dashboard.
type State int

const (
	StateList State = iota
	StateEdit
	StateConfirmDelete
	StateHelp
)

// Model holds the dashboard state. All derived data (groups, totals) is a
// snapshot taken from the session after the latest load; the model itself
// never computes aggregates.
type Model struct {
	ctx          context.Context
	session      *ledger.Session
	lastError    error
	keymap       KeyMap
	help         help.Model
	form         formModel
	groups       []ledger.DayGroup
	flat         []model.Transaction
	categories   []model.Category
	deleteTarget model.Transaction
	totals       ledger.Totals
	cursor       int
	width        int
	height       int
	state        State
	ready        bool
	quitting     bool
}

// New creates the dashboard model around a started session.
func New(ctx context.Context, session *ledger.Session) Model {
	return Model{
		ctx:     ctx,
		session: session,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		state:   StateList,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.loadView(),
		m.loadCategories(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewRefreshedMsg:
		m.applySnapshot(msg.groups, msg.totals)
		m.ready = true
		m.lastError = nil
		return m, nil

	case mutationDoneMsg:
		m.applySnapshot(msg.groups, msg.totals)
		m.lastError = nil
		return m, m.loadCategories()

	case categoriesLoadedMsg:
		m.categories = msg.categories
		return m, nil

	case errorMsg:
		m.lastError = msg.err
		return m, nil

	case formSubmitMsg:
		m.state = StateList
		return m, m.submitTransaction(msg.fields, msg.id)

	case formCancelMsg:
		m.state = StateList
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == StateEdit {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateEdit:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case StateConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			m.state = StateList
			return m, m.deleteTransaction(m.deleteTarget.ID)
		case "n", "N", "esc", "q":
			m.state = StateList
			return m, nil
		}
		return m, nil

	case StateHelp:
		switch msg.String() {
		case "?", "esc", "q":
			m.state = StateList
		}
		return m, nil
	}

	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.state = StateHelp
		return m, nil

	case "k", "up":
		m.moveCursor(-1)
	case "j", "down":
		m.moveCursor(1)
	case "pgup", "ctrl+b":
		m.moveCursor(-10)
	case "pgdown", "ctrl+f":
		m.moveCursor(10)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(0, len(m.flat)-1)

	case "n":
		m.form = newForm(m.categories, nil)
		m.state = StateEdit
		return m, nil

	case "enter", "e":
		if txn, ok := m.selected(); ok {
			m.form = newForm(m.categories, &txn)
			m.state = StateEdit
		}
		return m, nil

	case "d":
		if txn, ok := m.selected(); ok {
			m.deleteTarget = txn
			m.state = StateConfirmDelete
		}
		return m, nil

	case "f", "tab":
		m.cycleFilter()
		return m, nil

	case "left", "[":
		m.shiftMonth(-1)
		return m, nil
	case "right", "]":
		m.shiftMonth(1)
		return m, nil
	case "a", "0":
		m.session.SelectPeriod(model.Month{})
		m.snapshot()
		return m, nil

	case "r", "ctrl+r":
		return m, m.loadView()
	}
	return m, nil
}

// cycleFilter rotates all -> expense -> income -> all. Filtering is pure
// over the already loaded list, so no store round trip happens here.
func (m *Model) cycleFilter() {
	var next ledger.TypeFilter
	switch m.session.Filter() {
	case ledger.FilterAll:
		next = ledger.FilterExpense
	case ledger.FilterExpense:
		next = ledger.FilterIncome
	default:
		next = ledger.FilterAll
	}
	_ = m.session.SelectFilter(next)
	m.snapshot()
}

// shiftMonth moves the period filter. From the unrestricted view either
// direction lands on the current month first.
func (m *Model) shiftMonth(delta int) {
	period := m.session.Period()
	switch {
	case period.IsZero():
		period = model.MonthOf(time.Now())
	case delta < 0:
		period = period.Prev()
	default:
		period = period.Next()
	}
	m.session.SelectPeriod(period)
	m.snapshot()
}

func (m *Model) snapshot() {
	m.applySnapshot(m.session.Groups(), m.session.Totals())
}

func (m *Model) applySnapshot(groups []ledger.DayGroup, totals ledger.Totals) {
	m.groups = groups
	m.totals = totals
	m.flat = m.flat[:0]
	for _, g := range groups {
		m.flat = append(m.flat, g.Transactions...)
	}
	if m.cursor >= len(m.flat) {
		m.cursor = max(0, len(m.flat)-1)
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.flat) {
		m.cursor = max(0, len(m.flat)-1)
	}
}

// selected returns the transaction under the cursor.
func (m Model) selected() (model.Transaction, bool) {
	if len(m.flat) == 0 || m.cursor >= len(m.flat) {
		return model.Transaction{}, false
	}
	return m.flat[m.cursor], true
}
