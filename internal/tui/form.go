package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/ledger"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// Form focus positions. The text inputs come first, then the kind and
// category selectors.
const (
	fieldDate = iota
	fieldDescription
	fieldAmount
	fieldKind
	fieldCategory
	fieldCount
)

const dateLayout = "2006-01-02"

// formSubmitMsg carries a validated editor result back to the main model.
type formSubmitMsg struct {
	fields service.TransactionFields
	id     string
}

// formCancelMsg signals the editor was dismissed without saving.
type formCancelMsg struct{}

// formModel is the transaction editor. Switching the kind re-checks the
// category selection against the categories eligible for the new kind, so a
// selection never silently points at a category of the other kind.
type formModel struct {
	inputs     []textinput.Model
	categories []model.Category
	eligible   []model.Category
	selected   *string
	editID     string
	errText    string
	kind       model.Kind
	focus      int
}

// newForm builds the editor. A nil existing transaction means create; the
// date defaults to today and the kind to expense.
func newForm(categories []model.Category, existing *model.Transaction) formModel {
	inputs := make([]textinput.Model, 3)

	inputs[fieldDate] = textinput.New()
	inputs[fieldDate].Placeholder = dateLayout
	inputs[fieldDate].CharLimit = 10
	inputs[fieldDate].Width = 12

	inputs[fieldDescription] = textinput.New()
	inputs[fieldDescription].Placeholder = "Description"
	inputs[fieldDescription].CharLimit = 120
	inputs[fieldDescription].Width = 40

	inputs[fieldAmount] = textinput.New()
	inputs[fieldAmount].Placeholder = "0.00"
	inputs[fieldAmount].CharLimit = 20
	inputs[fieldAmount].Width = 12

	f := formModel{
		inputs:     inputs,
		categories: categories,
		kind:       model.KindExpense,
	}

	if existing != nil {
		f.editID = existing.ID
		f.kind = existing.Kind
		f.selected = existing.CategoryID
		f.inputs[fieldDate].SetValue(existing.Date.Format(dateLayout))
		f.inputs[fieldDescription].SetValue(existing.Description)
		f.inputs[fieldAmount].SetValue(existing.Amount.String())
	} else {
		f.inputs[fieldDate].SetValue(time.Now().Format(dateLayout))
	}

	f.eligible = ledger.EligibleCategories(categories, f.kind)
	f.selected = ledger.ReconcileSelection(f.selected, f.eligible)
	f.inputs[fieldDate].Focus()
	return f
}

// Update handles editor input. Enter advances to the next field and submits
// from the last one; Esc cancels without saving.
func (f formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return f, func() tea.Msg { return formCancelMsg{} }

	case "enter":
		if f.focus == fieldCount-1 {
			return f.submit()
		}
		f.setFocus(f.focus + 1)
		return f, nil

	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return f, nil

	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return f, nil
	}

	switch f.focus {
	case fieldKind:
		switch keyMsg.String() {
		case "left", "right", " ":
			f.toggleKind()
		}
		return f, nil

	case fieldCategory:
		switch keyMsg.String() {
		case "left":
			f.cycleCategory(-1)
		case "right", " ":
			f.cycleCategory(1)
		}
		return f, nil
	}

	return f.updateInputs(msg)
}

func (f formModel) updateInputs(msg tea.Msg) (formModel, tea.Cmd) {
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return f, tea.Batch(cmds...)
}

func (f *formModel) setFocus(focus int) {
	f.focus = focus
	for i := range f.inputs {
		if i == focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *formModel) toggleKind() {
	if f.kind == model.KindExpense {
		f.kind = model.KindIncome
	} else {
		f.kind = model.KindExpense
	}
	f.eligible = ledger.EligibleCategories(f.categories, f.kind)
	f.selected = ledger.ReconcileSelection(f.selected, f.eligible)
}

// cycleCategory moves the selection through the eligible categories plus a
// trailing "uncategorized" slot.
func (f *formModel) cycleCategory(delta int) {
	if len(f.eligible) == 0 {
		f.selected = nil
		return
	}

	current := len(f.eligible) // the uncategorized slot
	if f.selected != nil {
		for i, cat := range f.eligible {
			if cat.ID == *f.selected {
				current = i
				break
			}
		}
	}

	next := (current + delta + len(f.eligible) + 1) % (len(f.eligible) + 1)
	if next == len(f.eligible) {
		f.selected = nil
	} else {
		id := f.eligible[next].ID
		f.selected = &id
	}
}

// submit validates the editor fields locally. On failure the form stays open
// with the problem shown; no store call is made.
func (f formModel) submit() (formModel, tea.Cmd) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(f.inputs[fieldDate].Value()))
	if err != nil {
		f.errText = fmt.Sprintf("date must look like %s", dateLayout)
		return f, nil
	}

	description := strings.TrimSpace(f.inputs[fieldDescription].Value())
	if description == "" {
		f.errText = "description cannot be empty"
		return f, nil
	}

	amount, err := model.ParseAmount(f.inputs[fieldAmount].Value())
	if err != nil {
		f.errText = "amount must be a positive number like 12.50"
		return f, nil
	}

	fields := service.TransactionFields{
		Date:        date,
		Description: description,
		Kind:        f.kind,
		Amount:      amount,
		CategoryID:  f.selected,
	}
	id := f.editID
	return f, func() tea.Msg { return formSubmitMsg{fields: fields, id: id} }
}

// selectedName returns the display name of the current category selection.
func (f formModel) selectedName() string {
	if f.selected == nil {
		return "uncategorized"
	}
	for _, cat := range f.eligible {
		if cat.ID == *f.selected {
			return cat.Name
		}
	}
	return "uncategorized"
}
