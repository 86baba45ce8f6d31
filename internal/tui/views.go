package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/model"
)

var (
	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			MarginTop(1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#3A3A3A"))

	categoryTagStyle = lipgloss.NewStyle().
				Foreground(cli.SubtleColor)

	footerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("#333"))
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return cli.SubtleStyle.Render("Loading transactions...")
	}

	switch m.state {
	case StateEdit:
		return m.renderForm()
	case StateConfirmDelete:
		return m.renderConfirmDelete()
	case StateHelp:
		return m.renderHelp()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("tally"))
	b.WriteString("\n")
	b.WriteString(cli.SubtitleStyle.Render(m.filterLine()))
	b.WriteString("\n")

	if len(m.flat) == 0 {
		b.WriteString("\n")
		b.WriteString(cli.SubtleStyle.Render("No transactions yet. Press n to add one."))
		b.WriteString("\n")
	} else {
		index := 0
		for _, group := range m.groups {
			b.WriteString(dayHeaderStyle.Render(group.Date.Format("Mon, 02 Jan 2006")))
			b.WriteString("\n")
			for _, txn := range group.Transactions {
				b.WriteString(m.renderRow(txn, index == m.cursor))
				b.WriteString("\n")
				index++
			}
		}
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderRow(txn model.Transaction, selected bool) string {
	category := txn.CategoryName
	if category == "" {
		category = "uncategorized"
	}

	line := fmt.Sprintf("  %-40s %s %s",
		truncate(txn.Description, 40),
		categoryTagStyle.Render(fmt.Sprintf("%-16s", truncate(category, 16))),
		cli.FormatAmount(txn.Amount, txn.Kind),
	)

	if selected {
		return selectedRowStyle.Render("▸" + line[1:])
	}
	return line
}

func (m Model) renderFooter() string {
	totals := fmt.Sprintf("income %s   expenses %s   balance %s",
		cli.IncomeStyle.Render(m.totals.Income.String()),
		cli.ExpenseStyle.Render(m.totals.Expenses.String()),
		cli.FormatBalance(m.totals.Balance),
	)

	lines := []string{totals}
	if m.lastError != nil {
		lines = append(lines, cli.FormatError(m.lastError.Error()))
	}
	lines = append(lines, m.help.ShortHelpView(m.keymap.ShortHelp()))

	return footerStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) filterLine() string {
	parts := []string{"showing " + string(m.session.Filter())}
	if period := m.session.Period(); !period.IsZero() {
		parts = append(parts, "in "+period.String())
	} else {
		parts = append(parts, "all months")
	}
	return strings.Join(parts, ", ")
}

func (m Model) renderForm() string {
	var b strings.Builder

	title := "New transaction"
	if m.form.editID != "" {
		title = "Edit transaction"
	}
	b.WriteString(cli.FormatTitle(title))
	b.WriteString("\n\n")

	labels := []string{"Date", "Description", "Amount"}
	for i, input := range m.form.inputs {
		b.WriteString(formLabel(labels[i], m.form.focus == i))
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString(formLabel("Kind", m.form.focus == fieldKind))
	b.WriteString(string(m.form.kind))
	b.WriteString("\n")

	b.WriteString(formLabel("Category", m.form.focus == fieldCategory))
	b.WriteString(m.form.selectedName())
	b.WriteString("\n")

	if m.form.errText != "" {
		b.WriteString("\n")
		b.WriteString(cli.FormatError(m.form.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render("Tab to move, ←/→ to change kind or category, Enter to save, Esc to cancel"))
	return b.String()
}

func formLabel(label string, focused bool) string {
	text := fmt.Sprintf("%-13s", label+":")
	if focused {
		return cli.BoldStyle.Foreground(cli.PrimaryColor).Render(text)
	}
	return cli.SubtleStyle.Render(text)
}

func (m Model) renderConfirmDelete() string {
	content := fmt.Sprintf("%s\n%s %s\n\n%s",
		"Delete this transaction? There is no undo.",
		truncate(m.deleteTarget.Description, 40),
		cli.FormatAmount(m.deleteTarget.Amount, m.deleteTarget.Kind),
		cli.PromptStyle.Render("y to delete, n to keep"),
	)
	return cli.RenderBox("Confirm delete", content)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(cli.SubtleStyle.Render("Press ? or Esc to go back"))
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
