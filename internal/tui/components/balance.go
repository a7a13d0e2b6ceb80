package components

import (
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// RenderBalance draws the incomes, outcomes and total cards. A nil
// snapshot renders placeholders until the first fetch resolves.
func RenderBalance(theme themes.Theme, snap *model.BalanceSnapshot) string {
	value := func(style lipgloss.Style, cents int64) string {
		if snap == nil {
			return theme.Faint.Render("...")
		}
		return style.Render(model.FormatAmount(cents))
	}

	var income, outcome, net int64
	if snap != nil {
		income, outcome, net = snap.Income, snap.Outcome, snap.Net
	}
	netStyle := theme.Income
	if net < 0 {
		netStyle = theme.Outcome
	}

	card := func(title, body string) string {
		return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, theme.Subtitle.Render(title), body))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Incomes", value(theme.Income, income)),
		" ",
		card("Outcomes", value(theme.Outcome, outcome)),
		" ",
		card("Total", value(netStyle, net)),
	)
}
