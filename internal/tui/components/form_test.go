package components

import (
	"strings"
	"testing"

	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func typeText(f FormModel, text string) FormModel {
	for _, r := range text {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestFormTypingAndFocus(t *testing.T) {
	f := NewForm("New bank", []Field{
		{Key: "name", Label: "Name"},
		{Key: "note", Label: "Note", Value: "prefilled"},
	}, themes.Default)

	assert.Equal(t, "name", f.Focused())
	f = typeText(f, "  Nubank ")
	assert.Equal(t, "Nubank", f.Value("name"))

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "note", f.Focused())
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "name", f.Focused())
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "note", f.Focused())

	assert.Equal(t, map[string]string{"name": "Nubank", "note": "prefilled"}, f.Values())
	assert.Empty(t, f.Value("missing"))

	f.FocusField("name")
	assert.Equal(t, "name", f.Focused())
}

func TestFormError(t *testing.T) {
	f := NewForm("New bank", []Field{{Key: "name", Label: "Name"}}, themes.Default)
	f.SetError("Name is required")

	assert.Equal(t, "Name is required", f.Err())
	assert.Contains(t, f.View(), "Name is required")

	f.SetError("")
	assert.NotContains(t, f.View(), "required")
}

func TestRenderBalance(t *testing.T) {
	out := RenderBalance(themes.Default, &model.BalanceSnapshot{Income: 500000, Outcome: 123456, Net: 376544})
	assert.Contains(t, out, "Incomes")
	assert.Contains(t, out, "R$ 5.000,00")
	assert.Contains(t, out, "R$ 1.234,56")
	assert.Contains(t, out, "R$ 3.765,44")

	pending := RenderBalance(themes.Default, nil)
	assert.Equal(t, 3, strings.Count(pending, "..."))
}
