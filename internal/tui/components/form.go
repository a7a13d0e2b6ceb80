// Package components holds the reusable pieces of the console screens.
package components

import (
	"strings"

	"github.com/Veraticus/expense-console/internal/tui/themes"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field describes one input of a form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	CharLimit   int
}

// FormModel is a vertical list of labeled text inputs. Tab and the arrow
// keys move the focus; everything else goes to the focused input.
type FormModel struct {
	theme  themes.Theme
	title  string
	err    string
	fields []Field
	inputs []textinput.Model
	focus  int
}

// NewForm creates a form with the first field focused.
func NewForm(title string, fields []Field, theme themes.Theme) FormModel {
	f := FormModel{
		theme:  theme,
		title:  title,
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, field := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.Placeholder
		in.CharLimit = field.CharLimit
		if in.CharLimit == 0 {
			in.CharLimit = 80
		}
		in.Width = 32
		_ = in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(field.Value)
		f.inputs[i] = in
	}
	f.setFocus(0)
	return f
}

func (f *FormModel) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			_ = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// Update handles focus movement and typing.
func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// Value returns the trimmed value of the field with key.
func (f FormModel) Value(key string) string {
	for i, field := range f.fields {
		if field.Key == key {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

// Values returns every trimmed value by key.
func (f FormModel) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		out[field.Key] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}

// Focused returns the key of the focused field.
func (f FormModel) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Key
}

// FocusField moves the focus to key, if present.
func (f *FormModel) FocusField(key string) {
	for i, field := range f.fields {
		if field.Key == key {
			f.setFocus(i)
			return
		}
	}
}

// SetError shows msg under the form; an empty msg clears it.
func (f *FormModel) SetError(msg string) {
	f.err = msg
}

// Err returns the message shown under the form.
func (f FormModel) Err() string {
	return f.err
}

// View renders the form.
func (f FormModel) View() string {
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(field.Label))
	}

	lines := []string{f.theme.Bold.Render(f.title)}
	for i, field := range f.fields {
		label := lipgloss.NewStyle().Width(labelWidth + 2).Render(field.Label)
		marker := "  "
		if i == f.focus {
			marker = lipgloss.NewStyle().Foreground(f.theme.Primary).Render("> ")
		}
		lines = append(lines, marker+f.theme.Subtitle.Render(label)+f.inputs[i].View())
	}
	if f.err != "" {
		lines = append(lines, "", f.theme.StatusError.Render(f.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
