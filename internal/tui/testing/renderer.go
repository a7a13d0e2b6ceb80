// Package testing provides test utilities for TUI components.
package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TestRenderer drives a Bubble Tea model without a terminal. Commands
// returned by Update run synchronously and their messages are fed back
// until the model settles.
type TestRenderer struct {
	// Output contains the last rendered view
	Output string

	// Messages contains all messages sent to the component
	Messages []tea.Msg

	// UpdateCount tracks how many times Update was called
	UpdateCount int

	// Quit is set once the model asked the program to quit
	Quit bool
}

// NewTestRenderer creates a new test renderer.
func NewTestRenderer() *TestRenderer {
	return &TestRenderer{
		Messages: make([]tea.Msg, 0),
	}
}

// Render renders a component and captures its output.
func (r *TestRenderer) Render(model tea.Model) string {
	r.Output = model.View()
	return r.Output
}

// Init runs the model's Init command to completion.
func (r *TestRenderer) Init(model tea.Model) tea.Model {
	model = r.settle(model, model.Init())
	r.Output = model.View()
	return model
}

// Send delivers each message in turn and runs every resulting command.
func (r *TestRenderer) Send(model tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		model = r.update(model, msg)
	}
	r.Output = model.View()
	return model
}

func (r *TestRenderer) update(model tea.Model, msg tea.Msg) tea.Model {
	r.Messages = append(r.Messages, msg)
	r.UpdateCount++

	next, cmd := model.Update(msg)
	return r.settle(next, cmd)
}

func (r *TestRenderer) settle(model tea.Model, cmd tea.Cmd) tea.Model {
	if cmd == nil {
		return model
	}

	switch msg := cmd().(type) {
	case nil:
		return model
	case tea.QuitMsg:
		r.Quit = true
		return model
	case tea.BatchMsg:
		for _, c := range msg {
			model = r.settle(model, c)
		}
		return model
	default:
		return r.update(model, msg)
	}
}
