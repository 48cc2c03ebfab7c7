package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// IsAffirmative accepts "y" or "yes" in any case, ignoring surrounding space.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

const confirmPrompt = "Commit with this message? [y/N] "

// confirmModel is the Bubble Tea model behind TUI.ConfirmCommit.
type confirmModel struct {
	message string
	input   textinput.Model
	st      styles
	state   confirmState
}

type confirmState int

const (
	stateAsking confirmState = iota
	stateAnswered
	stateAborted
)

func newConfirmModel(message string, st styles) confirmModel {
	ti := textinput.New()
	ti.Prompt = confirmPrompt
	ti.Placeholder = "n"
	ti.CharLimit = 16
	ti.Focus()

	return confirmModel{
		message: message,
		input:   ti,
		st:      st,
		state:   stateAsking,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.state = stateAborted
			return m, tea.Quit
		case tea.KeyEnter:
			m.state = stateAnswered
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Generated commit message"))
	b.WriteString("\n")
	b.WriteString(m.st.message.Render(m.message))
	b.WriteString("\n")

	switch m.state {
	case stateAsking:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.st.dim.Render("enter to answer • esc to cancel"))
	case stateAnswered:
		b.WriteString(confirmPrompt + m.input.Value())
	case stateAborted:
		b.WriteString(confirmPrompt + m.st.dim.Render("(cancelled)"))
	}
	b.WriteString("\n")
	return b.String()
}

// Confirmed reports the final answer. Aborting counts as no.
func (m confirmModel) Confirmed() bool {
	return m.state == stateAnswered && IsAffirmative(m.input.Value())
}
