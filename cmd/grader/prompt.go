package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errPromptCancelled = errors.New("no gradebook path entered")

type promptModel struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Placeholder = "path/to/gradebook.txt"
	ti.Prompt = "Enter file path: "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if strings.TrimSpace(m.input.Value()) != "" {
				m.submitted = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	hint := lipgloss.NewStyle().Faint(true).Render("(enter to grade, esc to cancel)")
	return fmt.Sprintf("%s\n%s\n", m.input.View(), hint)
}

// promptForPath asks for the gradebook path when none was given on the
// command line.
func promptForPath() (string, error) {
	final, err := tea.NewProgram(newPromptModel()).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m := final.(promptModel)
	if m.cancelled || !m.submitted {
		return "", errPromptCancelled
	}
	return strings.TrimSpace(m.input.Value()), nil
}
