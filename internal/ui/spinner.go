// Package ui holds the interactive terminal pieces shared by commands
package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"jvscan/internal/theme"
)

// ErrInterrupted is returned when the user aborts a running spinner
var ErrInterrupted = errors.New("interrupted")

type workDoneMsg struct{ err error }

type spinnerModel struct {
	spinner     spinner.Model
	title       string
	err         error
	interrupted bool
	done        bool
}

func newSpinnerModel(title string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.InfoStyle

	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	return fmt.Sprintf(" %s %s\n", m.spinner.View(), m.title)
}

// Spin renders a spinner on w while fn runs and returns fn's error
func Spin(w io.Writer, title string, fn func() error) error {
	p := tea.NewProgram(newSpinnerModel(title), tea.WithOutput(w))

	go func() {
		p.Send(workDoneMsg{err: fn()})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run spinner: %w", err)
	}
	m := final.(spinnerModel)
	if m.interrupted {
		return ErrInterrupted
	}
	return m.err
}
