package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Phase represents the current state of a progress line
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseDone
	PhaseInterrupted
)

// Messages for the TUI
type (
	AddMsg struct {
		N int
	}
	FinishMsg struct {
		Message string
	}
)

// Model renders one labelled progress bar.
type Model struct {
	Phase   Phase
	label   string
	total   int
	current int
	message string
	spinner spinner.Model
	bar     progress.Model
}

// NewModel creates a progress model for total units of work.
func NewModel(label string, total int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return Model{
		Phase:   PhaseRunning,
		label:   label,
		total:   total,
		spinner: s,
		bar:     p,
	}
}

func (m Model) Current() int { return m.current }

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-len(m.label)-30, 60))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Phase = PhaseInterrupted
			return m, tea.Quit
		}

	case AddMsg:
		m.current = min(m.current+msg.N, m.total)
		return m, nil

	case FinishMsg:
		m.Phase = PhaseDone
		m.message = msg.Message
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Phase == PhaseRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) View() string {
	switch m.Phase {
	case PhaseDone:
		return fmt.Sprintf("%s %s\n", successStyle.Render(iconSuccess), m.message)
	case PhaseInterrupted:
		return warningStyle.Render(fmt.Sprintf("%s %s interrupted at %d/%d", iconInterrupt, m.label, m.current, m.total)) + "\n"
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s  %s %s",
		m.spinner.View(),
		labelStyle.Render(m.label),
		m.bar.ViewAs(percent),
		countStyle.Render(fmt.Sprintf("%d/%d", m.current, m.total)),
		percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))
	return b.String()
}
