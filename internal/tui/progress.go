package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Progress drives a Model in its own bubbletea program. Add and Finish may
// be called from any goroutine.
type Progress struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// Start renders a progress bar for total units of work on out until Finish
// is called. Keyboard input is left to the terminal so Ctrl+C reaches the
// process.
func Start(out io.Writer, label string, total int) *Progress {
	p := &Progress{
		program: tea.NewProgram(
			NewModel(label, total),
			tea.WithOutput(out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
	return p
}

func (p *Progress) Add(n int) {
	p.program.Send(AddMsg{N: n})
}

// Finish replaces the bar with message and waits for the final render.
func (p *Progress) Finish(message string) {
	p.once.Do(func() {
		p.program.Send(FinishMsg{Message: message})
		<-p.done
	})
}
