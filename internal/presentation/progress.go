package presentation

import (
	"fmt"
	"io"
)

// LineProgress reports a progress bar's start and finish as plain lines,
// for output that is not a terminal.
type LineProgress struct {
	writer io.Writer
}

func StartLineProgress(w io.Writer, label string, total int) *LineProgress {
	fmt.Fprintf(w, "%s (%d)...\n", label, total)
	return &LineProgress{writer: w}
}

func (p *LineProgress) Add(int) {}

func (p *LineProgress) Finish(message string) {
	fmt.Fprintln(p.writer, message)
}
