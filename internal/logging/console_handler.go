package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// consoleHandler renders records as plain lines. Attributes attached through
// With (such as the run id) are kept out of console lines; record attributes
// are appended as key=value.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	errOut io.Writer
	level  slog.Leveler
}

func newConsoleHandler(out, errOut io.Writer, level slog.Leveler) *consoleHandler {
	return &consoleHandler{
		mu:     &sync.Mutex{},
		out:    out,
		errOut: errOut,
		level:  level,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	switch {
	case record.Level >= slog.LevelError:
		b.WriteString("ERROR: ")
	case record.Level >= slog.LevelWarn:
		b.WriteString("WARNING: ")
	case record.Level < slog.LevelInfo:
		b.WriteString("Verbose: ")
	}
	b.WriteString(record.Message)
	record.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", attr.Key, attr.Value.Any())
		return true
	})
	b.WriteString("\n")

	w := h.out
	if record.Level >= slog.LevelWarn {
		w = h.errOut
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}
