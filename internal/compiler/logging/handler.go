package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mitchellh/go-wordwrap"
)

// wrapWidth is the column multi-line log messages are folded at.
// Single-line messages shorter than this pass through untouched.
const wrapWidth = 100

const (
	ansiReset  = "\x1b[0m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// Handler renders records as
//
//	[YYYY-MM-DD HH:MM:SS]<ansi>[component:LEVEL]:<reset> message
//
// one complete line per Handle call, written atomically under a mutex
// so interleaved writers never tear a line. slog's built-in handlers
// cannot produce this shape, hence a hand-written one.
type Handler struct {
	mu        *sync.Mutex
	w         io.Writer
	component string
	color     bool
	attrs     []slog.Attr
}

// NewHandler constructs a Handler writing to w. color selects whether
// the level tag is ANSI-wrapped; it is decided once by the caller, not
// re-probed per record.
func NewHandler(w io.Writer, component string, color bool) *Handler {
	return &Handler{mu: new(sync.Mutex), w: w, component: component, color: color}
}

// Enabled defers to the process-wide level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= Level.Level()
}

// Handle writes one record as one line (or one wrapped paragraph with
// aligned continuation lines, for long messages).
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	msg := record.Message

	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, a.String())
	}
	record.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.String())
		return true
	})
	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	if len(msg) > wrapWidth {
		msg = strings.ReplaceAll(wordwrap.WrapString(msg, wrapWidth), "\n", "\n    ")
	}

	tag := fmt.Sprintf("[%s:%s]:", h.component, levelName(record.Level))
	if h.color {
		tag = levelColor(record.Level) + tag + ansiReset
	}
	line := fmt.Sprintf("[%s]%s %s\n", record.Time.Format("2006-01-02 15:04:05"), tag, msg)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

// WithAttrs returns a handler that prefixes every record's attrs with
// attrs. The mutex is shared: both handlers still serialize on the same
// underlying stream.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup reuses the group name as the component tag: the compiler's
// stages each log under their own component.
func (h *Handler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.component = name
	return &clone
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiCyan
	}
}
