// Package logging builds the compiler's diagnostic logger: a log/slog
// front end over a bespoke handler that renders the bracketed,
// ANSI-colored line format the driver emits on standard error, fanned
// out to additional sinks (a --log-file) through slog-multi.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Level is the process-wide log level. Both the configuration file and
// the --log-level flag adjust it at startup; the handlers consult it on
// every record, so it never requires rebuilding the logger.
var Level = new(slog.LevelVar)

// SetLevel parses a level name (case-insensitive) and installs it as
// the process-wide level. Unknown names fall back to info.
func SetLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		Level.Set(slog.LevelDebug)
	case "warn":
		Level.Set(slog.LevelWarn)
	case "error":
		Level.Set(slog.LevelError)
	default:
		Level.Set(slog.LevelInfo)
	}
}

// New builds the root logger: stderr always, plus one handler per extra
// sink. Color is decided once per sink at construction, never per line.
func New(component string, extra ...io.Writer) *slog.Logger {
	handlers := []slog.Handler{
		NewHandler(os.Stderr, component, isTerminal(os.Stderr)),
	}
	for _, w := range extra {
		handlers = append(handlers, NewHandler(w, component, isTerminal(w)))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// isTerminal reports whether w is a character device. Files and pipes
// are not, and get their ANSI codes stripped.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
