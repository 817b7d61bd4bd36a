// Package link is the assembler/linker boundary: given an IR module,
// produce a native object at <output>.o and link it into <output> with
// the configured system linker. Everything past the textual IR is an
// external tool invocation; this package only shells out and cleans up.
package link

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/google/uuid"

	"github.com/lumen-lang/lumenc/internal/compiler/errs"
	"github.com/lumen-lang/lumenc/internal/compiler/ir"
)

// assembler turns textual IR into a native object. llc is the one tool
// that speaks the IR syntax the emitter produces.
const assembler = "llc"

// Linker drives the two external steps: assemble, then link.
type Linker struct {
	Command string   // the system linker, cc by default
	Args    []string // extra arguments appended to the link invocation
	Log     *slog.Logger
}

// New constructs a Linker around command, with extra arguments args.
func New(command string, args []string, log *slog.Logger) *Linker {
	return &Linker{Command: command, Args: args, Log: log}
}

// Produce writes mod as textual IR, assembles it to <output>.o, and
// links <output>. The object is first assembled under a fresh
// uuid-suffixed name and renamed into place, so a concurrent run
// compiling to the same output path never sees a half-written object.
// All intermediates are removed on success; on failure, nothing partial
// is left behind.
func (l *Linker) Produce(mod *ir.Module, output string) error {
	stamp := uuid.NewString()[:8]
	irPath := fmt.Sprintf("%s-%s.ll", output, stamp)
	tmpObj := fmt.Sprintf("%s-%s.o", output, stamp)
	objPath := output + ".o"

	if err := os.WriteFile(irPath, []byte(mod.Print()), 0o644); err != nil {
		return &errs.IOError{Path: irPath, Err: err}
	}
	defer os.Remove(irPath)

	l.Log.Debug("assembling", "ir", irPath, "object", objPath)
	if out, err := exec.Command(assembler, "-filetype=obj", "-o", tmpObj, irPath).CombinedOutput(); err != nil {
		os.Remove(tmpObj)
		return &errs.LinkError{Message: fmt.Sprintf("%s failed: %s", assembler, out), Err: err}
	}
	if err := os.Rename(tmpObj, objPath); err != nil {
		os.Remove(tmpObj)
		return &errs.IOError{Path: objPath, Err: err}
	}

	args := append([]string{objPath, "-o", output}, l.Args...)
	l.Log.Debug("linking", "command", l.Command, "output", output)
	if out, err := exec.Command(l.Command, args...).CombinedOutput(); err != nil {
		os.Remove(objPath)
		return &errs.LinkError{Message: fmt.Sprintf("%s failed: %s", l.Command, out), Err: err}
	}

	os.Remove(objPath)
	return nil
}
