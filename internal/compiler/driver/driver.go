// Package driver orchestrates the pipeline: read source, lex, parse,
// optionally print the AST, emit IR, optionally print or write the IR,
// assemble and link. Lexing and parsing are interleaved (the parser
// pulls tokens from the lexer as it goes); every later stage runs to
// completion before the next. The first error stops everything.
package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumen-lang/lumenc/internal/compiler/ast"
	"github.com/lumen-lang/lumenc/internal/compiler/emitter"
	"github.com/lumen-lang/lumenc/internal/compiler/errs"
	"github.com/lumen-lang/lumenc/internal/compiler/ir"
	"github.com/lumen-lang/lumenc/internal/compiler/lexer"
	"github.com/lumen-lang/lumenc/internal/compiler/link"
	"github.com/lumen-lang/lumenc/internal/compiler/logging"
	"github.com/lumen-lang/lumenc/internal/compiler/parser"
)

// SourceExt is the extension source files must carry.
const SourceExt = ".lum"

// Options is everything the command layer resolved from flags,
// configuration, and defaults.
type Options struct {
	Output     string
	PrintAST   bool
	PrintIR    bool
	EmitLLVM   bool
	Linker     string
	LinkerArgs []string

	Stdout io.Writer // where --print-ast / --print-ir write
	Log    *slog.Logger
}

// Run compiles srcPath under opts. A nil error means the requested
// artifact (tree dump, IR dump, or linked executable) was produced.
func Run(srcPath string, opts Options) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logging.New("lumenc")
	}

	content, err := readSource(srcPath)
	if err != nil {
		return err
	}

	opts.Log.Debug("parsing", "file", srcPath)
	prog, err := parseProgram(content)
	if err != nil {
		return err
	}

	if opts.PrintAST {
		ast.Print(opts.Stdout, prog, "")
		return nil
	}

	opts.Log.Debug("emitting", "module", moduleName(srcPath))
	mod, err := emitModule(prog, srcPath)
	if err != nil {
		return err
	}

	if opts.PrintIR {
		fmt.Fprint(opts.Stdout, mod.Print())
		return nil
	}

	if opts.EmitLLVM {
		llPath := opts.Output + ".ll"
		if err := os.WriteFile(llPath, []byte(mod.Print()), 0o644); err != nil {
			return &errs.IOError{Path: llPath, Err: err}
		}
		opts.Log.Info("wrote IR", "path", llPath)
	}

	linker := link.New(opts.Linker, opts.LinkerArgs, opts.Log)
	if err := linker.Produce(mod, opts.Output); err != nil {
		return err
	}

	opts.Log.Info("wrote executable", "path", opts.Output)
	return nil
}

func readSource(path string) (string, error) {
	if filepath.Ext(path) != SourceExt {
		return "", &errs.IOError{Path: path, Err: fmt.Errorf("source must have %s extension", SourceExt)}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", &errs.IOError{Path: path, Err: err}
	}
	return string(b), nil
}

func parseProgram(src string) (*ast.Program, error) {
	lex := lexer.NewLexer(src)
	p := parser.New(lex)
	return p.ParseProgram()
}

func emitModule(prog *ast.Program, srcPath string) (*ir.Module, error) {
	em := emitter.New(moduleName(srcPath))
	return em.Emit(prog)
}

func moduleName(srcPath string) string {
	return strings.TrimSuffix(filepath.Base(srcPath), SourceExt)
}
