// Package ir is a small, hand-built model of an LLVM-shaped SSA textual
// intermediate representation: just enough structure (globals,
// functions, basic blocks, typed values) for the emitter to lower an
// AST into, and enough of a printer to dump it as text for --print-ir
// and --emit-llvm. There is no LLVM binding in play; the back end
// beyond this point is the external assembler/linker in package link,
// so this package is the one place that knows the target textual
// syntax.
package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Type is a physical IR type name, following LLVM's own spelling.
type Type string

const (
	I1     Type = "i1"
	I32    Type = "i32"
	F32    Type = "f32"
	F64    Type = "f64"
	I8Ptr  Type = "i8*"
	TyVoid Type = "void"
)

// Value is an operand: a textual reference (a register like "%t3", a
// global like "@.str0", or a literal like "100") paired with its type.
type Value struct {
	Ref  string
	Type Type
}

// Global is a module-scope constant or variable: a named, typed,
// initialized storage location, with external linkage unless Private.
type Global struct {
	Name    string
	Type    Type
	Init    string // already-rendered initializer text
	Private bool   // true for compiler-generated string constants
}

// Param is a function's formal parameter, as it appears in the IR
// function's signature.
type Param struct {
	Name string
	Type Type
}

// BasicBlock is a label plus an ordered list of already-rendered
// instruction lines. Terminated is set once a block ends in a
// br/ret/unreachable, so callers lowering control flow know whether a
// fallthrough branch to the next block still needs to be inserted.
type BasicBlock struct {
	Label      string
	Lines      []string
	Terminated bool
}

func (b *BasicBlock) emit(line string) {
	b.Lines = append(b.Lines, "  "+line)
}

// Function is an IR function: signature plus body basic blocks.
type Function struct {
	Name     string
	Params   []Param
	RetType  Type
	External bool // true for a declared-only function (e.g. printf)
	Variadic bool

	Blocks  []*BasicBlock
	current *BasicBlock

	nextTemp  int
	nextLabel int
}

// NewFunction creates a function with a single "entry" block ready for
// instructions.
func NewFunction(name string, params []Param, ret Type) *Function {
	fn := &Function{Name: name, Params: params, RetType: ret}
	fn.current = fn.AppendBlock("entry")
	return fn
}

// AppendBlock adds a new block, named base (disambiguated if base
// collides with an existing label). The insertion point is left where
// it was; callers move it with SetInsertPoint.
func (f *Function) AppendBlock(base string) *BasicBlock {
	label := base
	if f.labelTaken(label) {
		f.nextLabel++
		label = fmt.Sprintf("%s%d", base, f.nextLabel)
	}
	b := &BasicBlock{Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) labelTaken(label string) bool {
	for _, b := range f.Blocks {
		if b.Label == label {
			return true
		}
	}
	return false
}

// SetInsertPoint redirects subsequent Emit/Terminate calls to b.
func (f *Function) SetInsertPoint(b *BasicBlock) { f.current = b }

// InsertBlock returns the block instructions are currently appended to.
func (f *Function) InsertBlock() *BasicBlock { return f.current }

// NewTemp allocates a fresh SSA register name, unique within f.
func (f *Function) NewTemp() string {
	f.nextTemp++
	return fmt.Sprintf("%%t%d", f.nextTemp)
}

// Emit appends an already-rendered instruction line to the current
// block. It is a no-op once the current block is terminated, matching
// the invariant that no instruction follows a block's terminator.
func (f *Function) Emit(line string) {
	if f.current.Terminated {
		return
	}
	f.current.emit(line)
}

// Terminate marks the current block as ended by a terminator
// instruction (br/ret) and emits it.
func (f *Function) Terminate(line string) {
	if f.current.Terminated {
		return
	}
	f.current.emit(line)
	f.current.Terminated = true
}

// Module is the top-level IR container: a named collection of global
// declarations and functions, plus the externally linked functions the
// module depends on (printf, pre-declared once per module).
type Module struct {
	Name      string
	Globals   []*Global
	Functions []*Function
	strings   map[string]string // dedupes identical string constants
}

// NewModule creates an empty module with the one external dependency
// every program gets, the variadic printf(i8*, ...) -> i32, already
// declared.
func NewModule(name string) *Module {
	m := &Module{Name: name, strings: make(map[string]string)}
	m.Functions = append(m.Functions, &Function{
		Name:     "printf",
		Params:   []Param{{Name: "fmt", Type: I8Ptr}},
		RetType:  I32,
		External: true,
		Variadic: true,
	})
	return m
}

// DeclareString interns a string literal as a private module-scope
// null-terminated byte array and returns the i8* value referencing it,
// reusing an existing global if the same content was already interned.
func (m *Module) DeclareString(content string) Value {
	if name, ok := m.strings[content]; ok {
		return Value{Ref: name, Type: I8Ptr}
	}
	name := fmt.Sprintf("@.str%d", len(m.strings))
	m.strings[content] = name
	m.Globals = append(m.Globals, &Global{
		Name:    name,
		Type:    Type(fmt.Sprintf("[%d x i8]", len(content)+1)),
		Init:    fmt.Sprintf(`c"%s\00"`, escapeString(content)),
		Private: true,
	})
	return Value{Ref: name, Type: I8Ptr}
}

// escapeString renders string-constant bytes the way the target textual
// syntax spells them: printable ASCII verbatim, everything else (and
// the quote and backslash) as a two-digit hex escape.
func escapeString(content string) string {
	var sb strings.Builder
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", c)
	}
	return sb.String()
}

// AddGlobal registers a module-scope global variable.
func (m *Module) AddGlobal(g *Global) { m.Globals = append(m.Globals, g) }

// AddFunction registers a function definition or declaration.
func (m *Module) AddFunction(f *Function) { m.Functions = append(m.Functions, f) }

// FindFunction looks up a function by name.
func (m *Module) FindFunction(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Print renders the module as LLVM-flavored textual IR.
func (m *Module) Print() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; module %s\n\n", m.Name)

	globals := make([]*Global, len(m.Globals))
	copy(globals, m.Globals)
	sort.SliceStable(globals, func(i, j int) bool { return globals[i].Name < globals[j].Name })
	for _, g := range globals {
		linkage := "global"
		if g.Private {
			linkage = "private unnamed_addr constant"
		}
		fmt.Fprintf(&sb, "%s = %s %s %s\n", g.Name, linkage, g.Type, g.Init)
	}
	if len(globals) > 0 {
		sb.WriteByte('\n')
	}

	for _, f := range m.Functions {
		printFunctionSignature(&sb, f)
		if f.External {
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(" {\n")
		for _, b := range f.Blocks {
			fmt.Fprintf(&sb, "%s:\n", b.Label)
			for _, line := range b.Lines {
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
		}
		sb.WriteString("}\n\n")
	}

	return sb.String()
}

func printFunctionSignature(sb *strings.Builder, f *Function) {
	keyword := "define"
	if f.External {
		keyword = "declare"
	}
	var params []string
	for _, p := range f.Params {
		if f.External {
			params = append(params, string(p.Type))
		} else {
			params = append(params, fmt.Sprintf("%s %%%s", p.Type, p.Name))
		}
	}
	if f.Variadic {
		params = append(params, "...")
	}
	fmt.Fprintf(sb, "%s %s @%s(%s)", keyword, f.RetType, f.Name, strings.Join(params, ", "))
}
