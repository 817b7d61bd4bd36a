// Package emitter lowers an ast.Program into an ir.Module: a single
// tree-walking pass maintaining module- and function-scope symbol
// tables. It dispatches on the concrete ast.Node type via a type
// switch, one private method per variant, rather than a formal Visitor
// interface, since the emitter is the only consumer of its own
// IR-valued result type (see ast.Print for the pretty-printer's
// equivalent, separately-typed traversal).
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumen-lang/lumenc/internal/compiler/ast"
	"github.com/lumen-lang/lumenc/internal/compiler/errs"
	"github.com/lumen-lang/lumenc/internal/compiler/ir"
	"github.com/lumen-lang/lumenc/internal/compiler/types"
)

// funcRecord is the state of the function currently being emitted: the
// IR function handle plus its function-scope locals and constants.
// Emitter saves and restores this when entering and leaving a FuncDecl,
// exactly as a call stack would, since function bodies never nest in
// this language.
type funcRecord struct {
	fn        *ir.Function
	locals    map[string]ir.Value // name -> stack-slot address, typed as the pointee
	constants map[string]ir.Value
}

// Emitter holds the module being built and the two symbol-table tiers:
// module scope (globals, constants) and, while inside a function, that
// function's record.
type Emitter struct {
	module *ir.Module

	globals   map[string]ir.Value
	constants map[string]ir.Value

	current *funcRecord
}

// New creates an Emitter targeting a fresh module named name.
func New(name string) *Emitter {
	return &Emitter{
		module:    ir.NewModule(name),
		globals:   make(map[string]ir.Value),
		constants: make(map[string]ir.Value),
	}
}

// Emit lowers prog to completion and returns the resulting module, or
// the *errs.CodegenError (or *errs.InternalError) that stopped it.
func (e *Emitter) Emit(prog *ast.Program) (mod *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(error); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	e.constants["true"] = ir.Value{Ref: "1", Type: ir.I1}
	e.constants["false"] = ir.Value{Ref: "0", Type: ir.I1}

	for _, stmt := range prog.Body {
		e.lowerTopLevel(stmt)
	}

	return e.module, nil
}

func (e *Emitter) errorf(format string, args ...any) {
	panic(&errs.CodegenError{Message: fmt.Sprintf(format, args...)})
}

func (e *Emitter) lowerTopLevel(n ast.Node) {
	switch n := n.(type) {
	case *ast.Proto:
		e.declareFunction(n)
	case *ast.FuncDecl:
		e.lowerFuncDecl(n)
	case *ast.VarDecl:
		e.lowerModuleVarDecl(n)
	default:
		e.errorf("statement of type %T is not valid at module scope", n)
	}
}

// --- Type mapping ---

func irType(t types.TypeInfo) ir.Type {
	switch t.Kind {
	case types.Int:
		return ir.I32
	case types.Float:
		return ir.F32
	case types.Double:
		return ir.F64
	case types.Bool:
		return ir.I1
	case types.String:
		return ir.I8Ptr
	case types.Void:
		return ir.TyVoid
	default:
		return ir.Type("")
	}
}

func (e *Emitter) mappedType(t types.TypeInfo) ir.Type {
	ty := irType(t)
	if ty == "" {
		e.errorf("unknown type %q", t.Name)
	}
	return ty
}

// --- Declarations ---

// declareFunction builds an IR function type from the mapped
// parameter/return types and creates (or, if a matching declaration
// already exists, reuses) the IR function handle.
func (e *Emitter) declareFunction(p *ast.Proto) *ir.Function {
	if fn, ok := e.module.FindFunction(p.Name); ok {
		return fn
	}

	var params []ir.Param
	for _, param := range p.Params {
		params = append(params, ir.Param{Name: param.Name, Type: e.mappedType(param.Type)})
	}

	fn := &ir.Function{Name: p.Name, Params: params, RetType: e.mappedType(p.Ret), External: true}
	e.module.AddFunction(fn)
	return fn
}

func (e *Emitter) lowerFuncDecl(n *ast.FuncDecl) {
	fn := e.declareFunction(n.Proto)
	fn.External = false
	fn.Blocks = nil
	entry := fn.AppendBlock("entry")
	fn.SetInsertPoint(entry)

	rec := &funcRecord{fn: fn, locals: make(map[string]ir.Value), constants: make(map[string]ir.Value)}
	prevFunc := e.current
	e.current = rec

	for _, param := range fn.Params {
		addr := fmt.Sprintf("%%%s.addr", param.Name)
		fn.Emit(fmt.Sprintf("%s = alloca %s", addr, param.Type))
		fn.Emit(fmt.Sprintf("store %s %%%s, %s* %s", param.Type, param.Name, param.Type, addr))
		rec.locals[param.Name] = ir.Value{Ref: addr, Type: param.Type}
	}

	e.lowerBlockInto(n.Body, fn)

	e.current = prevFunc
}

// lowerModuleVarDecl lowers a module-scope declaration to a global
// holding its initializer. A non-const declaration at module scope is
// a CodegenError.
func (e *Emitter) lowerModuleVarDecl(n *ast.VarDecl) {
	if !n.IsConst {
		e.errorf("%q: a module-scope variable declaration must be const", n.Name)
	}

	lit, ok := n.Value.(*ast.Literal)
	if !ok {
		e.errorf("%q: module-scope initializer must be a compile-time constant", n.Name)
	}
	value := e.lowerLiteral(lit)

	ty := e.mappedType(n.Type)
	name := "@" + n.Name
	e.module.AddGlobal(&ir.Global{Name: name, Type: ty, Init: value.Ref})
	e.globals[n.Name] = ir.Value{Ref: name, Type: ty}
}

// --- Statements ---

func (e *Emitter) lowerBlockInto(b *ast.Block, fn *ir.Function) {
	for _, stmt := range b.Body {
		e.lowerStatement(stmt, fn)
	}
}

func (e *Emitter) lowerStatement(n ast.Node, fn *ir.Function) {
	switch n := n.(type) {
	case *ast.VarDecl:
		e.lowerLocalVarDecl(n, fn)
	case *ast.Assign:
		e.lowerAssign(n, fn)
	case *ast.Return:
		e.lowerReturn(n, fn)
	case *ast.Block:
		e.lowerBlockInto(n, fn)
	case *ast.If:
		e.lowerIf(n, fn)
	case *ast.IfElse:
		e.lowerIfElse(n, fn)
	default:
		// An expression statement: lowered for side effects (a Call),
		// its value discarded.
		e.lowerExpr(n, fn)
	}
}

func (e *Emitter) lowerLocalVarDecl(n *ast.VarDecl, fn *ir.Function) {
	value := e.lowerExpr(n.Value, fn)

	if n.IsConst {
		e.current.constants[n.Name] = value
		return
	}

	ty := e.mappedType(n.Type)
	addr := fmt.Sprintf("%%%s.addr", n.Name)
	fn.Emit(fmt.Sprintf("%s = alloca %s", addr, ty))
	fn.Emit(fmt.Sprintf("store %s %s, %s* %s", ty, value.Ref, ty, addr))
	e.current.locals[n.Name] = ir.Value{Ref: addr, Type: ty}
}

// lowerAssign stores into the named local's stack slot. Assignment is
// forbidden on any module-scope name and on function-scope constants.
func (e *Emitter) lowerAssign(n *ast.Assign, fn *ir.Function) {
	if _, ok := e.globals[n.Name]; ok {
		e.errorf("cannot assign to module-scope name %q", n.Name)
	}
	if _, ok := e.constants[n.Name]; ok {
		e.errorf("cannot assign to module-scope name %q", n.Name)
	}
	if _, ok := e.current.constants[n.Name]; ok {
		e.errorf("cannot assign to constant %q", n.Name)
	}

	addr, ok := e.current.locals[n.Name]
	if !ok {
		e.errorf("assignment to unknown name %q", n.Name)
	}

	value := e.lowerExpr(n.Value, fn)
	fn.Emit(fmt.Sprintf("store %s %s, %s* %s", addr.Type, value.Ref, addr.Type, addr.Ref))
}

func (e *Emitter) lowerReturn(n *ast.Return, fn *ir.Function) {
	value := e.lowerExpr(n.Value, fn)
	fn.Terminate(fmt.Sprintf("ret %s %s", value.Type, value.Ref))
}

// lowerIf emits the condition, a conditional branch into a then block,
// and a merge block where emission resumes.
func (e *Emitter) lowerIf(n *ast.If, fn *ir.Function) {
	cond := e.lowerExpr(n.Cond, fn)
	e.requireType(cond, ir.I1, "if condition")

	thenBB := fn.AppendBlock("then")
	mergeBB := fn.AppendBlock("merge")
	fn.Terminate(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cond.Ref, thenBB.Label, mergeBB.Label))

	fn.SetInsertPoint(thenBB)
	e.lowerBlockInto(n.Block, fn)
	// Emission may have moved on to a nested merge block by now, so the
	// fallthrough check is against wherever the insert point landed, not
	// against thenBB itself.
	if !fn.InsertBlock().Terminated {
		fn.Terminate(fmt.Sprintf("br label %%%s", mergeBB.Label))
	}

	fn.SetInsertPoint(mergeBB)
}

func (e *Emitter) lowerIfElse(n *ast.IfElse, fn *ir.Function) {
	cond := e.lowerExpr(n.If.Cond, fn)
	e.requireType(cond, ir.I1, "if condition")

	thenBB := fn.AppendBlock("then")
	elseBB := fn.AppendBlock("else")
	mergeBB := fn.AppendBlock("merge")
	fn.Terminate(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cond.Ref, thenBB.Label, elseBB.Label))

	fn.SetInsertPoint(thenBB)
	e.lowerBlockInto(n.If.Block, fn)
	if !fn.InsertBlock().Terminated {
		fn.Terminate(fmt.Sprintf("br label %%%s", mergeBB.Label))
	}

	fn.SetInsertPoint(elseBB)
	e.lowerBlockInto(n.ElseBlock, fn)
	if !fn.InsertBlock().Terminated {
		fn.Terminate(fmt.Sprintf("br label %%%s", mergeBB.Label))
	}

	fn.SetInsertPoint(mergeBB)
}

func (e *Emitter) requireType(v ir.Value, want ir.Type, context string) {
	if v.Type != want {
		e.errorf("%s: expected type %s, got %s", context, want, v.Type)
	}
}

// --- Expressions ---

func (e *Emitter) lowerExpr(n ast.Node, fn *ir.Function) ir.Value {
	switch n := n.(type) {
	case *ast.Literal:
		return e.lowerLiteral(n)
	case *ast.Variable:
		return e.lowerVariable(n, fn)
	case *ast.Binary:
		return e.lowerBinary(n, fn)
	case *ast.Unary:
		return e.lowerUnary(n, fn)
	case *ast.Call:
		return e.lowerCall(n, fn)
	default:
		e.errorf("node of type %T is not a valid expression", n)
		panic(&errs.InternalError{Message: "unreachable"})
	}
}

func (e *Emitter) lowerLiteral(n *ast.Literal) ir.Value {
	switch n.Type.Kind {
	case types.Int:
		return ir.Value{Ref: n.Raw, Type: ir.I32}
	case types.Float:
		return ir.Value{Ref: formatFloat(n.Raw), Type: ir.F32}
	case types.Double:
		return ir.Value{Ref: formatFloat(n.Raw), Type: ir.F64}
	case types.Bool:
		if n.Raw == "true" {
			return ir.Value{Ref: "1", Type: ir.I1}
		}
		return ir.Value{Ref: "0", Type: ir.I1}
	case types.String:
		return e.module.DeclareString(n.Raw)
	default:
		e.errorf("literal of unknown type %q", n.Type.Name)
		panic(&errs.InternalError{Message: "unreachable"})
	}
}

func formatFloat(raw string) string {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// lowerVariable resolves a name in lookup order: function locals
// (load), then function constants, then module globals (load), then
// module constants.
func (e *Emitter) lowerVariable(n *ast.Variable, fn *ir.Function) ir.Value {
	if e.current != nil {
		if addr, ok := e.current.locals[n.Name]; ok {
			temp := fn.NewTemp()
			fn.Emit(fmt.Sprintf("%s = load %s, %s* %s", temp, addr.Type, addr.Type, addr.Ref))
			return ir.Value{Ref: temp, Type: addr.Type}
		}
		if v, ok := e.current.constants[n.Name]; ok {
			return v
		}
	}
	if addr, ok := e.globals[n.Name]; ok {
		temp := fn.NewTemp()
		fn.Emit(fmt.Sprintf("%s = load %s, %s* %s", temp, addr.Type, addr.Type, addr.Ref))
		return ir.Value{Ref: temp, Type: addr.Type}
	}
	if v, ok := e.constants[n.Name]; ok {
		return v
	}

	e.errorf("unknown identifier %q", n.Name)
	panic(&errs.InternalError{Message: "unreachable"})
}

// lowerBinary lowers both operands, requires their IR types to match,
// and dispatches on the operator string. Division is lowered as
// floating-point division unconditionally, including for two i32
// operands, and comparisons use the unsigned integer-compare forms;
// both are deliberately preserved quirks of the original lowering (see
// DESIGN.md) rather than silent fixes.
func (e *Emitter) lowerBinary(n *ast.Binary, fn *ir.Function) ir.Value {
	lhs := e.lowerExpr(n.LHS, fn)
	rhs := e.lowerExpr(n.RHS, fn)

	if lhs.Type != rhs.Type {
		e.errorf("binary %q: type mismatch (%s vs %s)", n.Op, lhs.Type, rhs.Type)
	}
	ty := lhs.Type

	temp := fn.NewTemp()
	switch n.Op {
	case "+":
		fn.Emit(fmt.Sprintf("%s = add %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ty}
	case "-":
		fn.Emit(fmt.Sprintf("%s = sub %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ty}
	case "*":
		fn.Emit(fmt.Sprintf("%s = mul %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ty}
	case "/":
		fn.Emit(fmt.Sprintf("%s = fdiv %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ty}
	case "<":
		fn.Emit(fmt.Sprintf("%s = icmp ult %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ir.I1}
	case ">":
		fn.Emit(fmt.Sprintf("%s = icmp ugt %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ir.I1}
	case "<=":
		fn.Emit(fmt.Sprintf("%s = icmp ule %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ir.I1}
	case ">=":
		fn.Emit(fmt.Sprintf("%s = icmp uge %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ir.I1}
	case "==":
		fn.Emit(fmt.Sprintf("%s = icmp eq %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ir.I1}
	case "!=":
		fn.Emit(fmt.Sprintf("%s = icmp ne %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ir.I1}
	case "and":
		fn.Emit(fmt.Sprintf("%s = and %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ty}
	case "or":
		fn.Emit(fmt.Sprintf("%s = or %s %s, %s", temp, ty, lhs.Ref, rhs.Ref))
		return ir.Value{Ref: temp, Type: ty}
	default:
		e.errorf("unknown binary operator %q", n.Op)
		panic(&errs.InternalError{Message: "unreachable"})
	}
}

func (e *Emitter) lowerUnary(n *ast.Unary, fn *ir.Function) ir.Value {
	operand := e.lowerExpr(n.Operand, fn)
	temp := fn.NewTemp()

	switch n.Op {
	case "-":
		fn.Emit(fmt.Sprintf("%s = sub %s 0, %s", temp, operand.Type, operand.Ref))
		return ir.Value{Ref: temp, Type: operand.Type}
	case "!":
		fn.Emit(fmt.Sprintf("%s = xor %s %s, -1", temp, operand.Type, operand.Ref))
		return ir.Value{Ref: temp, Type: operand.Type}
	default:
		e.errorf("unknown unary operator %q", n.Op)
		panic(&errs.InternalError{Message: "unreachable"})
	}
}

func (e *Emitter) lowerCall(n *ast.Call, fn *ir.Function) ir.Value {
	callee, ok := e.module.FindFunction(n.Callee.Name)
	if !ok {
		e.errorf("call to unknown function %q", n.Callee.Name)
	}

	var args []string
	for _, arg := range n.Args {
		v := e.lowerExpr(arg, fn)
		args = append(args, fmt.Sprintf("%s %s", v.Type, v.Ref))
	}
	argList := strings.Join(args, ", ")

	if callee.RetType == ir.TyVoid {
		fn.Emit(fmt.Sprintf("call %s @%s(%s)", callee.RetType, callee.Name, argList))
		return ir.Value{Ref: "", Type: ir.TyVoid}
	}

	temp := fn.NewTemp()
	fn.Emit(fmt.Sprintf("%s = call %s @%s(%s)", temp, callee.RetType, callee.Name, argList))
	return ir.Value{Ref: temp, Type: callee.RetType}
}
