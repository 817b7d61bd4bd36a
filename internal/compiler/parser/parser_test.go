package parser

import (
	"errors"
	"testing"

	"github.com/lumen-lang/lumenc/internal/compiler/ast"
	"github.com/lumen-lang/lumenc/internal/compiler/errs"
	"github.com/lumen-lang/lumenc/internal/compiler/lexer"
	"github.com/lumen-lang/lumenc/internal/compiler/types"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.NewLexer(input))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() returned error: %v", err)
	}
	if prog == nil {
		t.Fatalf("ParseProgram() returned nil program")
	}
	return prog
}

func parseErr(t *testing.T, input string) *errs.ParserError {
	t.Helper()
	p := New(lexer.NewLexer(input))
	_, err := p.ParseProgram()
	if err == nil {
		t.Fatalf("expected a parse error, got none")
	}
	var pe *errs.ParserError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *errs.ParserError, got %T: %v", err, err)
	}
	return pe
}

// literalValue asserts node is a Literal and returns its raw text.
func literalValue(t *testing.T, node ast.Node) string {
	t.Helper()
	lit, ok := node.(*ast.Literal)
	if !ok {
		t.Fatalf("expected *ast.Literal, got %T", node)
	}
	return lit.Raw
}

func TestVarDecl(t *testing.T) {
	prog := parse(t, "foo: int = 100;")

	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Body[0])
	}
	if decl.Name != "foo" {
		t.Errorf("decl.Name = %q, want \"foo\"", decl.Name)
	}
	if decl.Type.Kind != types.Int {
		t.Errorf("decl.Type.Kind = %s, want int", decl.Type.Kind)
	}
	if decl.IsConst {
		t.Error("decl.IsConst should be false")
	}
	lit, ok := decl.Value.(*ast.Literal)
	if !ok {
		t.Fatalf("decl.Value is %T, want *ast.Literal", decl.Value)
	}
	if lit.Raw != "100" || lit.Type.Kind != types.Int {
		t.Errorf("literal = (%q, %s), want (\"100\", int)", lit.Raw, lit.Type.Kind)
	}
}

func TestConstVarDecl(t *testing.T) {
	prog := parse(t, "const pi: double = 3.14;")

	decl := prog.Body[0].(*ast.VarDecl)
	if !decl.IsConst {
		t.Error("decl.IsConst should be true")
	}
	if decl.Type.Kind != types.Double {
		t.Errorf("decl.Type.Kind = %s, want double", decl.Type.Kind)
	}
	if lit := decl.Value.(*ast.Literal); lit.Type.Kind != types.Double {
		t.Errorf("a dotted NUMBER should carry the double type, got %s", lit.Type.Kind)
	}
}

func TestFuncDecl(t *testing.T) {
	prog := parse(t, "fn main() -> int { return 100; }")

	fn, ok := prog.Body[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Body[0])
	}
	if fn.Proto.Name != "main" {
		t.Errorf("proto name = %q, want \"main\"", fn.Proto.Name)
	}
	if len(fn.Proto.Params) != 0 {
		t.Errorf("expected no params, got %d", len(fn.Proto.Params))
	}
	if fn.Proto.Ret.Kind != types.Int {
		t.Errorf("return type = %s, want int", fn.Proto.Ret.Kind)
	}
	if len(fn.Body.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Body))
	}
	ret, ok := fn.Body.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body.Body[0])
	}
	if literalValue(t, ret.Value) != "100" {
		t.Errorf("return value = %q, want \"100\"", literalValue(t, ret.Value))
	}
}

func TestFuncDeclParams(t *testing.T) {
	prog := parse(t, "fn add(a: int, b: int) -> int { return a + b; }")

	fn := prog.Body[0].(*ast.FuncDecl)
	if len(fn.Proto.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Proto.Params))
	}
	for i, name := range []string{"a", "b"} {
		if fn.Proto.Params[i].Name != name {
			t.Errorf("param %d name = %q, want %q", i, fn.Proto.Params[i].Name, name)
		}
		if fn.Proto.Params[i].Type.Kind != types.Int {
			t.Errorf("param %d type = %s, want int", i, fn.Proto.Params[i].Type.Kind)
		}
	}
}

func TestBareProto(t *testing.T) {
	prog := parse(t, "fn put(x: int) -> void;")

	proto, ok := prog.Body[0].(*ast.Proto)
	if !ok {
		t.Fatalf("expected bare *ast.Proto, got %T", prog.Body[0])
	}
	if proto.Name != "put" || proto.Ret.Kind != types.Void {
		t.Errorf("proto = (%q, %s), want (\"put\", void)", proto.Name, proto.Ret.Kind)
	}
}

func TestCall(t *testing.T) {
	prog := parse(t, `foo(100, "hello");`)

	call, ok := prog.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", prog.Body[0])
	}
	if call.Callee.Name != "foo" {
		t.Errorf("callee = %q, want \"foo\"", call.Callee.Name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if literalValue(t, call.Args[0]) != "100" {
		t.Errorf("arg 0 = %q, want \"100\"", literalValue(t, call.Args[0]))
	}
	arg1 := call.Args[1].(*ast.Literal)
	if arg1.Raw != "hello" || arg1.Type.Kind != types.String {
		t.Errorf("arg 1 = (%q, %s), want (\"hello\", string)", arg1.Raw, arg1.Type.Kind)
	}
}

func TestBareIdentifierIsVariable(t *testing.T) {
	prog := parse(t, "fn f() -> int { return x; }")
	ret := prog.Body[0].(*ast.FuncDecl).Body.Body[0].(*ast.Return)
	if _, ok := ret.Value.(*ast.Variable); !ok {
		t.Fatalf("an identifier not followed by ( should parse as *ast.Variable, got %T", ret.Value)
	}
}

func TestBinaryLeftAssociativity(t *testing.T) {
	prog := parse(t, "1+2+3;")

	outer, ok := prog.Body[0].(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", prog.Body[0])
	}
	if outer.Op != "+" {
		t.Fatalf("outer op = %q, want \"+\"", outer.Op)
	}
	inner, ok := outer.LHS.(*ast.Binary)
	if !ok {
		t.Fatalf("left operand should be the nested Binary, got %T", outer.LHS)
	}
	if literalValue(t, inner.LHS) != "1" || literalValue(t, inner.RHS) != "2" {
		t.Errorf("inner = (%s, %s), want (1, 2)", literalValue(t, inner.LHS), literalValue(t, inner.RHS))
	}
	if literalValue(t, outer.RHS) != "3" {
		t.Errorf("outer RHS = %q, want \"3\"", literalValue(t, outer.RHS))
	}
}

func TestBinaryPrecedence(t *testing.T) {
	prog := parse(t, "1+2*3;")

	outer := prog.Body[0].(*ast.Binary)
	if outer.Op != "+" {
		t.Fatalf("outer op = %q, want \"+\"", outer.Op)
	}
	if literalValue(t, outer.LHS) != "1" {
		t.Errorf("outer LHS = %q, want \"1\"", literalValue(t, outer.LHS))
	}
	inner, ok := outer.RHS.(*ast.Binary)
	if !ok || inner.Op != "*" {
		t.Fatalf("right operand should be the * Binary, got %T", outer.RHS)
	}
	if literalValue(t, inner.LHS) != "2" || literalValue(t, inner.RHS) != "3" {
		t.Errorf("inner = (%s, %s), want (2, 3)", literalValue(t, inner.LHS), literalValue(t, inner.RHS))
	}
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	prog := parse(t, "-1+2;")

	outer, ok := prog.Body[0].(*ast.Binary)
	if !ok {
		t.Fatalf("expected Binary('+', Unary('-', 1), 2), got %T at the root", prog.Body[0])
	}
	if outer.Op != "+" {
		t.Fatalf("outer op = %q, want \"+\"", outer.Op)
	}
	un, ok := outer.LHS.(*ast.Unary)
	if !ok || un.Op != "-" {
		t.Fatalf("left operand should be Unary('-'), got %T", outer.LHS)
	}
	if literalValue(t, un.Operand) != "1" {
		t.Errorf("unary operand = %q, want \"1\"", literalValue(t, un.Operand))
	}
}

func TestLogicalOperatorsAreBinary(t *testing.T) {
	prog := parse(t, "true and false or true;")

	// or and and share a tier, so the chain folds left: (and) or true.
	outer := prog.Body[0].(*ast.Binary)
	if outer.Op != "or" {
		t.Fatalf("outer op = %q, want \"or\"", outer.Op)
	}
	inner, ok := outer.LHS.(*ast.Binary)
	if !ok || inner.Op != "and" {
		t.Fatalf("left operand should be the and Binary, got %T", outer.LHS)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	prog := parse(t, "(1+2)*3;")

	outer := prog.Body[0].(*ast.Binary)
	if outer.Op != "*" {
		t.Fatalf("outer op = %q, want \"*\"", outer.Op)
	}
	if inner, ok := outer.LHS.(*ast.Binary); !ok || inner.Op != "+" {
		t.Fatalf("left operand should be the parenthesized + Binary, got %T", outer.LHS)
	}
}

func TestIfStatement(t *testing.T) {
	prog := parse(t, "if 1 == 1 { 2; }")

	ifNode, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Body[0])
	}
	cond, ok := ifNode.Cond.(*ast.Binary)
	if !ok || cond.Op != "==" {
		t.Fatalf("condition should be the == Binary, got %T", ifNode.Cond)
	}
	if len(ifNode.Block.Body) != 1 {
		t.Errorf("expected 1 statement in the block, got %d", len(ifNode.Block.Body))
	}
}

func TestIfElseStatement(t *testing.T) {
	prog := parse(t, "if 1 == 1 { 1; } else { 0; }")

	ifElse, ok := prog.Body[0].(*ast.IfElse)
	if !ok {
		t.Fatalf("expected *ast.IfElse, got %T", prog.Body[0])
	}
	if ifElse.If == nil || ifElse.ElseBlock == nil {
		t.Fatal("both branches must be present")
	}
}

func TestAssignStatement(t *testing.T) {
	prog := parse(t, "x: int = 1; x = 2;")

	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}
	assign, ok := prog.Body[1].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Body[1])
	}
	if assign.Name != "x" || literalValue(t, assign.Value) != "2" {
		t.Errorf("assign = (%q, %q), want (\"x\", \"2\")", assign.Name, literalValue(t, assign.Value))
	}
}

func TestUnknownTypeNameIsDeferred(t *testing.T) {
	// An unrecognized type spelling is not a parse error; the emitter
	// rejects it when a physical type is actually needed.
	prog := parse(t, "x: quux = 1;")
	decl := prog.Body[0].(*ast.VarDecl)
	if decl.Type.Kind != types.Unknown || decl.Type.Name != "quux" {
		t.Errorf("type = (%s, %q), want (unknown, \"quux\")", decl.Type.Kind, decl.Type.Name)
	}
}

func TestTrailingCommaInArguments(t *testing.T) {
	pe := parseErr(t, "foo(1,);")
	if pe.Message != "trailing comma in argument list" {
		t.Errorf("unexpected message: %q", pe.Message)
	}
}

func TestMissingSemicolonCarriesPosition(t *testing.T) {
	pe := parseErr(t, "x: int = 1")
	if pe.Line != 1 {
		t.Errorf("error line = %d, want 1", pe.Line)
	}
}

func TestRedeclarationInSameScope(t *testing.T) {
	parseErr(t, "x: int = 1;\nx: int = 2;")
}

func TestShadowingInInnerScopeIsAllowed(t *testing.T) {
	parse(t, "const x: int = 1;\nfn f() -> int { x: int = 2; return x; }")
}

func TestLexicalErrorBubblesThroughParser(t *testing.T) {
	p := New(lexer.NewLexer(`x: string = "unterminated`))
	_, err := p.ParseProgram()
	var le *errs.LexicalError
	if !errors.As(err, &le) {
		t.Fatalf("expected the lexer's *errs.LexicalError to surface, got %T: %v", err, err)
	}
}
