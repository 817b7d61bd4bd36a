// Package ast defines the AST node variants as a closed sum type: plain
// data carriers with no behavior of their own. Traversal belongs to the
// passes that walk the tree (see the pretty printer in this package and
// the emitter package), not to the nodes.
package ast

import (
	"github.com/lumen-lang/lumenc/internal/compiler/token"
	"github.com/lumen-lang/lumenc/internal/compiler/types"
)

// Node is implemented by every AST variant. It carries only enough to
// report a source position for diagnostics; it has no Accept method.
// Each pass (the pretty printer below, the emitter) dispatches on the
// concrete type itself via a type switch, the same way go/ast.Walk
// dispatches over ast.Node — this keeps every pass's result type local
// to that pass instead of forcing every node to implement one method
// per pass, which would need a shared result type or an import cycle
// back into every pass package.
type Node interface {
	Pos() token.Position
}

// Program is the root node: a sequence of top-level statements.
type Program struct {
	Body []Node
}

func (n *Program) Pos() token.Position {
	if len(n.Body) == 0 {
		return token.Position{}
	}
	return n.Body[0].Pos()
}

// Literal is a string, number, or boolean constant as it appeared in
// source, tagged with the type the lexer's token class implies.
type Literal struct {
	Token token.Token
	Raw   string
	Type  types.TypeInfo
}

func (n *Literal) Pos() token.Position { return n.Token.Pos }

// VarDecl declares a name, binding it to the value of an expression. A
// declaration without an initializer is not representable: Value is
// never nil.
type VarDecl struct {
	Token   token.Token
	Name    string
	Type    types.TypeInfo
	Value   Node
	IsConst bool
}

func (n *VarDecl) Pos() token.Position { return n.Token.Pos }

// Assign reassigns an existing name to the value of an expression.
type Assign struct {
	Token token.Token
	Name  string
	Value Node
}

func (n *Assign) Pos() token.Position { return n.Token.Pos }

// Variable is a bare name reference.
type Variable struct {
	Token token.Token
	Name  string
}

func (n *Variable) Pos() token.Position { return n.Token.Pos }

// Binary is a two-operand expression: `lhs op rhs`.
type Binary struct {
	Token token.Token
	LHS   Node
	Op    string
	RHS   Node
}

func (n *Binary) Pos() token.Position { return n.Token.Pos }

// Unary is a one-operand prefix expression: `op operand`.
type Unary struct {
	Token   token.Token
	Op      string
	Operand Node
}

func (n *Unary) Pos() token.Position { return n.Token.Pos }

// Proto is a function's name, parameter list, and return type, without
// a body. A bare Proto at program scope is a forward declaration.
type Proto struct {
	Token  token.Token
	Name   string
	Params []types.Parameter
	Ret    types.TypeInfo
}

func (n *Proto) Pos() token.Position { return n.Token.Pos }

// Block is a braced sequence of statements.
type Block struct {
	Token token.Token
	Body  []Node
}

func (n *Block) Pos() token.Position { return n.Token.Pos }

// FuncDecl is a full function definition: prototype plus body. Proto
// and Body are always both present.
type FuncDecl struct {
	Proto *Proto
	Body  *Block
}

func (n *FuncDecl) Pos() token.Position { return n.Proto.Pos() }

// Call invokes a named function. The callee is syntactically restricted
// to a Variable: the source language has no higher-order calls.
type Call struct {
	Token  token.Token
	Callee *Variable
	Args   []Node
}

func (n *Call) Pos() token.Position { return n.Token.Pos }

// Return exits the enclosing function with the value of an expression.
type Return struct {
	Token token.Token
	Value Node
}

func (n *Return) Pos() token.Position { return n.Token.Pos }

// If is a conditional with no else branch.
type If struct {
	Token token.Token
	Cond  Node
	Block *Block
}

func (n *If) Pos() token.Position { return n.Token.Pos }

// IfElse is a conditional with both branches.
type IfElse struct {
	If        *If
	ElseBlock *Block
}

func (n *IfElse) Pos() token.Position { return n.If.Pos() }
