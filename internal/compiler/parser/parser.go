// Package parser implements a recursive-descent parser with precedence
// climbing for expressions, producing an ast.Program from a token
// stream. The parser never attempts error recovery: the first syntax
// error unwinds the whole parse via panic/recover, the same way the
// lexer propagates a lexical error.
package parser

import (
	"fmt"

	"github.com/lumen-lang/lumenc/internal/compiler/ast"
	"github.com/lumen-lang/lumenc/internal/compiler/errs"
	"github.com/lumen-lang/lumenc/internal/compiler/lexer"
	"github.com/lumen-lang/lumenc/internal/compiler/scope"
	"github.com/lumen-lang/lumenc/internal/compiler/symbols"
	"github.com/lumen-lang/lumenc/internal/compiler/token"
	"github.com/lumen-lang/lumenc/internal/compiler/types"
)

// Parser maintains a cursor into the token stream it pulls from its
// lexer. It peeks freely and consumes on match.
type Parser struct {
	l *lexer.Lexer

	curTok  token.Token
	peekTok token.Token

	globalScope  *scope.Scope
	currentScope *scope.Scope
}

// New constructs a Parser reading from l. The two-token lookahead
// window is primed inside ParseProgram, not here, so a lexical error in
// the very first tokens still lands inside the recover boundary.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, globalScope: scope.New(nil, "module")}
	p.currentScope = p.globalScope
	return p
}

func (p *Parser) next() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

// ParseProgram parses the whole token stream to a Program, or returns
// the *errs.ParserError (or *errs.LexicalError, bubbled up unchanged
// from the lexer) that stopped it.
func (p *Parser) ParseProgram() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	p.next()
	p.next()

	prog = &ast.Program{}
	for p.curTok.Type != token.EndOfStream {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	return prog, nil
}

func (p *Parser) errorf(format string, args ...any) {
	panic(&errs.ParserError{
		Line:    p.curTok.Pos.Line,
		Column:  p.curTok.Pos.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) expect(t token.Type) token.Token {
	if p.curTok.Type != t {
		p.errorf("expected %s, got %s (%q)", t, p.curTok.Type, p.curTok.Literal)
	}
	tok := p.curTok
	p.next()
	return tok
}

// parseStatement dispatches on the current token, with one token of
// lookahead to split a declaration (IDENT ":") from a reassignment
// (IDENT "=") from a bare expression statement.
func (p *Parser) parseStatement() ast.Node {
	switch {
	case p.curTok.Type == token.Const,
		p.curTok.Type == token.Identifier && p.peekTok.Type == token.Colon:
		return p.parseVarDecl()
	case p.curTok.Type == token.Identifier && p.peekTok.Type == token.Assign:
		return p.parseAssign()
	case p.curTok.Type == token.LBrace:
		return p.parseBlock()
	case p.curTok.Type == token.Fn:
		return p.parseFuncDecl()
	case p.curTok.Type == token.If:
		return p.parseIfStatement()
	case p.curTok.Type == token.Return:
		return p.parseReturn()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	startTok := p.curTok

	isConst := false
	if p.curTok.Type == token.Const {
		isConst = true
		p.next()
	}

	nameTok := p.expect(token.Identifier)
	p.expect(token.Colon)
	typ := p.parseType()
	p.expect(token.Assign)
	value := p.parseExpr()
	p.expect(token.Semicolon)

	decl := &ast.VarDecl{Token: startTok, Name: nameTok.Literal, Type: typ, Value: value, IsConst: isConst}
	p.defineVar(decl.Name, typ, isConst)
	return decl
}

func (p *Parser) parseAssign() *ast.Assign {
	nameTok := p.expect(token.Identifier)
	tok := p.expect(token.Assign)
	value := p.parseExpr()
	p.expect(token.Semicolon)
	return &ast.Assign{Token: tok, Name: nameTok.Literal, Value: value}
}

func (p *Parser) parseBlock() *ast.Block {
	startTok := p.expect(token.LBrace)

	p.currentScope = scope.New(p.currentScope, "block")
	defer func() { p.currentScope = p.currentScope.Outer }()

	block := &ast.Block{Token: startTok}
	for p.curTok.Type != token.RBrace && p.curTok.Type != token.EndOfStream {
		block.Body = append(block.Body, p.parseStatement())
	}
	p.expect(token.RBrace)
	return block
}

func (p *Parser) parseFuncDecl() ast.Node {
	proto := p.parseProto()

	if p.curTok.Type == token.Semicolon {
		// Bare prototype: a forward declaration, representable at
		// program scope without a body.
		p.next()
		return proto
	}

	p.currentScope = scope.New(p.globalScope, proto.Name)
	for _, param := range proto.Params {
		_ = p.currentScope.Define(param.Name, symbols.Info{Kind: symbols.KindVar, Type: param.Type, IsConst: false})
	}

	body := p.parseBlock()
	p.currentScope = p.globalScope

	return &ast.FuncDecl{Proto: proto, Body: body}
}

func (p *Parser) parseProto() *ast.Proto {
	startTok := p.expect(token.Fn)
	nameTok := p.expect(token.Identifier)
	p.expect(token.LParen)

	var params []types.Parameter
	if p.curTok.Type != token.RParen {
		params = append(params, p.parseParam())
		for p.curTok.Type == token.Comma {
			p.next()
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RParen)

	// The lexer never fuses "->" into one token; the parser reads the
	// two characters "-" then ">" explicitly.
	p.expect(token.Minus)
	p.expect(token.Greater)
	ret := p.parseType()

	proto := &ast.Proto{Token: startTok, Name: nameTok.Literal, Params: params, Ret: ret}
	_ = p.globalScope.Define(proto.Name, symbols.Info{Kind: symbols.KindFunc, Params: params, Ret: ret})
	return proto
}

func (p *Parser) parseParam() types.Parameter {
	nameTok := p.expect(token.Identifier)
	p.expect(token.Colon)
	typ := p.parseType()
	return types.Parameter{Name: nameTok.Literal, Type: typ}
}

func (p *Parser) parseType() types.TypeInfo {
	nameTok := p.expect(token.Identifier)
	return types.FromName(nameTok.Literal)
}

func (p *Parser) parseIfStatement() ast.Node {
	tok := p.expect(token.If)
	cond := p.parseExpr()
	block := p.parseBlock()

	ifNode := &ast.If{Token: tok, Cond: cond, Block: block}
	if p.curTok.Type != token.Else {
		return ifNode
	}

	p.next()
	elseBlock := p.parseBlock()
	return &ast.IfElse{If: ifNode, ElseBlock: elseBlock}
}

func (p *Parser) parseReturn() *ast.Return {
	tok := p.expect(token.Return)
	value := p.parseExpr()
	p.expect(token.Semicolon)
	return &ast.Return{Token: tok, Value: value}
}

func (p *Parser) parseExprStatement() ast.Node {
	expr := p.parseExpr()
	p.expect(token.Semicolon)
	return expr
}

// --- Expressions: precedence climbing ---

func (p *Parser) parseExpr() ast.Node {
	return p.parseBinary(0)
}

// parseBinary is the precedence climb: parse a unary as the left
// operand, then fold in binary operators whose precedence is at least
// min, parsing each right operand at one precedence tighter so that
// same-precedence chains fold left-associatively.
func (p *Parser) parseBinary(min int) ast.Node {
	lhs := p.parseUnary()

	for token.IsBinaryOperator(p.curTok.Type) && token.Precedence(p.curTok.Type) >= min {
		opTok := p.curTok
		prec := token.Precedence(opTok.Type)
		p.next()
		rhs := p.parseBinary(prec + 1)
		lhs = &ast.Binary{Token: opTok, LHS: lhs, Op: opTok.Literal, RHS: rhs}
	}

	return lhs
}

func (p *Parser) parseUnary() ast.Node {
	if token.IsUnaryOperator(p.curTok.Type) {
		opTok := p.curTok
		p.next()
		operand := p.parseUnary()
		return &ast.Unary{Token: opTok, Op: opTok.Literal, Operand: operand}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Node {
	switch p.curTok.Type {
	case token.String:
		tok := p.curTok
		p.next()
		return &ast.Literal{Token: tok, Raw: tok.Literal, Type: types.TypeInfo{Kind: types.String, Name: "string"}}

	case token.Number:
		tok := p.curTok
		p.next()
		return &ast.Literal{Token: tok, Raw: tok.Literal, Type: numberType(tok.Literal)}

	case token.True, token.False:
		tok := p.curTok
		p.next()
		return &ast.Literal{Token: tok, Raw: tok.Literal, Type: types.TypeInfo{Kind: types.Bool, Name: "bool"}}

	case token.Identifier:
		tok := p.curTok
		p.next()
		variable := &ast.Variable{Token: tok, Name: tok.Literal}
		if p.curTok.Type == token.LParen {
			return p.parseCall(variable)
		}
		return variable

	case token.LParen:
		p.next()
		expr := p.parseExpr()
		p.expect(token.RParen)
		return expr

	default:
		p.errorf("unexpected token %s (%q) in expression", p.curTok.Type, p.curTok.Literal)
		return nil
	}
}

// parseCall parses a call's argument list once the callee identifier
// has already been consumed and the cursor sits on "(".
func (p *Parser) parseCall(callee *ast.Variable) ast.Node {
	tok := p.expect(token.LParen)

	var args []ast.Node
	if p.curTok.Type != token.RParen {
		args = append(args, p.parseExpr())
		for p.curTok.Type == token.Comma {
			p.next()
			if p.curTok.Type == token.RParen {
				p.errorf("trailing comma in argument list")
			}
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RParen)

	return &ast.Call{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) defineVar(name string, typ types.TypeInfo, isConst bool) {
	if err := p.currentScope.Define(name, symbols.Info{Kind: symbols.KindVar, Type: typ, IsConst: isConst}); err != nil {
		p.errorf("%s", err)
	}
}

// numberType infers a literal's type the way the lexer produces it: a
// NUMBER lexeme with a '.' is a double (the language has no separate
// float-literal suffix), otherwise it's an int.
func numberType(raw string) types.TypeInfo {
	for _, c := range raw {
		if c == '.' {
			return types.TypeInfo{Kind: types.Double, Name: "double"}
		}
	}
	return types.TypeInfo{Kind: types.Int, Name: "int"}
}
