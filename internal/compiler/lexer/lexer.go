// Package lexer turns source bytes into a token stream with source
// coordinates, one logical token at a time.
package lexer

import (
	"strings"

	"github.com/lumen-lang/lumenc/internal/compiler/errs"
	"github.com/lumen-lang/lumenc/internal/compiler/token"
)

// Lexer scans input left to right. It never backs up past what NextToken
// has already consumed.
type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char, 0 at and past EOF

	line   int // current line, 1-indexed
	column int // current column, 1-indexed
}

// NewLexer constructs a Lexer positioned at the first character of input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	prev := l.ch
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition++

	// Leaving a newline starts the next line at column 1.
	if prev == '\n' {
		l.line++
		l.column = 1
	} else if l.ch != 0 {
		l.column++
	}
}

// peekChar looks one character ahead without consuming it. Advancing past
// EOF yields '\0' indefinitely and never moves the cursor past len(input).
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token, skipping whitespace and comments
// first. The position recorded on the returned token is the position
// at the *end* of its lexeme, not the start, so it is stamped after
// the lexeme has been fully consumed. A lexical error is fatal: it
// panics with an *errs.LexicalError, which the parser recovers at its
// own boundary in ParseProgram.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	var tok token.Token
	switch {
	case l.ch == 0:
		tok = token.Token{Type: token.EndOfStream, Literal: ""}
	case isDigit(l.ch):
		tok = l.lexNumber()
	case isLetter(l.ch):
		tok = l.lexIdentifier()
	case l.ch == '"':
		tok = l.lexString()
	default:
		tok = l.lexSymbol()
	}
	tok.Pos = token.Position{Line: l.line, Column: l.column}
	return tok
}

// skipWhitespaceAndComments consumes ASCII whitespace, "//" line comments,
// and "/* */" block comments, in any interleaving, updating (line, column)
// as it goes. Block comments are matched by the same two-character
// delimiter on both ends; the alternate "(* *)" spelling seen in an
// earlier revision of this language is not recognized.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			startLine, startCol := l.line, l.column
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			for {
				if l.ch == 0 {
					l.error(startLine, startCol, "unterminated comment")
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume '*'
					l.readChar() // consume '/'
					break
				}
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) lexNumber() token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.Number, Literal: l.input[start:l.position]}
}

func (l *Lexer) lexIdentifier() token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{Type: token.LookupIdentifier(lexeme), Literal: lexeme}
}

func (l *Lexer) lexString() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // consume opening '"'

	var sb strings.Builder
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				l.error(l.line, l.column, "invalid escape sequence")
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}

	if l.ch == 0 {
		l.error(startLine, startCol, "unterminated string")
	}
	l.readChar() // consume closing '"'

	return token.Token{Type: token.String, Literal: sb.String()}
}

func (l *Lexer) lexSymbol() token.Token {
	first := l.ch

	// Two-character operators: "=" suffix forms, and no others — the
	// lexer never fuses "->"; the parser reads "-" then ">" separately.
	if l.peekChar() == '=' {
		two := string(first) + "="
		if t, ok := token.LookupAtomic(two); ok {
			l.readChar()
			l.readChar()
			return token.Token{Type: t, Literal: two}
		}
	}

	one := string(first)
	if t, ok := token.LookupAtomic(one); ok {
		l.readChar()
		return token.Token{Type: t, Literal: one}
	}

	l.readChar()
	return token.Token{Type: token.Invalid, Literal: one}
}

func (l *Lexer) error(line, column int, message string) {
	panic(&errs.LexicalError{Line: line, Column: column, Message: message})
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
