// Package symbols holds the information the parser's scope chain
// records about each declared name.
package symbols

import "github.com/lumen-lang/lumenc/internal/compiler/types"

// Kind distinguishes what a name was declared as: a variable or a
// function. The parser records it but does not check uses against it.
type Kind int

const (
	KindVar Kind = iota
	KindFunc
)

// Info is what the parser records about a declared name.
type Info struct {
	Kind    Kind
	Type    types.TypeInfo    // for KindVar: the declared type
	IsConst bool              // for KindVar: whether it was declared const
	Params  []types.Parameter // for KindFunc: parameter list
	Ret     types.TypeInfo    // for KindFunc: return type
}
