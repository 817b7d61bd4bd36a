// Package scope implements the chain of lexical scopes (module, then
// function, then one level per block) the parser records declarations
// in while building the AST.
package scope

import (
	"fmt"

	"github.com/lumen-lang/lumenc/internal/compiler/symbols"
)

// Scope is one level of a lexical scope chain: a name table plus a link
// to the enclosing scope. The module scope is the root, with Outer nil.
type Scope struct {
	Symbols map[string]symbols.Info
	Outer   *Scope
	Name    string
}

// New creates a scope nested inside outer (nil for the module scope).
func New(outer *Scope, name string) *Scope {
	return &Scope{
		Symbols: make(map[string]symbols.Info),
		Outer:   outer,
		Name:    name,
	}
}

// Define adds a symbol to this scope level only. Redeclaring a name
// already present at this exact level is an error; shadowing a name
// from an outer scope is not.
func (s *Scope) Define(name string, info symbols.Info) error {
	if _, exists := s.Symbols[name]; exists {
		return fmt.Errorf("%q is already declared in this scope", name)
	}
	s.Symbols[name] = info
	return nil
}

// Lookup searches this scope and every enclosing scope outward.
func (s *Scope) Lookup(name string) (symbols.Info, bool) {
	for cur := s; cur != nil; cur = cur.Outer {
		if info, ok := cur.Symbols[name]; ok {
			return info, true
		}
	}
	return symbols.Info{}, false
}

// LookupLocal searches this scope level only.
func (s *Scope) LookupLocal(name string) (symbols.Info, bool) {
	info, ok := s.Symbols[name]
	return info, ok
}

// IsModuleScope reports whether s has no enclosing scope — i.e. whether
// a name defined here is module-scope rather than function-scope.
func (s *Scope) IsModuleScope() bool { return s.Outer == nil }
