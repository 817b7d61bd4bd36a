package scope

import (
	"testing"

	"github.com/lumen-lang/lumenc/internal/compiler/symbols"
	"github.com/lumen-lang/lumenc/internal/compiler/types"
)

func TestDefineAndLookup(t *testing.T) {
	module := New(nil, "module")
	if !module.IsModuleScope() {
		t.Error("the root scope should report module scope")
	}

	info := symbols.Info{Kind: symbols.KindVar, Type: types.TypeInfo{Kind: types.Int, Name: "int"}}
	if err := module.Define("x", info); err != nil {
		t.Fatalf("Define returned error: %v", err)
	}
	if err := module.Define("x", info); err == nil {
		t.Error("redefining at the same level should fail")
	}

	inner := New(module, "f")
	if inner.IsModuleScope() {
		t.Error("a nested scope is not module scope")
	}
	if _, ok := inner.Lookup("x"); !ok {
		t.Error("Lookup should walk outward to the module scope")
	}
	if _, ok := inner.LookupLocal("x"); ok {
		t.Error("LookupLocal must not walk outward")
	}

	// Shadowing an outer name at an inner level is allowed.
	if err := inner.Define("x", info); err != nil {
		t.Errorf("shadowing should be allowed, got %v", err)
	}
}
