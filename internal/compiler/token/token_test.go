package token

import "testing"

func TestLookupIdentifier(t *testing.T) {
	keywords := map[string]Type{
		"if": If, "then": Then, "else": Else,
		"or": Or, "and": And,
		"true": True, "false": False,
		"const": Const, "for": For, "while": While,
		"fn": Fn, "return": Return,
	}
	for lexeme, want := range keywords {
		if got := LookupIdentifier(lexeme); got != want {
			t.Errorf("LookupIdentifier(%q) = %s, want %s", lexeme, got, want)
		}
	}

	if got := LookupIdentifier("foo"); got != Identifier {
		t.Errorf("LookupIdentifier(\"foo\") = %s, want IDENTIFIER", got)
	}
	// Keywords are case-sensitive.
	if got := LookupIdentifier("If"); got != Identifier {
		t.Errorf("LookupIdentifier(\"If\") = %s, want IDENTIFIER", got)
	}
}

func TestLookupAtomic(t *testing.T) {
	atomics := map[string]Type{
		"(": LParen, ")": RParen, "{": LBrace, "}": RBrace,
		"[": LBracket, "]": RBracket,
		",": Comma, ".": Dot, ":": Colon, ";": Semicolon,
		"=": Assign, "!": Bang, "-": Minus, "+": Plus,
		"*": Star, "/": Slash, "%": Percent,
		"<": Less, ">": Greater,
		"<=": LessEq, ">=": GreaterEq, "==": Equal, "!=": NotEqual,
	}
	for lexeme, want := range atomics {
		got, ok := LookupAtomic(lexeme)
		if !ok {
			t.Errorf("LookupAtomic(%q) not found", lexeme)
			continue
		}
		if got != want {
			t.Errorf("LookupAtomic(%q) = %s, want %s", lexeme, got, want)
		}
	}

	if _, ok := LookupAtomic("@"); ok {
		t.Error("LookupAtomic(\"@\") should not match")
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	// The table's shape matters more than its exact integers: logic
	// binds loosest, then equality, then relational, then additive,
	// then multiplicative, with unary above everything.
	tiers := [][]Type{
		{Or, And},
		{Equal, NotEqual},
		{Less, Greater, LessEq, GreaterEq},
		{Plus, Minus},
		{Star, Slash},
	}
	for i := 1; i < len(tiers); i++ {
		for _, lo := range tiers[i-1] {
			for _, hi := range tiers[i] {
				if Precedence(lo) >= Precedence(hi) {
					t.Errorf("Precedence(%s)=%d should be below Precedence(%s)=%d",
						lo, Precedence(lo), hi, Precedence(hi))
				}
			}
		}
	}
	for _, tier := range tiers {
		for _, op := range tier {
			if Precedence(op) >= UnaryPrecedence {
				t.Errorf("Precedence(%s)=%d should be below UnaryPrecedence=%d",
					op, Precedence(op), UnaryPrecedence)
			}
		}
	}
}

func TestNonOperatorsTerminateExpressions(t *testing.T) {
	for _, typ := range []Type{Semicolon, RParen, Identifier, EndOfStream, Percent} {
		if Precedence(typ) != -1 {
			t.Errorf("Precedence(%s) = %d, want -1", typ, Precedence(typ))
		}
		if IsBinaryOperator(typ) {
			t.Errorf("IsBinaryOperator(%s) should be false", typ)
		}
	}
}

func TestOperatorSets(t *testing.T) {
	for _, typ := range []Type{Or, And, Equal, NotEqual, Less, Greater, LessEq, GreaterEq, Plus, Minus, Star, Slash} {
		if !IsBinaryOperator(typ) {
			t.Errorf("IsBinaryOperator(%s) should be true", typ)
		}
	}
	if !IsUnaryOperator(Bang) || !IsUnaryOperator(Minus) {
		t.Error("! and - should be unary operators")
	}
	if IsUnaryOperator(Plus) {
		t.Error("+ should not be a unary operator")
	}
}
