package token

import "testing"

func TestOpensEndBlock(t *testing.T) {
	opens := []Kind{KwModule, KwClass, KwDef, KwIf, KwUnless, KwWhile, KwUntil, KwCase, KwBegin, KwFor}
	for _, k := range opens {
		if !(Token{Kind: k}).OpensEndBlock() {
			t.Errorf("%s should open an end block", k)
		}
	}

	// `do` is not a head-position opener; it attaches to a call or a
	// loop header and is handled separately.
	rest := []Kind{KwDo, KwEnd, KwSelf, KwThen, KwElse, KwRescue, KwReturn, Ident, Const, Op, Newline, EOF}
	for _, k := range rest {
		if (Token{Kind: k}).OpensEndBlock() {
			t.Errorf("%s should not open an end block", k)
		}
	}
}

func TestIsSeparator(t *testing.T) {
	for _, k := range []Kind{Newline, Semicolon, EOF} {
		if !(Token{Kind: k}).IsSeparator() {
			t.Errorf("%s should separate statements", k)
		}
	}
	for _, k := range []Kind{Ident, Comma, KwEnd, Op} {
		if (Token{Kind: k}).IsSeparator() {
			t.Errorf("%s should not separate statements", k)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	if got := LookupKeyword("module", Ident); got != KwModule {
		t.Errorf("LookupKeyword(module) = %s", got)
	}
	if got := LookupKeyword("extend", Ident); got != Ident {
		t.Errorf("LookupKeyword(extend) = %s, want fallback", got)
	}
}
