package token

import (
	"rbstyle/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsSeparator reports whether the token ends a statement.
func (t Token) IsSeparator() bool {
	return t.Kind == Newline || t.Kind == Semicolon || t.Kind == EOF
}

// OpensEndBlock reports whether a keyword in statement-head position
// opens a block terminated by `end`. Modifier forms (`foo if bar`) do
// not count because they never appear at statement head.
func (t Token) OpensEndBlock() bool {
	switch t.Kind {
	case KwModule, KwClass, KwDef, KwIf, KwUnless, KwWhile, KwUntil, KwCase, KwBegin, KwFor:
		return true
	default:
		return false
	}
}
