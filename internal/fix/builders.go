// Package fix builds and applies suggested edits carried by
// diagnostics.
package fix

import (
	"rbstyle/internal/diag"
	"rbstyle/internal/source"
)

// Option adjusts a fix under construction.
type Option func(*diag.Fix)

// WithApplicability overrides the default always-safe applicability.
func WithApplicability(a diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = a }
}

// WithKind overrides the default quick-fix kind.
func WithKind(k diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = k }
}

// Preferred marks the fix as the primary suggestion among several.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

func build(id, title string, edits []diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		ID:            id,
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// ReplaceSpan builds a single-edit fix replacing span with newText.
// oldText is recorded as a guard and verified at apply time.
func ReplaceSpan(id, title string, span source.Span, oldText, newText string, opts ...Option) diag.Fix {
	return build(id, title, []diag.TextEdit{{
		Span:    span,
		NewText: newText,
		OldText: oldText,
	}}, opts)
}

// DeleteSpan builds a single-edit fix removing the text at span.
func DeleteSpan(id, title string, span source.Span, oldText string, opts ...Option) diag.Fix {
	return build(id, title, []diag.TextEdit{{
		Span:    span,
		NewText: "",
		OldText: oldText,
	}}, opts)
}

// InsertText builds a single-edit fix inserting newText at the start
// of span. An empty span inserts without replacing anything.
func InsertText(id, title string, at source.Span, newText string, opts ...Option) diag.Fix {
	return build(id, title, []diag.TextEdit{{
		Span:    source.Span{File: at.File, Start: at.Start, End: at.Start},
		NewText: newText,
	}}, opts)
}
