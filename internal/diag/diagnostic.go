package diag

import (
	"rbstyle/internal/source"
)

// Note is a secondary span with extra context for a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces the text covered by Span with NewText. OldText is
// an optional guard: when non-empty, the fix engine validates that the
// span still holds exactly that text before applying the edit.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind is a coarse classification of a fix suggestion.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactorRewrite
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactorRewrite:
		return "rewrite"
	}
	return "unknown"
}

// FixApplicability states how safely a fix can be applied without a
// human looking at it first.
type FixApplicability uint8

const (
	// FixApplicabilityAlwaysSafe fixes may be applied in bulk.
	FixApplicabilityAlwaysSafe FixApplicability = iota
	// FixApplicabilitySafeWithHeuristics fixes are probably fine but
	// rest on heuristics.
	FixApplicabilitySafeWithHeuristics
	// FixApplicabilityManualReview fixes change behavior in ways the
	// tool cannot verify; they are never applied in bulk and require
	// explicit selection.
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// Fix is a data-only suggested correction. Producers attach it to a
// diagnostic; the fix engine decides whether and when to apply it.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

// Diagnostic is the central record every phase produces.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
