// Package modulestyle enforces a single way of declaring module
// functions: `module_function`, `extend self`, or neither.
package modulestyle

import (
	"rbstyle/internal/ast"
	"rbstyle/internal/diag"
	"rbstyle/internal/fix"
	"rbstyle/internal/rules"
	"rbstyle/internal/source"
)

// RuleName is the identifier used in configuration and output.
const RuleName = "module-style"

// Shape classifies which declaration form a flagged statement has.
type Shape uint8

const (
	// ShapeExtendSelf is an `extend self` declaration.
	ShapeExtendSelf Shape = iota
	// ShapeModuleFunction is a bare `module_function` declaration.
	ShapeModuleFunction
)

// Violation is one statement that conflicts with the enforced style.
type Violation struct {
	Stmt  ast.Stmt
	Shape Shape
}

// Rule checks module bodies for declaration-style violations.
type Rule struct {
	style Style
}

// New builds the rule for the given enforced style. The style must be
// one of the declared constants; anything else is a programming error
// upstream, since configuration strings go through ParseStyle first.
func New(style Style) *Rule {
	switch style {
	case StyleModuleFunction, StyleExtendSelf, StyleNone:
	default:
		panic("modulestyle: invalid style " + style.String())
	}
	return &Rule{style: style}
}

// Style returns the enforced style.
func (r *Rule) Style() Style { return r.style }

func (r *Rule) Name() string { return RuleName }

func (r *Rule) Doc() string {
	return "enforce a consistent module function declaration style"
}

// Message returns the finding message for the enforced style.
func Message(style Style) string {
	switch style {
	case StyleModuleFunction:
		return "prefer the module-function declaration over a self-extension declaration."
	case StyleExtendSelf:
		return "prefer the self-extension declaration over a module-function declaration."
	default:
		return "avoid both the module-function declaration and the self-extension declaration."
	}
}

// Evaluate returns the violating statements of one module body in
// source order. Bodies with fewer than two direct statements never
// produce findings: a module holding nothing but the declaration has
// no methods whose style the declaration could govern.
func (r *Rule) Evaluate(mod *ast.ModuleDecl) []Violation {
	if len(mod.Body) < 2 {
		return nil
	}

	var out []Violation
	for _, stmt := range mod.Body {
		switch {
		case IsExtendSelf(stmt):
			if r.style == StyleModuleFunction || r.style == StyleNone {
				out = append(out, Violation{Stmt: stmt, Shape: ShapeExtendSelf})
			}
		case IsModuleFunction(stmt):
			if r.style == StyleExtendSelf || r.style == StyleNone {
				out = append(out, Violation{Stmt: stmt, Shape: ShapeModuleFunction})
			}
		}
	}
	return out
}

// Check implements rules.Rule.
func (r *Rule) Check(ctx *rules.Context, file *ast.File) {
	file.WalkModules(func(mod *ast.ModuleDecl) {
		for _, v := range r.Evaluate(mod) {
			d := diag.NewWarning(diag.StyModuleStyle, v.Stmt.Span(), Message(r.style))
			if f, ok := r.ProposeEdit(ctx.File, v.Stmt); ok {
				d = d.WithFix(f)
			}
			ctx.Report(d)
		}
	})
}

// ProposeEdit builds the suggested rewrite for one violating
// statement: the canonical declaration of the enforced style, or a
// deletion when neither form is allowed. Suggestions are never safe to
// apply in bulk; swapping the declaration changes method visibility
// semantics, so they carry manual-review applicability.
func (r *Rule) ProposeEdit(file *source.File, stmt ast.Stmt) (diag.Fix, bool) {
	span := stmt.Span()
	if int(span.End) > len(file.Content) || span.Start >= span.End {
		return diag.Fix{}, false
	}
	oldText := string(file.Content[span.Start:span.End])

	switch r.style {
	case StyleModuleFunction:
		return fix.ReplaceSpan(
			"modulestyle.use-module-function",
			"replace with 'module_function'",
			span, oldText, "module_function",
			fix.WithApplicability(diag.FixApplicabilityManualReview),
			fix.Preferred(),
		), true
	case StyleExtendSelf:
		return fix.ReplaceSpan(
			"modulestyle.use-extend-self",
			"replace with 'extend self'",
			span, oldText, "extend self",
			fix.WithApplicability(diag.FixApplicabilityManualReview),
			fix.Preferred(),
		), true
	default:
		span, oldText = growToLine(file, span)
		return fix.DeleteSpan(
			"modulestyle.remove-declaration",
			"remove the declaration",
			span, oldText,
			fix.WithApplicability(diag.FixApplicabilityManualReview),
		), true
	}
}

// growToLine widens span to swallow the whole line when the statement
// is alone on it, so a deletion leaves no blank line behind.
func growToLine(file *source.File, span source.Span) (source.Span, string) {
	content := file.Content

	start := int(span.Start)
	for start > 0 && (content[start-1] == ' ' || content[start-1] == '\t') {
		start--
	}
	end := int(span.End)
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}

	atLineStart := start == 0 || content[start-1] == '\n'
	atLineEnd := end == len(content) || content[end] == '\n'
	if !atLineStart || !atLineEnd {
		return span, string(content[span.Start:span.End])
	}
	if end < len(content) {
		end++
	}
	widened := source.Span{File: span.File, Start: uint32(start), End: uint32(end)}
	return widened, string(content[start:end])
}
