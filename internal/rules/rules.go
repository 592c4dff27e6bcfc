// Package rules defines the style-rule interface and the context
// rules run against.
package rules

import (
	"rbstyle/internal/ast"
	"rbstyle/internal/diag"
	"rbstyle/internal/source"
)

// Context carries everything a rule needs for one file.
type Context struct {
	FileSet  *source.FileSet
	File     *source.File
	Reporter diag.Reporter
}

// Report forwards a diagnostic to the configured reporter.
func (c *Context) Report(d diag.Diagnostic) {
	if c.Reporter != nil {
		c.Reporter.Report(d)
	}
}

// Text returns the source slice covered by span, or "" when the span
// is out of range.
func (c *Context) Text(span source.Span) string {
	if span.Start >= span.End || int(span.End) > len(c.File.Content) {
		return ""
	}
	return string(c.File.Content[span.Start:span.End])
}

// Rule is a single style check over one parsed file.
type Rule interface {
	// Name is the stable rule identifier used in config and output.
	Name() string
	// Doc is a one-line description.
	Doc() string
	// Check inspects the file and reports findings through ctx.
	Check(ctx *Context, file *ast.File)
}
