package ast

import (
	"rbstyle/internal/source"
)

// ModuleDecl is a `module Name ... end` scope. Name holds the full
// constant path (`Foo::Bar`). Body lists the direct child statements
// in source order.
type ModuleDecl struct {
	SpanAll  source.Span
	NameSpan source.Span
	Name     string
	Body     []Stmt
}

func (m *ModuleDecl) Span() source.Span { return m.SpanAll }
func (*ModuleDecl) stmtNode()           {}

// ClassDecl is a `class Name ... end` scope. Singleton class bodies
// (`class << self`) carry the spelled-out name text.
type ClassDecl struct {
	SpanAll  source.Span
	NameSpan source.Span
	Name     string
	Body     []Stmt
}

func (c *ClassDecl) Span() source.Span { return c.SpanAll }
func (*ClassDecl) stmtNode()           {}

// MethodDecl is a `def name ... end` definition, including the
// `def self.name` form.
type MethodDecl struct {
	SpanAll  source.Span
	NameSpan source.Span
	Name     string
	OnSelf   bool
	Body     []Stmt
}

func (d *MethodDecl) Span() source.Span { return d.SpanAll }
func (*MethodDecl) stmtNode()           {}

// ArgKind classifies a call argument just deeply enough for shape
// matching.
type ArgKind uint8

const (
	// ArgOther is any argument the parser did not classify further.
	ArgOther ArgKind = iota
	// ArgSelf is the bare literal `self` (no surrounding parentheses).
	ArgSelf
	// ArgSymbol is a symbol literal such as `:helper`.
	ArgSymbol
)

// Arg is one argument of a call statement.
type Arg struct {
	SpanAll source.Span
	Kind    ArgKind
	Text    string
}

func (a Arg) Span() source.Span { return a.SpanAll }

// CallStmt is a statement whose head is a method call: an optional
// receiver, a name, and flat arguments. Nested call structure is not
// recorded; shape analysis never needs it.
type CallStmt struct {
	SpanAll  source.Span
	NameSpan source.Span
	Name     string
	// HasReceiver is true for `foo.bar` / `Foo.bar` / `self.bar`;
	// implicit-receiver calls leave it false.
	HasReceiver bool
	// Paren is true when the argument list is parenthesized and
	// adjacent to the name (`extend(self)`).
	Paren bool
	Args  []Arg
	// Block holds the body of a trailing `do ... end`, if any.
	Block []Stmt
}

func (c *CallStmt) Span() source.Span { return c.SpanAll }
func (*CallStmt) stmtNode()           {}

// ExprStmt is any statement the parser does not model structurally:
// assignments, control flow, arbitrary expressions. Only the span is
// kept.
type ExprStmt struct {
	SpanAll source.Span
}

func (e *ExprStmt) Span() source.Span { return e.SpanAll }
func (*ExprStmt) stmtNode()           {}
