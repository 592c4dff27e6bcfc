package modulestyle

import (
	"strings"
	"testing"

	"rbstyle/internal/ast"
	"rbstyle/internal/diag"
	"rbstyle/internal/lexer"
	"rbstyle/internal/parser"
	"rbstyle/internal/rules"
	"rbstyle/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.File, *source.File, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rb", []byte(src))
	file := fs.Get(id)

	toks := lexer.New(file, lexer.Options{}).Tokenize()
	astFile := parser.ParseFile(file, toks, parser.Options{})
	return astFile, file, fs
}

func firstModule(t *testing.T, f *ast.File) *ast.ModuleDecl {
	t.Helper()
	var mod *ast.ModuleDecl
	f.WalkModules(func(m *ast.ModuleDecl) {
		if mod == nil {
			mod = m
		}
	})
	if mod == nil {
		t.Fatalf("no module declaration parsed")
	}
	return mod
}

func TestParseStyle(t *testing.T) {
	cases := []struct {
		input   string
		want    Style
		wantErr bool
	}{
		{input: "module_function", want: StyleModuleFunction},
		{input: "extend_self", want: StyleExtendSelf},
		{input: "none", want: StyleNone},
		{input: "", wantErr: true},
		{input: "Extend_Self", wantErr: true},
		{input: "both", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseStyle(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseStyle(%q) = %v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStyle(%q) error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNew_PanicsOnInvalidStyle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid style")
		}
	}()
	New(Style(42))
}

func TestShapePredicates(t *testing.T) {
	cases := []struct {
		name           string
		src            string
		extendSelf     bool
		moduleFunction bool
	}{
		{
			name:       "extend self",
			src:        "module M\n  extend self\n  def a; end\nend\n",
			extendSelf: true,
		},
		{
			name:       "extend with adjacent parens",
			src:        "module M\n  extend(self)\n  def a; end\nend\n",
			extendSelf: true,
		},
		{
			name: "extend with spaced parens is a grouped expression",
			src:  "module M\n  extend (self)\n  def a; end\nend\n",
		},
		{
			name: "extend other module",
			src:  "module M\n  extend Comparable\n  def a; end\nend\n",
		},
		{
			name: "extend with receiver",
			src:  "module M\n  obj.extend self\n  def a; end\nend\n",
		},
		{
			name: "extend self guarded by modifier",
			src:  "module M\n  extend self if ENV['X']\n  def a; end\nend\n",
		},
		{
			name:           "module_function",
			src:            "module M\n  module_function\n  def a; end\nend\n",
			moduleFunction: true,
		},
		{
			name:           "module_function with empty parens",
			src:            "module M\n  module_function()\n  def a; end\nend\n",
			moduleFunction: true,
		},
		{
			name: "module_function with symbol argument",
			src:  "module M\n  def a; end\n  module_function :a\nend\n",
		},
		{
			name: "module_function guarded by modifier",
			src:  "module M\n  module_function if ENV['X']\n  def a; end\nend\n",
		},
		{
			name: "module_function with receiver",
			src:  "module M\n  self.module_function\n  def a; end\nend\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			astFile, _, _ := parseSource(t, tc.src)
			mod := firstModule(t, astFile)

			gotExtend := false
			gotMF := false
			for _, stmt := range mod.Body {
				if IsExtendSelf(stmt) {
					gotExtend = true
				}
				if IsModuleFunction(stmt) {
					gotMF = true
				}
			}
			if gotExtend != tc.extendSelf {
				t.Errorf("IsExtendSelf = %v, want %v", gotExtend, tc.extendSelf)
			}
			if gotMF != tc.moduleFunction {
				t.Errorf("IsModuleFunction = %v, want %v", gotMF, tc.moduleFunction)
			}
		})
	}
}

func TestEvaluate_ByStyle(t *testing.T) {
	const withExtend = "module M\n  extend self\n  def a; end\nend\n"
	const withMF = "module M\n  module_function\n  def a; end\nend\n"
	const withBoth = "module M\n  extend self\n  module_function\n  def a; end\nend\n"

	cases := []struct {
		name  string
		style Style
		src   string
		want  int
	}{
		{name: "module_function flags extend self", style: StyleModuleFunction, src: withExtend, want: 1},
		{name: "module_function accepts module_function", style: StyleModuleFunction, src: withMF, want: 0},
		{name: "extend_self flags module_function", style: StyleExtendSelf, src: withMF, want: 1},
		{name: "extend_self accepts extend self", style: StyleExtendSelf, src: withExtend, want: 0},
		{name: "none flags extend self", style: StyleNone, src: withExtend, want: 1},
		{name: "none flags module_function", style: StyleNone, src: withMF, want: 1},
		{name: "none flags both", style: StyleNone, src: withBoth, want: 2},
		{name: "module_function flags only extend in mixed", style: StyleModuleFunction, src: withBoth, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			astFile, _, _ := parseSource(t, tc.src)
			mod := firstModule(t, astFile)

			got := New(tc.style).Evaluate(mod)
			if len(got) != tc.want {
				t.Fatalf("Evaluate returned %d violations, want %d", len(got), tc.want)
			}
		})
	}
}

func TestEvaluate_SmallBodiesAreSkipped(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{name: "empty module", src: "module M\nend\n"},
		{name: "only the declaration", src: "module M\n  extend self\nend\n"},
		{name: "only module_function", src: "module M\n  module_function\nend\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			astFile, _, _ := parseSource(t, tc.src)
			mod := firstModule(t, astFile)

			for _, style := range []Style{StyleModuleFunction, StyleExtendSelf, StyleNone} {
				if got := New(style).Evaluate(mod); len(got) != 0 {
					t.Errorf("style %v: got %d violations for %q, want 0", style, len(got), tc.src)
				}
			}
		})
	}
}

func TestEvaluate_SourceOrder(t *testing.T) {
	src := "module M\n  module_function\n  def a; end\n  extend self\nend\n"
	astFile, _, _ := parseSource(t, src)
	mod := firstModule(t, astFile)

	got := New(StyleNone).Evaluate(mod)
	if len(got) != 2 {
		t.Fatalf("got %d violations, want 2", len(got))
	}
	if got[0].Shape != ShapeModuleFunction || got[1].Shape != ShapeExtendSelf {
		t.Errorf("violations out of source order: %v then %v", got[0].Shape, got[1].Shape)
	}
	if got[0].Stmt.Span().Start >= got[1].Stmt.Span().Start {
		t.Errorf("spans out of order: %v then %v", got[0].Stmt.Span(), got[1].Stmt.Span())
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		style Style
		want  string
	}{
		{StyleModuleFunction, "prefer the module-function declaration over a self-extension declaration."},
		{StyleExtendSelf, "prefer the self-extension declaration over a module-function declaration."},
		{StyleNone, "avoid both the module-function declaration and the self-extension declaration."},
	}
	for _, tc := range cases {
		if got := Message(tc.style); got != tc.want {
			t.Errorf("Message(%v) = %q, want %q", tc.style, got, tc.want)
		}
	}
}

func TestCheck_NestedModules(t *testing.T) {
	src := "module Outer\n" +
		"  def helper; end\n" +
		"  module Inner\n" +
		"    extend self\n" +
		"    def a; end\n" +
		"  end\n" +
		"end\n"

	astFile, file, fs := parseSource(t, src)

	bag := diag.NewBag(0)
	ctx := &rules.Context{FileSet: fs, File: file, Reporter: &diag.BagReporter{Bag: bag}}
	New(StyleModuleFunction).Check(ctx, astFile)

	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != diag.SevWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if d.Code != diag.StyModuleStyle {
		t.Errorf("code = %v, want %v", d.Code, diag.StyModuleStyle)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("got %d fixes, want 1", len(d.Fixes))
	}
	if d.Fixes[0].Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("applicability = %v, want manual review", d.Fixes[0].Applicability)
	}
}

// applyEdits splices the fix edits into the source text.
func applyEdits(src string, f diag.Fix) string {
	out := src
	// Single-edit fixes only; enough for this rule.
	for _, e := range f.Edits {
		out = out[:e.Span.Start] + e.NewText + out[e.Span.End:]
	}
	return out
}

func TestProposeEdit_RoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		style Style
		src   string
	}{
		{
			name:  "rewrite extend self to module_function",
			style: StyleModuleFunction,
			src:   "module M\n  extend self\n  def a; end\nend\n",
		},
		{
			name:  "rewrite module_function to extend self",
			style: StyleExtendSelf,
			src:   "module M\n  module_function\n  def a; end\nend\n",
		},
		{
			name:  "delete declaration under none",
			style: StyleNone,
			src:   "module M\n  extend self\n  def a; end\nend\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			astFile, file, _ := parseSource(t, tc.src)
			mod := firstModule(t, astFile)
			rule := New(tc.style)

			violations := rule.Evaluate(mod)
			if len(violations) != 1 {
				t.Fatalf("got %d violations, want 1", len(violations))
			}

			f, ok := rule.ProposeEdit(file, violations[0].Stmt)
			if !ok {
				t.Fatal("ProposeEdit returned no fix")
			}
			if len(f.Edits) != 1 {
				t.Fatalf("got %d edits, want 1", len(f.Edits))
			}
			edit := f.Edits[0]
			if got := tc.src[edit.Span.Start:edit.Span.End]; got != edit.OldText {
				t.Fatalf("OldText guard %q does not match source %q", edit.OldText, got)
			}

			fixed := applyEdits(tc.src, f)
			astFixed, _, _ := parseSource(t, fixed)
			modFixed := firstModule(t, astFixed)
			if again := rule.Evaluate(modFixed); len(again) != 0 {
				t.Fatalf("fixed source still has %d violations:\n%s", len(again), fixed)
			}
		})
	}
}

func TestProposeEdit_CanonicalText(t *testing.T) {
	src := "module M\n  extend(self)\n  def a; end\nend\n"
	astFile, file, _ := parseSource(t, src)
	mod := firstModule(t, astFile)

	rule := New(StyleModuleFunction)
	violations := rule.Evaluate(mod)
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}
	f, ok := rule.ProposeEdit(file, violations[0].Stmt)
	if !ok {
		t.Fatal("ProposeEdit returned no fix")
	}
	if f.Edits[0].NewText != "module_function" {
		t.Errorf("NewText = %q, want %q", f.Edits[0].NewText, "module_function")
	}
}

func TestProposeEdit_DeleteRemovesWholeLine(t *testing.T) {
	src := "module M\n  extend self\n  def a; end\nend\n"
	astFile, file, _ := parseSource(t, src)
	mod := firstModule(t, astFile)

	rule := New(StyleNone)
	violations := rule.Evaluate(mod)
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(violations))
	}
	f, ok := rule.ProposeEdit(file, violations[0].Stmt)
	if !ok {
		t.Fatal("ProposeEdit returned no fix")
	}

	fixed := applyEdits(src, f)
	if strings.Contains(fixed, "extend self") {
		t.Errorf("declaration still present:\n%s", fixed)
	}
	if strings.Contains(fixed, "\n\n") {
		t.Errorf("deletion left a blank line:\n%s", fixed)
	}
}
