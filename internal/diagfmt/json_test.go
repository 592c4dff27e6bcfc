package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"rbstyle/internal/diag"
	"rbstyle/internal/source"
)

func sampleBag(fs *source.FileSet) (*diag.Bag, source.FileID) {
	id := fs.AddVirtual("lib/util.rb", []byte("module M\n  extend self\n  def a; end\nend\n"))
	bag := diag.NewBag(0)

	d := diag.NewWarning(diag.StyModuleStyle, source.Span{File: id, Start: 11, End: 22},
		"prefer the module-function declaration over a self-extension declaration.")
	d = d.WithFix(diag.Fix{
		ID:            "modulestyle.use-module-function",
		Title:         "replace with 'module_function'",
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityManualReview,
		IsPreferred:   true,
		Edits: []diag.TextEdit{{
			Span:    source.Span{File: id, Start: 11, End: 22},
			NewText: "module_function",
			OldText: "extend self",
		}},
	})
	bag.Add(d)
	return bag, id
}

func TestJSON_Structure(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d, want 1 each", out.Count, len(out.Diagnostics))
	}

	d := out.Diagnostics[0]
	if d.Severity != "WARNING" {
		t.Errorf("severity = %q, want WARNING", d.Severity)
	}
	if d.Code != "STY3001" {
		t.Errorf("code = %q, want STY3001", d.Code)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 3 {
		t.Errorf("location = %d:%d, want 2:3", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("got %d fixes, want 1", len(d.Fixes))
	}
	f := d.Fixes[0]
	if f.Applicability != "manual-review" {
		t.Errorf("applicability = %q, want manual-review", f.Applicability)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != "module_function" {
		t.Errorf("edits = %+v", f.Edits)
	}
}

func TestJSON_FixesOmittedByDefault(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if strings.Contains(buf.String(), "module_function\"") && strings.Contains(buf.String(), "edits") {
		t.Errorf("fixes should be omitted without IncludeFixes:\n%s", buf.String())
	}
}

func TestJSON_MaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.rb", []byte("module M\nend\n"))
	bag := diag.NewBag(0)
	for i := 0; i < 5; i++ {
		bag.Add(diag.NewWarning(diag.StyModuleStyle, source.Span{File: id, Start: 0, End: 1}, "m"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
}

func TestShort_Format(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)

	want := "util.rb:2:3: WARNING STY3001: prefer the module-function declaration over a self-extension declaration.\n"
	if buf.String() != want {
		t.Errorf("Short output = %q, want %q", buf.String(), want)
	}
}

func TestPretty_PlainOutput(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := sampleBag(fs)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true})

	out := buf.String()
	if !strings.Contains(out, "util.rb:2:3: WARNING STY3001:") {
		t.Errorf("missing header line:\n%s", out)
	}
	if !strings.Contains(out, "  extend self\n") {
		t.Errorf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~~~~~~") {
		t.Errorf("missing caret underline:\n%s", out)
	}
	if !strings.Contains(out, "fix [modulestyle.use-module-function]") {
		t.Errorf("missing fix line:\n%s", out)
	}
}
