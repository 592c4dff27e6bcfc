package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rbstyle/internal/diag"
	"rbstyle/internal/source"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func loadFixture(t *testing.T, fs *source.FileSet, path string) source.FileID {
	t.Helper()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return id
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(data)
}

func diagWithFix(span source.Span, f diag.Fix) diag.Diagnostic {
	return diag.NewWarning(diag.StyModuleStyle, span, "msg").WithFix(f)
}

func TestApply_ReplacesText(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "extend self", "module_function")
	res, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied %d fixes, want 1", len(res.Applied))
	}
	if got := readBack(t, path); got != "module M\n  module_function\nend\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestApply_OldTextGuardRejectsStaleSpan(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "something else", "module_function")
	res, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeOnce})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped %d fixes, want 1", len(res.Skipped))
	}
	if got := readBack(t, path); got != "module M\n  extend self\nend\n" {
		t.Errorf("file was modified despite guard: %q", got)
	}
}

func TestApply_AllSkipsManualReview(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "extend self", "module_function",
		WithApplicability(diag.FixApplicabilityManualReview))

	res, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped %d fixes, want 1", len(res.Skipped))
	}
	if got := readBack(t, path); got != "module M\n  extend self\nend\n" {
		t.Errorf("bulk mode modified the file: %q", got)
	}
}

func TestApply_SelectsByID(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "extend self", "module_function",
		WithApplicability(diag.FixApplicabilityManualReview))

	res, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeID, TargetID: "use-mf"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied %d fixes, want 1", len(res.Applied))
	}
	if got := readBack(t, path); got != "module M\n  module_function\nend\n" {
		t.Errorf("file content = %q", got)
	}
}

func TestApply_UnknownIDReportsSkip(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "extend self", "module_function")

	_, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
}

func TestApply_ConflictingEditsAppliedOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	first := ReplaceSpan("first", "replace", span, "extend self", "module_function")
	second := ReplaceSpan("second", "delete", span, "extend self", "")

	res, err := Apply(fs, []diag.Diagnostic{
		diagWithFix(span, first),
		diagWithFix(span, second),
	}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied %d fixes, want 1", len(res.Applied))
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped %d fixes, want 1", len(res.Skipped))
	}
}

func TestApply_DeltaRemapAcrossEdits(t *testing.T) {
	dir := t.TempDir()
	src := "module A\n  extend self\n  def a; end\nend\nmodule B\n  extend self\n  def b; end\nend\n"
	path := writeFixture(t, dir, "a.rb", src)
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	spanA := source.Span{File: id, Start: 11, End: 22}
	startB := uint32(len("module A\n  extend self\n  def a; end\nend\nmodule B\n  "))
	spanB := source.Span{File: id, Start: startB, End: startB + 11}

	fixA := ReplaceSpan("a", "replace", spanA, "extend self", "module_function")
	fixB := ReplaceSpan("b", "replace", spanB, "extend self", "module_function")

	res, err := Apply(fs, []diag.Diagnostic{
		diagWithFix(spanA, fixA),
		diagWithFix(spanB, fixB),
	}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied %d fixes, want 2", len(res.Applied))
	}
	want := "module A\n  module_function\n  def a; end\nend\nmodule B\n  module_function\n  def b; end\nend\n"
	if got := readBack(t, path); got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestApply_VirtualFilesAreSkipped(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("virtual.rb", []byte("module M\n  extend self\nend\n"))

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "extend self", "module_function")

	res, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeOnce})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApply_DryRunLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.rb", "module M\n  extend self\nend\n")
	fs := source.NewFileSetWithBase(dir)
	id := loadFixture(t, fs, path)

	span := source.Span{File: id, Start: 11, End: 22}
	f := ReplaceSpan("use-mf", "replace", span, "extend self", "module_function")

	res, err := Apply(fs, []diag.Diagnostic{diagWithFix(span, f)}, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.FileChanges) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if got := readBack(t, path); got != "module M\n  extend self\nend\n" {
		t.Errorf("dry run modified the file: %q", got)
	}
}

func TestList_Ordering(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("virtual.rb", []byte("module M\n  extend self\n  module_function\nend\n"))

	span1 := source.Span{File: id, Start: 11, End: 22}
	span2 := source.Span{File: id, Start: 25, End: 40}
	f1 := ReplaceSpan("one", "replace", span1, "extend self", "module_function")
	f2 := DeleteSpan("two", "delete", span2, "module_function")

	entries := List(fs, []diag.Diagnostic{
		diagWithFix(span2, f2),
		diagWithFix(span1, f1),
	})
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "one" || entries[1].ID != "two" {
		t.Errorf("entries out of order: %q then %q", entries[0].ID, entries[1].ID)
	}
}
