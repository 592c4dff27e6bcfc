package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"rbstyle/internal/diag"
	"rbstyle/internal/source"
)

// Pretty renders diagnostics in a human readable form. The bag is
// expected to be sorted already. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret underline, then notes and
// fix suggestions when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printDiagnostic(w, d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	path := formatPath(file, fs, opts.PathMode)
	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = color.New(color.Bold).Sprint(code)
	}

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)

	printSnippet(w, file, d.Primary, start, end, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nStart, _ := fs.Resolve(note.Span)
			nFile := fs.Get(note.Span.File)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", formatPath(nFile, fs, opts.PathMode), nStart.Line, nStart.Col, note.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			marker := ""
			if f.IsPreferred {
				marker = " (preferred)"
			}
			fmt.Fprintf(w, "  fix [%s]: %s (%s)%s\n", f.ID, f.Title, f.Applicability, marker)
		}
	}
}

func printSnippet(w io.Writer, file *source.File, span source.Span, start, end source.LineCol, opts PrettyOpts) {
	if file == nil {
		return
	}
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", line)

	// Underline runs to the span end, or to the end of the first line
	// for multi-line spans.
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		width = len(line) - int(start.Col) + 1
	}
	if width < 1 {
		width = 1
	}
	if rem := len(line) - int(start.Col) + 1; width > rem && rem > 0 {
		width = rem
	}

	var pad strings.Builder
	for i := 0; i < int(start.Col)-1 && i < len(line); i++ {
		if line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = color.New(color.FgGreen, color.Bold).Sprint(underline)
	}
	fmt.Fprintf(w, "  %s%s\n", pad.String(), underline)
}

func formatPath(file *source.File, fs *source.FileSet, mode PathMode) string {
	if file == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case PathModeRelative:
		return file.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return file.FormatPath("basename", "")
	default:
		return file.FormatPath("auto", fs.BaseDir())
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// Short renders one diagnostic per line without snippets, for grep
// friendly output.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, pathMode PathMode) {
	for _, d := range bag.Items() {
		file := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(file, fs, pathMode), start.Line, start.Col,
			d.Severity.String(), d.Code.ID(), d.Message)
	}
}
