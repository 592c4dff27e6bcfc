// Package driver orchestrates checking many files: discovery,
// parallel lexing and parsing, rule execution and result caching.
package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"rbstyle/internal/config"
	"rbstyle/internal/diag"
	"rbstyle/internal/lexer"
	"rbstyle/internal/parser"
	"rbstyle/internal/rules"
	"rbstyle/internal/rules/modulestyle"
	"rbstyle/internal/source"
)

// Options configures a check run.
type Options struct {
	// Config carries the enforced style and exclusions.
	Config config.Config
	// MaxDiagnostics caps each file's bag; 0 means unlimited.
	MaxDiagnostics int
	// Jobs limits parallelism; 0 uses GOMAXPROCS.
	Jobs int
	// Cache, when non-nil, short-circuits unchanged files.
	Cache *DiskCache
}

// FileResult is the outcome of checking a single file.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Bag       *diag.Bag
	FromCache bool
}

// Result aggregates a whole run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Bag holds all diagnostics merged, sorted and deduplicated.
	Bag *diag.Bag
}

// ListRubyFiles expands the given paths into a sorted list of .rb
// files. Directories are walked recursively; explicit file arguments
// are kept regardless of extension.
func ListRubyFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".rb") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// Check runs the configured rule over every Ruby file reachable from
// paths.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	files, err := ListRubyFiles(paths)
	if err != nil {
		return nil, err
	}

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = "."
	}
	fileSet := source.NewFileSetWithBase(baseDir)

	result := &Result{
		FileSet: fileSet,
		Bag:     diag.NewBag(0),
	}
	if len(files) == 0 {
		return result, nil
	}

	// Filter exclusions against config-relative paths.
	cfgDir := baseDir
	if opts.Config.Path != "" {
		cfgDir = filepath.Dir(opts.Config.Path)
	}
	kept := files[:0]
	for _, path := range files {
		rel, relErr := filepath.Rel(cfgDir, absOrSelf(path))
		if relErr != nil {
			rel = path
		}
		if !opts.Config.Excluded(filepath.ToSlash(rel)) {
			kept = append(kept, path)
		}
	}
	files = kept

	rule := modulestyle.New(opts.Config.ModuleStyle)

	// Preload files so FileIDs are assigned deterministically. A file
	// that fails to load still gets an empty placeholder entry, so its
	// IO diagnostic resolves to the failing path instead of whatever
	// file happens to hold ID 0.
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		if _, loadErr := fileSet.Load(path); loadErr != nil {
			loadErrors[path] = loadErr
			fileSet.AddVirtual(path, nil)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(files) {
		jobs = len(files)
	}
	if jobs < 1 {
		jobs = 1
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.MaxDiagnostics)
			res := FileResult{Path: path, Bag: bag}

			file, ok := fileSet.GetByPath(path)
			if !ok {
				// Every path was preloaded above.
				results[i] = res
				return nil
			}
			res.FileID = file.ID

			if loadErr, bad := loadErrors[path]; bad {
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: file.ID}, "failed to load file: "+loadErr.Error()))
				results[i] = res
				return nil
			}

			if opts.Cache != nil {
				if hit, ok := opts.Cache.Lookup(file, opts.Config.ModuleStyle); ok {
					for _, d := range hit {
						bag.Add(d)
					}
					res.FromCache = true
					results[i] = res
					return nil
				}
			}

			checkFile(file, fileSet, rule, bag)

			if opts.Cache != nil {
				opts.Cache.Store(file, opts.Config.ModuleStyle, bag.Items())
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Files = results
	for _, fr := range results {
		result.Bag.Merge(fr.Bag)
	}
	result.Bag.Sort()
	result.Bag.Dedup()
	return result, nil
}

// checkFile lexes, parses and runs the rule over one loaded file.
func checkFile(file *source.File, fileSet *source.FileSet, rule rules.Rule, bag *diag.Bag) {
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: lexerReporter{bag: bag}})
	toks := lx.Tokenize()

	astFile := parser.ParseFile(file, toks, parser.Options{Reporter: reporter})

	// Style findings on a file that failed to lex or parse would point
	// at guessed-at statement shapes; surface only the errors.
	if bag.HasErrors() {
		return
	}

	ctx := &rules.Context{
		FileSet:  fileSet,
		File:     file,
		Reporter: reporter,
	}
	rule.Check(ctx, astFile)
}

// lexerReporter adapts lexer reports to diagnostics.
type lexerReporter struct {
	bag *diag.Bag
}

func (r lexerReporter) Report(kind string, span source.Span, msg string) {
	code := diag.LexInfo
	switch kind {
	case lexer.ReportUnknownChar:
		code = diag.LexUnknownChar
	case lexer.ReportUnterminatedString:
		code = diag.LexUnterminatedString
	}
	r.bag.Add(diag.NewError(code, span, msg))
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
