package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"rbstyle/internal/diag"
	"rbstyle/internal/rules/modulestyle"
	"rbstyle/internal/source"
)

// Bump when the payload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file check results keyed by content hash and
// enforced style. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedSpan struct {
	Start uint32
	End   uint32
}

type cachedEdit struct {
	Span    cachedSpan
	NewText string
	OldText string
}

type cachedFix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	IsPreferred   bool
	Edits         []cachedEdit
}

type cachedNote struct {
	Span cachedSpan
	Msg  string
}

type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Span     cachedSpan
	Notes    []cachedNote
	Fixes    []cachedFix
}

type diskPayload struct {
	Schema      uint16
	Style       uint8
	Diagnostics []cachedDiagnostic
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(file *source.File, style modulestyle.Style) string {
	h := sha256.New()
	h.Write(file.Hash[:])
	h.Write([]byte{uint8(style), uint8(diskCacheSchemaVersion), uint8(diskCacheSchemaVersion >> 8)})
	key := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(c.dir, "checks", key+".mp")
}

// Lookup returns cached diagnostics for the file under the given
// style. Spans are re-stamped with the file's current ID, since IDs
// are assigned per run.
func (c *DiskCache) Lookup(file *source.File, style modulestyle.Style) ([]diag.Diagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(file, style))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Style != uint8(style) {
		return nil, false
	}

	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  restoreSpan(cd.Span, file.ID),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: restoreSpan(n.Span, file.ID), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			f := diag.Fix{
				ID:            cf.ID,
				Title:         cf.Title,
				Kind:          diag.FixKind(cf.Kind),
				Applicability: diag.FixApplicability(cf.Applicability),
				IsPreferred:   cf.IsPreferred,
			}
			for _, e := range cf.Edits {
				f.Edits = append(f.Edits, diag.TextEdit{
					Span:    restoreSpan(e.Span, file.ID),
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			d.Fixes = append(d.Fixes, f)
		}
		out = append(out, d)
	}
	return out, true
}

// Store writes the file's diagnostics to the cache. Failures are
// dropped: the cache is an optimization, never a correctness concern.
func (c *DiskCache) Store(file *source.File, style modulestyle.Style, diagnostics []diag.Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := diskPayload{
		Schema: diskCacheSchemaVersion,
		Style:  uint8(style),
	}
	for _, d := range diagnostics {
		cd := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Span:     cachedSpan{Start: d.Primary.Start, End: d.Primary.End},
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{
				Span: cachedSpan{Start: n.Span.Start, End: n.Span.End},
				Msg:  n.Msg,
			})
		}
		for _, f := range d.Fixes {
			cf := cachedFix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          uint8(f.Kind),
				Applicability: uint8(f.Applicability),
				IsPreferred:   f.IsPreferred,
			}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{
					Span:    cachedSpan{Start: e.Span.Start, End: e.Span.End},
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}

	p := c.pathFor(file, style)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	// Atomic replace.
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
	}
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.RemoveAll(filepath.Join(c.dir, "checks"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func restoreSpan(s cachedSpan, id source.FileID) source.Span {
	return source.Span{File: id, Start: s.Start, End: s.End}
}
