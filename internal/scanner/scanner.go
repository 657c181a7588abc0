// Package scanner lists a documentation tree one directory at a time.
//
// Listings are sorted with a numeric-aware, case-insensitive collation so
// that "item-2" precedes "item-10" and "Item" ties with "item". Directories
// that cannot be read are reported as warnings and yield empty listings;
// the scanner never fails a build.
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// EntryKind distinguishes files from directories in a listing.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
)

func (k EntryKind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// DirectoryEntry is one immediate child of a listed directory.
type DirectoryEntry struct {
	Name string
	Kind EntryKind
}

// IsDir reports whether the entry is a directory.
func (e DirectoryEntry) IsDir() bool { return e.Kind == KindDir }

// Options configures what the scanner treats as documents.
type Options struct {
	// Index is the file name of a directory's landing document.
	Index string
	// Extensions lists markdown file extensions, matched case-insensitively.
	Extensions []string
	// Exclude holds path.Match globs applied to entry names.
	Exclude []string
}

// Scanner reads directory listings from an fs.FS rooted at the documentation root.
// It is safe for concurrent use.
type Scanner struct {
	fsys fs.FS
	opts Options

	mu       sync.Mutex
	collator *collate.Collator

	failures atomic.Int64
}

// New creates a scanner over fsys.
func New(fsys fs.FS, opts Options) *Scanner {
	if opts.Index == "" {
		opts.Index = "index.md"
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".md"}
	}
	return &Scanner{
		fsys:     fsys,
		opts:     opts,
		collator: collate.New(language.Und, collate.Numeric, collate.IgnoreCase),
	}
}

// NewDir creates a scanner over a directory on disk.
func NewDir(root string, opts Options) *Scanner {
	return New(os.DirFS(root), opts)
}

// Index returns the configured index document name.
func (s *Scanner) Index() string { return s.opts.Index }

// ReadFailures returns how many listings failed since the scanner was created.
func (s *Scanner) ReadFailures() int64 { return s.failures.Load() }

// List returns the immediate entries of rel ("" is the root) in natural order.
// An unreadable directory is logged and yields an empty slice.
func (s *Scanner) List(ctx context.Context, rel string) []DirectoryEntry {
	if ctx.Err() != nil {
		return []DirectoryEntry{}
	}
	dir := fsPath(rel)
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		s.failures.Add(1)
		slog.WarnContext(ctx, "Failed to read directory", logfields.Dir(displayDir(rel)), logfields.Error(err))
		return []DirectoryEntry{}
	}

	out := make([]DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if s.excluded(name) {
			continue
		}
		kind, ok := s.kindOf(dir, e)
		if !ok {
			continue
		}
		out = append(out, DirectoryEntry{Name: name, Kind: kind})
	}
	s.sortEntries(out)
	return out
}

// HasIndex reports whether rel contains the index document as a regular file.
func (s *Scanner) HasIndex(_ context.Context, rel string) bool {
	info, err := fs.Stat(s.fsys, path.Join(fsPath(rel), s.opts.Index))
	return err == nil && info.Mode().IsRegular()
}

// IsMarkdown reports whether name carries one of the configured extensions.
func (s *Scanner) IsMarkdown(name string) bool {
	ext := path.Ext(name)
	for _, want := range s.opts.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// IsIndex reports whether name is the index document.
func (s *Scanner) IsIndex(name string) bool {
	return name == s.opts.Index
}

// ReadFile reads a document relative to the root.
func (s *Scanner) ReadFile(rel string) ([]byte, error) {
	return fs.ReadFile(s.fsys, fsPath(rel))
}

// Compare orders two names naturally: numeric runs compare by value and case is ignored.
func (s *Scanner) Compare(a, b string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collator.CompareString(a, b)
}

func (s *Scanner) sortEntries(entries []DirectoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(entries, func(i, j int) bool {
		return s.collator.CompareString(entries[i].Name, entries[j].Name) < 0
	})
}

func (s *Scanner) excluded(name string) bool {
	for _, pattern := range s.opts.Exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// kindOf classifies an entry, following symlinks. Irregular files are skipped.
func (s *Scanner) kindOf(dir string, e fs.DirEntry) (EntryKind, bool) {
	mode := e.Type()
	switch {
	case mode.IsDir():
		return KindDir, true
	case mode.IsRegular():
		return KindFile, true
	case mode&fs.ModeSymlink != 0:
		info, err := fs.Stat(s.fsys, path.Join(dir, e.Name()))
		if err != nil {
			return KindFile, false
		}
		if info.IsDir() {
			return KindDir, true
		}
		return KindFile, info.Mode().IsRegular()
	default:
		return KindFile, false
	}
}

func fsPath(rel string) string {
	rel = strings.Trim(path.Clean("/"+strings.ReplaceAll(rel, `\`, "/")), "/")
	if rel == "" {
		return "."
	}
	return rel
}

func displayDir(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
