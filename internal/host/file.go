// Package host backs a buffer with a file on disk: it loads and saves the
// text, tracks unsaved edits and folds external modifications back into the
// buffer as minimal remote edits.
package host

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/iw2rmb/csvi/buffer"
	"github.com/iw2rmb/csvi/internal/config"
)

type Options struct {
	// EOL is "auto" (default), "lf" or "crlf".
	EOL          string
	HistoryLimit int
	Logger       *log.Logger
}

// File is a document loaded from path.
type File struct {
	path string
	doc  *buffer.Buffer
	log  *log.Logger

	mu      sync.Mutex
	saved   string
	savedAt uint64 // document version holding saved
	disk    Fingerprint
	missing bool

	// Dirty result for document version checkedAt.
	dirty     bool
	checked   bool
	checkedAt uint64
}

// Open loads path into a new buffer. A file that does not exist yet opens as
// an empty document and is created by the first Save.
func Open(path string, opts Options) (*File, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	data, info, err := readFile(path)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		return nil, err
	}

	eol, err := ResolveEOL(opts.EOL, data)
	if err != nil {
		return nil, err
	}

	f := &File{
		path:    path,
		doc:     buffer.New(string(data), buffer.Options{EOL: eol, HistoryLimit: opts.HistoryLimit}),
		log:     logger.With("component", "host", "file", filepath.Base(path)),
		saved:   string(data),
		missing: missing,
	}
	if !missing {
		f.disk = fingerprint(info, data)
	}
	f.log.Debug("opened", "eol", EOLName(eol), "bytes", len(data), "new", missing)
	return f, nil
}

func readFile(path string) ([]byte, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("open %q: is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, info, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Name() string { return filepath.Base(f.path) }

func (f *File) Document() *buffer.Buffer { return f.doc }

// Dirty reports whether the document differs from the text last loaded or
// saved. The text is compared at most once per document version, so undoing
// back to the saved text reads as clean again.
func (f *File) Dirty() bool {
	v := f.doc.Version()
	f.mu.Lock()
	switch {
	case v == f.savedAt:
		f.mu.Unlock()
		return false
	case f.checked && v == f.checkedAt:
		d := f.dirty
		f.mu.Unlock()
		return d
	}
	f.mu.Unlock()

	text, v := f.doc.Snapshot()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = text != f.saved
	f.checked = true
	f.checkedAt = v
	return f.dirty
}

// markSaved records text at version as the content on disk. Callers hold
// f.mu.
func (f *File) markSaved(text string, version uint64) {
	f.saved = text
	f.savedAt = version
	f.checked = false
	f.missing = false
}

// Missing reports whether the file was absent at the last check.
func (f *File) Missing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.missing
}

// Save writes the document atomically, keeping the file's permissions.
func (f *File) Save() error {
	text, version := f.doc.Snapshot()

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %q: %w", f.path, err)
		}
	}
	if err := config.WriteFileAtomic(f.path, []byte(text), perm); err != nil {
		return fmt.Errorf("save %q: %w", f.path, err)
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("save %q: %w", f.path, err)
	}
	f.mu.Lock()
	f.markSaved(text, version)
	f.disk = fingerprint(info, []byte(text))
	f.mu.Unlock()

	f.log.Info("saved", "bytes", len(text))
	return nil
}

func (f *File) Undo() bool { return f.doc.Undo() }

func (f *File) Redo() bool { return f.doc.Redo() }

// Reload replaces the document with the file's current content as one remote
// batch of minimal edits. changed is false when they were already equal.
// Unsaved edits are overwritten; they stay reachable through Undo.
func (f *File) Reload() (changed bool, err error) {
	data, info, err := readFile(f.path)
	if err != nil {
		return false, err
	}
	return f.reloadData(data, fingerprint(info, data))
}

func (f *File) reloadData(data []byte, fp Fingerprint) (bool, error) {
	text, version := f.doc.Snapshot()
	next := string(data)

	edits, err := diffEdits(f.doc, text, next)
	if err != nil {
		return false, fmt.Errorf("reload %q: %w", f.path, err)
	}
	changed := false
	if len(edits) > 0 {
		ch, err := f.doc.ApplySourceAt(buffer.ChangeSourceRemote, version, edits...)
		if err != nil {
			return false, fmt.Errorf("reload %q: %w", f.path, err)
		}
		version = ch.VersionAfter
		changed = true
	}

	f.mu.Lock()
	f.markSaved(next, version)
	f.disk = fp
	f.mu.Unlock()

	f.log.Debug("reloaded", "edits", len(edits))
	return changed, nil
}
