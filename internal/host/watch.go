package host

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"time"
)

type EventKind int

const (
	// EventReloaded: the file changed on disk and the document now matches it.
	EventReloaded EventKind = iota
	// EventMissing: the file disappeared; the document is untouched.
	EventMissing
	// EventConflict: the file changed while the document had unsaved edits;
	// nothing was reloaded.
	EventConflict
	// EventError: the file changed but could not be reloaded.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReloaded:
		return "reloaded"
	case EventMissing:
		return "missing"
	case EventConflict:
		return "conflict"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

type Fingerprint struct {
	Mod  time.Time
	Size int64
	Hash string
}

type Event struct {
	Path string
	Kind EventKind
	Prev Fingerprint
	Curr Fingerprint
	Err  error
}

const (
	defaultWatchInterval = time.Second
	watchBuffer          = 16
	hashPrefix           = "sha256:"
)

// Watch polls the file every interval until ctx is done, reloading it when it
// changes. Events are dropped when the returned channel is full; it is
// closed when ctx is done.
func (f *File) Watch(ctx context.Context, interval time.Duration) <-chan Event {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	out := make(chan Event, watchBuffer)
	go func() {
		defer close(out)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				evt, ok := f.Check()
				if !ok {
					continue
				}
				select {
				case out <- evt:
				default:
					f.log.Debug("watch event dropped", "kind", evt.Kind)
				}
			}
		}
	}()
	return out
}

// Check compares the file on disk with the last known fingerprint and
// reacts to a difference. ok is false when there is nothing to report.
func (f *File) Check() (Event, bool) {
	f.mu.Lock()
	prev, missing := f.disk, f.missing
	f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !missing {
			f.setDisk(prev, true)
			return Event{Path: f.path, Kind: EventMissing, Prev: prev}, true
		}
		return Event{}, false
	}
	if !missing && info.ModTime().Equal(prev.Mod) && info.Size() == prev.Size {
		return Event{}, false
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !missing {
			f.setDisk(prev, true)
			return Event{Path: f.path, Kind: EventMissing, Prev: prev}, true
		}
		return Event{}, false
	}
	next := fingerprint(info, data)
	if !missing && next.Hash == prev.Hash {
		f.setDisk(next, false)
		return Event{}, false
	}

	evt := Event{Path: f.path, Prev: prev, Curr: next}
	if f.Dirty() {
		f.setDisk(next, false)
		evt.Kind = EventConflict
		return evt, true
	}
	if _, err := f.reloadData(data, next); err != nil {
		evt.Kind = EventError
		evt.Err = err
		return evt, true
	}
	evt.Kind = EventReloaded
	return evt, true
}

func (f *File) setDisk(fp Fingerprint, missing bool) {
	f.mu.Lock()
	f.disk = fp
	f.missing = missing
	f.mu.Unlock()
}

func fingerprint(info fs.FileInfo, data []byte) Fingerprint {
	fp := Fingerprint{Size: int64(len(data)), Hash: hashBytes(data)}
	if info != nil {
		fp.Mod = info.ModTime()
	}
	return fp
}

func hashBytes(data []byte) string {
	if len(data) == 0 {
		return hashPrefix + "0"
	}
	sum := sha256.Sum256(data)
	return hashPrefix + hex.EncodeToString(sum[:])
}
