package buffer

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	ChangeSourceLocal ChangeSource = iota
	ChangeSourceRemote
	ChangeSourceHistory
)

func (s ChangeSource) String() string {
	switch s {
	case ChangeSourceLocal:
		return "local"
	case ChangeSourceRemote:
		return "remote"
	case ChangeSourceHistory:
		return "history"
	default:
		return "unknown"
	}
}

// AppliedEdit describes one effective edit in a change transaction.
// Range is expressed in the coordinates of the document before the change.
type AppliedEdit struct {
	Range       Range
	InsertText  string
	DeletedText string
}

// Change is a normalized, versioned mutation payload.
type Change struct {
	Source        ChangeSource
	VersionBefore uint64
	VersionAfter  uint64
	AppliedEdits  []AppliedEdit
}

type changeBuilder struct {
	source        ChangeSource
	versionBefore uint64
	appliedEdits  []AppliedEdit
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// LastChange returns the most recent effective change.
func (b *Buffer) LastChange() (Change, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasLastChange {
		return Change{}, false
	}
	return cloneChange(b.lastChange), true
}

// Subscribe registers fn to run after every effective change. Listeners run
// on the goroutine that applied the change, after the buffer lock has been
// released, in subscription order. The returned func removes the listener.
func (b *Buffer) Subscribe(fn func(Change)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Buffer) subscribers() []subscriber {
	if len(b.subs) == 0 {
		return nil
	}
	return append([]subscriber(nil), b.subs...)
}

func notify(subs []subscriber, ch Change) {
	for _, s := range subs {
		s.fn(cloneChange(ch))
	}
}

func cloneChange(in Change) Change {
	out := in
	out.AppliedEdits = append([]AppliedEdit(nil), in.AppliedEdits...)
	return out
}

func (b *Buffer) beginChange(source ChangeSource) changeBuilder {
	return changeBuilder{
		source:        source,
		versionBefore: b.version,
	}
}

func (cb *changeBuilder) addAppliedEdit(edit AppliedEdit) {
	edit.Range = NormalizeRange(edit.Range)
	cb.appliedEdits = append(cb.appliedEdits, edit)
}

func (b *Buffer) commitChange(cb changeBuilder) Change {
	if b.version == cb.versionBefore {
		return Change{}
	}
	b.lastChange = Change{
		Source:        cb.source,
		VersionBefore: cb.versionBefore,
		VersionAfter:  b.version,
		AppliedEdits:  append([]AppliedEdit(nil), cb.appliedEdits...),
	}
	b.hasLastChange = true
	return cloneChange(b.lastChange)
}

func replacementAppliedEdit(beforeText, afterText, eol string) (AppliedEdit, bool) {
	if beforeText == afterText {
		return AppliedEdit{}, false
	}
	return AppliedEdit{
		Range:       fullDocumentRange(beforeText, eol),
		InsertText:  afterText,
		DeletedText: beforeText,
	}, true
}

func fullDocumentRange(text, eol string) Range {
	lines := splitLines(text, eol)
	lastRow := len(lines) - 1
	return Range{
		Start: Pos{Row: 0, Col: 0},
		End:   Pos{Row: lastRow, Col: len(lines[lastRow])},
	}
}
