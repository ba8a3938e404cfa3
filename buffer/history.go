package buffer

type bufferSnapshot struct {
	text string
}

type historyState struct {
	undo []bufferSnapshot
	redo []bufferSnapshot
}

func (b *Buffer) snapshot() bufferSnapshot {
	return bufferSnapshot{text: b.text()}
}

func (b *Buffer) restore(s bufferSnapshot) {
	b.lines = splitLines(s.text, b.eol)
}

func (b *Buffer) recordUndo(prev bufferSnapshot) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = append(b.hist.undo, prev)
	if len(b.hist.undo) > limit {
		b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
	}
	b.hist.redo = nil
}

func (b *Buffer) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hist.undo) > 0
}

func (b *Buffer) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hist.redo) > 0
}

// Undo restores the text before the most recent change. It reports whether
// anything was undone.
func (b *Buffer) Undo() bool {
	b.mu.Lock()
	if len(b.hist.undo) == 0 {
		b.mu.Unlock()
		return false
	}

	cur := b.snapshot()
	change := b.beginChange(ChangeSourceHistory)

	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]
	b.hist.redo = append(b.hist.redo, cur)

	b.restore(prev)
	b.version++
	if applied, ok := replacementAppliedEdit(cur.text, prev.text, b.eol); ok {
		change.addAppliedEdit(applied)
	}
	out := b.commitChange(change)
	subs := b.subscribers()
	b.mu.Unlock()

	notify(subs, out)
	return true
}

// Redo reapplies the most recently undone change.
func (b *Buffer) Redo() bool {
	b.mu.Lock()
	if len(b.hist.redo) == 0 {
		b.mu.Unlock()
		return false
	}

	cur := b.snapshot()
	change := b.beginChange(ChangeSourceHistory)

	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]

	limit := b.opt.HistoryLimit
	if limit > 0 {
		b.hist.undo = append(b.hist.undo, cur)
		if len(b.hist.undo) > limit {
			b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
		}
	}

	b.restore(next)
	b.version++
	if applied, ok := replacementAppliedEdit(cur.text, next.text, b.eol); ok {
		change.addAppliedEdit(applied)
	}
	out := b.commitChange(change)
	subs := b.subscribers()
	b.mu.Unlock()

	notify(subs, out)
	return true
}
