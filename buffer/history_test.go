package buffer

import "testing"

func TestBuffer_UndoRedo_Basic(t *testing.T) {
	b := New("a,b", Options{})

	if _, err := b.Apply(Insert(Pos{Row: 0, Col: 3}, ",c")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := b.Apply(Insert(Pos{Row: 0, Col: 5}, "\nd,e,f")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !b.Undo() {
		t.Fatalf("expected undo")
	}
	if got, want := b.Text(), "a,b,c"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if !b.Undo() {
		t.Fatalf("expected undo")
	}
	if got, want := b.Text(), "a,b"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if b.CanUndo() {
		t.Fatalf("expected empty undo stack")
	}

	if !b.Redo() {
		t.Fatalf("expected redo")
	}
	if !b.Redo() {
		t.Fatalf("expected redo")
	}
	if got, want := b.Text(), "a,b,c\nd,e,f"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got := b.LineCount(); got != 2 {
		t.Fatalf("line count=%d, want 2", got)
	}
	if got := b.Version(); got != 6 {
		t.Fatalf("version=%d, want 6", got)
	}
}

func TestBuffer_UndoRedo_EmptyStacks_NoMutation(t *testing.T) {
	b := New("abc", Options{})
	v := b.Version()

	if b.Undo() {
		t.Fatalf("expected no undo")
	}
	if b.Redo() {
		t.Fatalf("expected no redo")
	}
	if b.Version() != v {
		t.Fatalf("version changed")
	}
}

func TestBuffer_UndoRedo_BatchIsSingleStep(t *testing.T) {
	b := New("a\nb", Options{})

	if _, err := b.Apply(
		Insert(Pos{Row: 0, Col: 1}, ","),
		Insert(Pos{Row: 1, Col: 1}, ","),
	); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !b.Undo() {
		t.Fatalf("expected undo")
	}
	if got, want := b.Text(), "a\nb"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestBuffer_UndoRedo_EmitsHistoryChange(t *testing.T) {
	b := New("x", Options{})
	if _, err := b.Apply(Insert(Pos{Row: 0, Col: 1}, "\ny")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var got Change
	b.Subscribe(func(ch Change) { got = ch })

	b.Undo()
	if got.Source != ChangeSourceHistory {
		t.Fatalf("source=%v, want history", got.Source)
	}
	if len(got.AppliedEdits) != 1 {
		t.Fatalf("applied edits=%d, want 1", len(got.AppliedEdits))
	}
	e := got.AppliedEdits[0]
	if e.DeletedText != "x\ny" || e.InsertText != "x" {
		t.Fatalf("applied edit=%#v", e)
	}
	if want := (Range{End: Pos{Row: 1, Col: 1}}); e.Range != want {
		t.Fatalf("range=%v, want %v", e.Range, want)
	}
}

func TestBuffer_HistoryLimit_BoundsUndoDepth(t *testing.T) {
	b := New("", Options{HistoryLimit: 2})

	for i := 0; i < 4; i++ {
		line, _ := b.Line(0)
		if _, err := b.Apply(Insert(line.Range.End, "x")); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	undos := 0
	for b.Undo() {
		undos++
	}
	if undos != 2 {
		t.Fatalf("undos=%d, want 2", undos)
	}
	if got, want := b.Text(), "xx"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}

func TestBuffer_HistoryDisabled(t *testing.T) {
	b := New("", Options{HistoryLimit: -1})
	if _, err := b.Apply(Insert(Pos{}, "x")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if b.CanUndo() {
		t.Fatalf("expected history disabled")
	}
}

func TestBuffer_UndoThenNewEdit_ClearsRedo(t *testing.T) {
	b := New("a", Options{})
	if _, err := b.Apply(Insert(Pos{Row: 0, Col: 1}, "b")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	b.Undo()
	if !b.CanRedo() {
		t.Fatalf("expected redo available")
	}
	if _, err := b.Apply(Insert(Pos{Row: 0, Col: 1}, "c")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if b.CanRedo() {
		t.Fatalf("expected redo cleared")
	}
}
