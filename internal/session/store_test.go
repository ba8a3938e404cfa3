package session

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/iw2rmb/csvi/protocol"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)
	at := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return at }

	ctx := context.Background()
	want := State{
		Key:      "/tmp/a.csv",
		Grid:     protocol.GridUpdate{Data: [][]string{{"a", "b"}, {"1", "2"}}, Version: 7},
		FocusRow: 1,
		FocusCol: 1,
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, want.Key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.Grid, want.Grid) {
		t.Fatalf("grid=%+v, want %+v", got.Grid, want.Grid)
	}
	if got.FocusRow != 1 || got.FocusCol != 1 {
		t.Fatalf("focus=(%d,%d), want (1,1)", got.FocusCol, got.FocusRow)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Fatalf("updated=%v, want %v", got.UpdatedAt, at)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := State{Key: "k", Grid: protocol.GridUpdate{Data: [][]string{{"old"}}}}
	second := State{Key: "k", Grid: protocol.GridUpdate{Data: [][]string{{"new"}}}, FocusCol: 3}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Grid.Data[0][0] != "new" || got.FocusCol != 3 {
		t.Fatalf("state=%+v, want second save", got)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, State{Key: "k"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}
}

func TestStatePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Save(ctx, State{Key: "k", Grid: protocol.GridUpdate{Data: [][]string{{"x"}}}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Grid.Data[0][0] != "x" {
		t.Fatalf("grid=%v", got.Grid.Data)
	}
}

func TestKeyIsAbsolute(t *testing.T) {
	if got := Key("a.csv"); !filepath.IsAbs(got) {
		t.Fatalf("Key=%q, want absolute", got)
	}
}
