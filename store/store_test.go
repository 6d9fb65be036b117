package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestMemCell(t *testing.T) {
	ctx := context.Background()
	m := NewMem()
	cell := m.Cell("deck.md")

	if _, ok, err := cell.Load(ctx); err != nil || ok {
		t.Fatalf("want empty cell, got ok=%v err=%v", ok, err)
	}
	if err := cell.Store(ctx, 4); err != nil {
		t.Fatal(err)
	}
	index, ok, err := cell.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || index != 4 {
		t.Errorf("want 4, got %d (ok=%v)", index, ok)
	}
	// Cells are independent per document.
	other := m.Cell("other.md")
	if _, ok, err := other.Load(ctx); err != nil || ok {
		t.Errorf("want empty cell for other doc, got ok=%v err=%v", ok, err)
	}
	// Last write wins.
	if err := cell.Store(ctx, 9); err != nil {
		t.Fatal(err)
	}
	index, _, err = cell.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if index != 9 {
		t.Errorf("want 9, got %d", index)
	}
}

func TestSQLiteCell(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nav.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	cell := s.Cell("deck.md")
	if _, ok, err := cell.Load(ctx); err != nil || ok {
		t.Fatalf("want empty cell, got ok=%v err=%v", ok, err)
	}
	if err := cell.Store(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := cell.Store(ctx, 7); err != nil {
		t.Fatal(err)
	}
	index, ok, err := cell.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || index != 7 {
		t.Errorf("want 7, got %d (ok=%v)", index, ok)
	}
	if _, ok, err := s.Cell("other.md").Load(ctx); err != nil || ok {
		t.Errorf("want empty cell for other doc, got ok=%v err=%v", ok, err)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nav.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Cell("deck.md").Store(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	index, ok, err := s.Cell("deck.md").Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || index != 5 {
		t.Errorf("want 5 after reopen, got %d (ok=%v)", index, ok)
	}
}

func TestSQLiteCellAfterClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nav.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	cell := s.Cell("deck.md")
	if err := cell.Store(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := cell.Store(ctx, 4); !errors.Is(err, ErrClosed) {
		t.Errorf("want ErrClosed from Store, got %v", err)
	}
	if _, _, err := cell.Load(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("want ErrClosed from Load, got %v", err)
	}
}

func TestOpenSQLiteCreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "nav.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Cell("deck.md").Store(ctx, 1); err != nil {
		t.Fatal(err)
	}
}
