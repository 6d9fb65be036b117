package store

import (
	"context"
	"sync"
)

// Mem is an in-memory index store for tests and single-process use.
type Mem struct {
	mu    sync.RWMutex
	cells map[string]int
}

// NewMem creates an in-memory index store.
func NewMem() *Mem {
	return &Mem{
		cells: map[string]int{},
	}
}

// Cell returns the index cell for a document.
func (m *Mem) Cell(doc string) *MemCell {
	return &MemCell{m: m, doc: doc}
}

// MemCell is one document's slot in a Mem store.
type MemCell struct {
	m   *Mem
	doc string
}

func (c *MemCell) Load(ctx context.Context) (int, bool, error) {
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()
	v, ok := c.m.cells[c.doc]
	return v, ok, nil
}

func (c *MemCell) Store(ctx context.Context, index int) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.m.cells[c.doc] = index
	return nil
}
