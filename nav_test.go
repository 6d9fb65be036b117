package podium

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
)

type fakeCell struct {
	mu       sync.Mutex
	value    int
	set      bool
	failures int
	stores   int
}

func (c *fakeCell) Load(ctx context.Context) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.set, nil
}

func (c *fakeCell) Store(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores++
	if c.failures > 0 {
		c.failures--
		return fmt.Errorf("transient store failure")
	}
	c.value = index
	c.set = true
	return nil
}

func TestNavigatorUnsetIndex(t *testing.T) {
	ctx := context.Background()
	nav, err := NewNavigator(deckItems())
	if err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != -1 {
		t.Errorf("want -1, got %d", got)
	}
	if nav.CurrentItem() != nil {
		t.Error("want nil current item")
	}
	if got := nav.CurrentSlideNumber(); got != 0 {
		t.Errorf("want 0, got %d", got)
	}
	if got := nav.Progress(); got != 0 {
		t.Errorf("want 0, got %f", got)
	}
	// The first step from unset lands on the first item.
	if err := nav.NextItem(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 0 {
		t.Errorf("want 0, got %d", got)
	}
}

func TestNavigatorStepsAndClamping(t *testing.T) {
	ctx := context.Background()
	nav, err := NewNavigator(deckItems())
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.GoToItem(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 4 {
		t.Errorf("over-range index clamps to last: want 4, got %d", got)
	}
	// Stepping past the end is a no-op.
	if err := nav.NextItem(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 4 {
		t.Errorf("want 4, got %d", got)
	}
	if err := nav.GoToItem(ctx, -7); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 0 {
		t.Errorf("negative index clamps to first: want 0, got %d", got)
	}
	if err := nav.PrevItem(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 0 {
		t.Errorf("want 0, got %d", got)
	}
}

func TestNavigatorSlideSteps(t *testing.T) {
	ctx := context.Background()
	nav, err := NewNavigator(deckItems())
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.GoToItem(ctx, 0); err != nil {
		t.Fatal(err)
	}
	// Slide 1 has no block item, so the next slide with one is 2.
	if err := nav.NextSlide(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 2 {
		t.Errorf("want 2, got %d", got)
	}
	if err := nav.NextSlide(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 4 {
		t.Errorf("want 4, got %d", got)
	}
	// Last slide: another step is a no-op.
	if err := nav.NextSlide(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 4 {
		t.Errorf("want 4, got %d", got)
	}
	if err := nav.PrevSlide(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 2 {
		t.Errorf("want 2, got %d", got)
	}
	// Slide 1 has no block item; stepping back stays put.
	if err := nav.PrevSlide(ctx); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != 2 {
		t.Errorf("want 2, got %d", got)
	}
	if err := nav.GoToSlide(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentSlideNumber(); got != 3 {
		t.Errorf("want 3, got %d", got)
	}
	// Unknown slide numbers are a no-op.
	if err := nav.GoToSlide(ctx, 42); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentSlideNumber(); got != 3 {
		t.Errorf("want 3, got %d", got)
	}
}

func TestNavigatorProgress(t *testing.T) {
	ctx := context.Background()
	nav, err := NewNavigator(deckItems())
	if err != nil {
		t.Fatal(err)
	}
	// 3 slides; slide 1 holds 2 items, slide 2 holds 2, slide 3 holds 1.
	wants := []float64{
		1.0 / 6, // first item of slide 1
		2.0 / 6, // second item of slide 1
		3.0 / 6,
		4.0 / 6,
		1.0, // the only item of the last slide
	}
	for i, want := range wants {
		if err := nav.GoToItem(ctx, i); err != nil {
			t.Fatal(err)
		}
		if got := nav.Progress(); math.Abs(got-want) > 1e-9 {
			t.Errorf("item %d: want %f, got %f", i, want, got)
		}
	}
}

func TestNavigatorEmptySequence(t *testing.T) {
	ctx := context.Background()
	nav, err := NewNavigator(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.NextItem(ctx); err != nil {
		t.Fatal(err)
	}
	if err := nav.NextSlide(ctx); err != nil {
		t.Fatal(err)
	}
	if err := nav.GoToItem(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if got := nav.CurrentIndex(); got != -1 {
		t.Errorf("want -1, got %d", got)
	}
	if got := nav.Progress(); got != 0 {
		t.Errorf("want 0, got %f", got)
	}
}

func TestNavigatorRestore(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cell *fakeCell
		want int
	}{
		{"stored index", &fakeCell{value: 3, set: true}, 3},
		{"empty cell keeps unset", &fakeCell{}, -1},
		{"stale over-range index clamps", &fakeCell{value: 99, set: true}, 4},
		{"negative index clamps", &fakeCell{value: -5, set: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, err := NewNavigator(deckItems(), WithIndexCell(tt.cell))
			if err != nil {
				t.Fatal(err)
			}
			if err := nav.Restore(ctx); err != nil {
				t.Fatal(err)
			}
			if got := nav.CurrentIndex(); got != tt.want {
				t.Errorf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNavigatorWritesThroughCell(t *testing.T) {
	ctx := context.Background()
	cell := &fakeCell{}
	nav, err := NewNavigator(deckItems(), WithIndexCell(cell))
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.GoToItem(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if cell.value != 2 || !cell.set {
		t.Errorf("want stored index 2, got %d (set=%v)", cell.value, cell.set)
	}
}

func TestNavigatorRetriesStore(t *testing.T) {
	ctx := context.Background()
	cell := &fakeCell{failures: 2}
	nav, err := NewNavigator(deckItems(), WithIndexCell(cell))
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.GoToItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if cell.value != 1 || !cell.set {
		t.Errorf("want stored index 1 after retries, got %d (set=%v)", cell.value, cell.set)
	}
	if cell.stores != 3 {
		t.Errorf("want 3 store attempts, got %d", cell.stores)
	}
}

func TestNewNavigatorRejectsInvalidItems(t *testing.T) {
	items := Items{
		{Kind: ItemBlock, Slide: 2, Block: &VisualBlock{Line: 1}},
		{Kind: ItemBlock, Slide: 1, Block: &VisualBlock{Line: 3}},
	}
	if _, err := NewNavigator(items); err == nil {
		t.Error("want error for decreasing slide numbers")
	}
}
