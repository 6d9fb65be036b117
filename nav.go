package podium

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/k1LoW/errors"
	"github.com/lestrrat-go/backoff/v2"
)

// IndexCell is an externally owned slot holding the navigation index
// for one document. Cross-viewer synchronization is the cell's
// concern; the Navigator only reads and replaces whole values.
type IndexCell interface {
	Load(ctx context.Context) (index int, ok bool, err error)
	Store(ctx context.Context, index int) error
}

// Navigator owns the single current-item index over an item sequence.
// All view surfaces read and mutate the index through it; concurrent
// commands serialize, last write wins.
type Navigator struct {
	mu      sync.Mutex
	items   Items
	slides  []int // distinct slide numbers, ascending
	current int   // -1 = unset
	cell    IndexCell
	policy  backoff.Policy
	logger  *slog.Logger
}

// NavOption configures a Navigator.
type NavOption func(*Navigator) error

// WithIndexCell sets the external cell the index is restored from and
// written through to.
func WithIndexCell(cell IndexCell) NavOption {
	return func(n *Navigator) error {
		n.cell = cell
		return nil
	}
}

// WithNavLogger sets the logger.
func WithNavLogger(logger *slog.Logger) NavOption {
	return func(n *Navigator) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		n.logger = logger
		return nil
	}
}

// NewNavigator creates a Navigator over the item sequence. The
// sequence must hold the parser's invariants.
func NewNavigator(items Items, opts ...NavOption) (_ *Navigator, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := items.Validate(); err != nil {
		return nil, err
	}
	n := &Navigator{
		items:   items,
		slides:  items.SlideNumbers(),
		current: -1,
		policy: backoff.Exponential(
			backoff.WithMinInterval(50*time.Millisecond),
			backoff.WithMaxInterval(time.Second),
			backoff.WithMaxRetries(3),
		),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Restore loads the index from the external cell, clamping it to the
// current sequence length. Called on view mount.
func (n *Navigator) Restore(ctx context.Context) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if n.cell == nil {
		return nil
	}
	index, ok, err := n.cell.Load(ctx)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !ok || len(n.items) == 0 {
		return nil
	}
	n.current = clamp(index, 0, len(n.items)-1)
	return nil
}

// GoToItem moves to the given item index, clamped to the sequence. A
// no-op on an empty sequence.
func (n *Navigator) GoToItem(ctx context.Context, index int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return nil
	}
	return n.set(ctx, clamp(index, 0, len(n.items)-1))
}

// GoToSlide moves to the first block item of the given slide number. A
// no-op if the slide has no block item.
func (n *Navigator) GoToSlide(ctx context.Context, number int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	index, ok := n.items.FirstBlockIndex(number)
	if !ok {
		return nil
	}
	return n.set(ctx, index)
}

// NextItem steps forward one item. A no-op at the end.
func (n *Navigator) NextItem(ctx context.Context) error {
	return n.stepItem(ctx, 1)
}

// PrevItem steps back one item. A no-op at the start.
func (n *Navigator) PrevItem(ctx context.Context) error {
	return n.stepItem(ctx, -1)
}

func (n *Navigator) stepItem(ctx context.Context, delta int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return nil
	}
	if n.current < 0 {
		return n.set(ctx, 0)
	}
	next := n.current + delta
	if next < 0 || next >= len(n.items) {
		return nil
	}
	return n.set(ctx, next)
}

// NextSlide moves to the first block item of the slide after the
// active one. A no-op at the last slide.
func (n *Navigator) NextSlide(ctx context.Context) error {
	return n.stepSlide(ctx, 1)
}

// PrevSlide moves to the first block item of the slide before the
// active one. A no-op at the first slide.
func (n *Navigator) PrevSlide(ctx context.Context) error {
	return n.stepSlide(ctx, -1)
}

func (n *Navigator) stepSlide(ctx context.Context, delta int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return nil
	}
	if n.current < 0 {
		return n.set(ctx, 0)
	}
	active := n.activeSlidePos()
	for pos := active + delta; pos >= 0 && pos < len(n.slides); pos += delta {
		if index, ok := n.items.FirstBlockIndex(n.slides[pos]); ok {
			return n.set(ctx, index)
		}
	}
	return nil
}

// CurrentIndex returns the current item index, or -1 when unset.
func (n *Navigator) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// CurrentItem returns the current item, or nil when unset.
func (n *Navigator) CurrentItem() *Item {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current < 0 || n.current >= len(n.items) {
		return nil
	}
	return n.items[n.current]
}

// CurrentSlideNumber returns the slide number of the current item, or
// 0 when unset.
func (n *Navigator) CurrentSlideNumber() int {
	item := n.CurrentItem()
	if item == nil {
		return 0
	}
	return item.Slide
}

// Progress returns overall progress in [0, 1]. With S slides and the
// active slide at position i holding k items of which the current item
// is the j-th, progress is i/S + (j+1)/(k*S): the last item of a slide
// lands exactly on (i+1)/S, the last item of the last slide on 1.
func (n *Navigator) Progress() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current < 0 || len(n.items) == 0 || len(n.slides) == 0 {
		return 0
	}
	s := float64(len(n.slides))
	i := float64(n.activeSlidePos())
	number := n.items[n.current].Slide
	j, k := 0, 0
	for idx, item := range n.items {
		if item.Slide != number {
			continue
		}
		if idx == n.current {
			j = k
		}
		k++
	}
	if k == 0 {
		return i / s
	}
	return i/s + float64(j+1)/(float64(k)*s)
}

// activeSlidePos returns the position of the current item's slide
// number within the sorted distinct-slide list. Callers hold mu.
func (n *Navigator) activeSlidePos() int {
	number := n.items[n.current].Slide
	for pos, v := range n.slides {
		if v == number {
			return pos
		}
	}
	return 0
}

// set updates the index and writes it through to the external cell.
// Callers hold mu.
func (n *Navigator) set(ctx context.Context, index int) error {
	n.current = index
	n.logger.Debug("navigated", slog.Int("index", index), slog.Int("slide", n.items[index].Slide))
	if n.cell == nil {
		return nil
	}
	b := n.policy.Start(ctx)
	var err error
	for backoff.Continue(b) {
		if err = n.cell.Store(ctx, index); err == nil {
			return nil
		}
		n.logger.Warn("retrying index store", slog.String("error", err.Error()))
	}
	return errors.WithStack(err)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
