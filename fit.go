package podium

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/k1LoW/errors"
	"github.com/zeebo/blake3"
)

// Scale bounds for auto-fit, in integer percent.
const (
	MinScale = 10
	MaxScale = 100
)

// DefaultCrossfade is how long the previous slide keeps fading out
// while the next slide's scale is being discovered.
const DefaultCrossfade = 200 * time.Millisecond

// Size is a container size in layout units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Grid is the cell arrangement the blocks of a slide render into.
type Grid struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// GridFor returns the arrangement for a block count: 1 block fills the
// container, 2 and 3 stack into columns, 4 and more wrap into 2x2.
func GridFor(blocks int) Grid {
	switch {
	case blocks <= 1:
		return Grid{Cols: 1, Rows: 1}
	case blocks == 2:
		return Grid{Cols: 2, Rows: 1}
	case blocks == 3:
		return Grid{Cols: 3, Rows: 1}
	default:
		return Grid{Cols: 2, Rows: 2}
	}
}

// Measurer reports whether a slide's blocks, scaled to the given
// integer percentage, fit the grid cells and the container without
// clipping. Text reflow is non-linear, so every candidate scale needs
// a real layout pass.
type Measurer interface {
	Measure(ctx context.Context, slide *Slide, grid Grid, scale int, container Size) (fits bool, err error)
}

// FitResult is the discovered scale for one slide. Ready is false
// while a search is still running.
type FitResult struct {
	ScalePercent int  `json:"scale_percent"`
	Ready        bool `json:"ready"`
}

// Fitter discovers the maximal fitting scale per slide via binary
// search against a Measurer. Results are cached per slide content,
// grid, and container size.
type Fitter struct {
	measurer Measurer
	cache    sync.Map // cacheKey -> int
	logger   *slog.Logger
}

// FitOption configures a Fitter.
type FitOption func(*Fitter) error

// WithFitLogger sets the logger.
func WithFitLogger(logger *slog.Logger) FitOption {
	return func(f *Fitter) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		f.logger = logger
		return nil
	}
}

// NewFitter creates a Fitter using the given Measurer.
func NewFitter(m Measurer, opts ...FitOption) (_ *Fitter, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if m == nil {
		return nil, fmt.Errorf("measurer is nil")
	}
	f := &Fitter{
		measurer: m,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Fit returns the maximal integer scale in [MinScale, MaxScale] at
// which the slide fits the container. Content that does not fit even
// at MinScale floors there rather than erroring. A cancelled context
// aborts the search; the partial result is discarded by the caller.
func (f *Fitter) Fit(ctx context.Context, slide *Slide, container Size) (_ int, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	key := fitKey(slide, container)
	if v, ok := f.cache.Load(key); ok {
		f.logger.Info("cached slide", slog.Int("slide", slide.Number), slog.Int("scale", v.(int)))
		return v.(int), nil
	}
	grid := GridFor(len(slide.Blocks))
	steps := 0
	fits := func(scale int) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		steps++
		return f.measurer.Measure(ctx, slide, grid, scale, container)
	}
	// Fit is monotone in scale: whatever fits at s fits below s. The
	// search keeps [lo, hi] around the largest fitting scale and
	// defaults down on ties.
	ok, err := fits(MaxScale)
	if err != nil {
		return 0, err
	}
	best := MinScale
	if ok {
		best = MaxScale
	} else {
		lo, hi := MinScale, MaxScale-1
		for lo <= hi {
			mid := (lo + hi) / 2
			ok, err := fits(mid)
			if err != nil {
				return 0, err
			}
			if ok {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
	}
	f.logger.Info("measured slide", slog.Int("slide", slide.Number), slog.Int("scale", best), slog.Int("steps", steps))
	f.cache.Store(key, best)
	return best, nil
}

// Invalidate drops the cached scale for a slide at a container size,
// for when the slide's content changed in place.
func (f *Fitter) Invalidate(slide *Slide, container Size) {
	f.cache.Delete(fitKey(slide, container))
}

// fitKey hashes slide content, grid, and container into a cache key.
// Content-addressed, so a re-parse producing identical blocks hits.
func fitKey(slide *Slide, container Size) string {
	h := blake3.New()
	b, _ := json.Marshal(slide)
	_, _ = h.Write(b)
	g, _ := json.Marshal(GridFor(len(slide.Blocks)))
	_, _ = h.Write(g)
	c, _ := json.Marshal(container)
	_, _ = h.Write(c)
	return fmt.Sprintf("%x", h.Sum(nil))
}
