package podium

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/k1LoW/errors"
)

// FitState is the per-slide measurement state.
type FitState string

const (
	FitMeasuring FitState = "measuring"
	FitReady     FitState = "ready"
)

// FitSession drives the Fitter across slide changes and resizes for
// one view surface. A slide change starts the next search while the
// previous slide's content is still fading out; a resize forces the
// current slide back to measuring. In-flight searches are cancelled by
// the next transition and their results discarded.
type FitSession struct {
	fitter    *Fitter
	crossfade time.Duration
	logger    *slog.Logger
	onUpdate  func(*Slide, FitResult)

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	slide     *Slide
	container Size
	state     FitState
	result    FitResult
	wg        sync.WaitGroup
}

// SessionOption configures a FitSession.
type SessionOption func(*FitSession) error

// WithCrossfade sets the fade-out duration on slide change.
func WithCrossfade(d time.Duration) SessionOption {
	return func(s *FitSession) error {
		if d < 0 {
			return fmt.Errorf("negative crossfade: %s", d)
		}
		s.crossfade = d
		return nil
	}
}

// WithOnUpdate sets the callback invoked when a slide's result
// commits. The rendering layer subscribes here.
func WithOnUpdate(fn func(*Slide, FitResult)) SessionOption {
	return func(s *FitSession) error {
		s.onUpdate = fn
		return nil
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *FitSession) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// NewFitSession creates a FitSession over a Fitter.
func NewFitSession(f *Fitter, container Size, opts ...SessionOption) (_ *FitSession, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if f == nil {
		return nil, fmt.Errorf("fitter is nil")
	}
	s := &FitSession{
		fitter:    f,
		crossfade: DefaultCrossfade,
		container: container,
		state:     FitReady,
		result:    FitResult{ScalePercent: MaxScale, Ready: false},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetSlide transitions the session to a new slide, aborting any
// in-flight search. The crossfade runs concurrently with the search so
// the result commits only after the old content had time to fade.
func (s *FitSession) SetSlide(ctx context.Context, slide *Slide) {
	s.transition(ctx, slide, s.container, s.crossfade)
}

// Resize re-measures the current slide for a new container size with
// no crossfade.
func (s *FitSession) Resize(ctx context.Context, container Size) {
	s.mu.Lock()
	slide := s.slide
	s.mu.Unlock()
	s.transition(ctx, slide, container, 0)
}

func (s *FitSession) transition(ctx context.Context, slide *Slide, container Size, fade time.Duration) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.slide = slide
	s.container = container
	s.state = FitMeasuring
	s.result.Ready = false
	if slide == nil {
		s.cancel = nil
		s.mu.Unlock()
		return
	}
	sctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		start := time.Now()
		scale, err := s.fitter.Fit(sctx, slide, container)
		if err != nil {
			// Cancelled or failed searches are discarded, never
			// surfaced as stale results.
			s.logger.Debug("fit discarded", slog.Int("slide", slide.Number), slog.String("reason", err.Error()))
			return
		}
		if remain := fade - time.Since(start); remain > 0 {
			select {
			case <-sctx.Done():
				return
			case <-time.After(remain):
			}
		}
		s.commit(gen, slide, scale)
	}()
}

func (s *FitSession) commit(gen uint64, slide *Slide, scale int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.state = FitReady
	s.result = FitResult{ScalePercent: scale, Ready: true}
	fn := s.onUpdate
	result := s.result
	s.mu.Unlock()
	if fn != nil {
		fn(slide, result)
	}
}

// State returns the current measurement state.
func (s *FitSession) State() FitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the current slide's result. Ready is false while
// measuring.
func (s *FitSession) Result() FitResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Wait blocks until in-flight searches finish. For tests and shutdown.
func (s *FitSession) Wait() {
	s.wg.Wait()
}

// Close aborts any in-flight search.
func (s *FitSession) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.mu.Unlock()
	s.wg.Wait()
}
