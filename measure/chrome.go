// Package measure implements the layout measurement capability the
// auto-fit search runs against, using headless Chrome. Text reflow is
// non-linear, so fit cannot be computed analytically; each candidate
// scale gets a real layout pass.
package measure

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/podium"
)

// fitJS reports whether the rendered grid and every block cell fit
// without clipping in either axis.
const fitJS = `(() => {
  const c = document.getElementById('container');
  if (c.scrollWidth > c.clientWidth || c.scrollHeight > c.clientHeight) {
    return false;
  }
  for (const b of document.querySelectorAll('.block')) {
    if (b.scrollWidth > b.clientWidth || b.scrollHeight > b.clientHeight) {
      return false;
    }
  }
  return true;
})()`

// Chrome measures slides by rendering them in a headless browser.
type Chrome struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	preset      podium.SizePreset
	resolve     podium.RefResolver
	logger      *slog.Logger
}

// Option configures a Chrome measurer.
type Option func(*Chrome) error

// WithPreset sets the size preset rendered during measurement.
func WithPreset(p podium.SizePreset) Option {
	return func(c *Chrome) error {
		c.preset = p
		return nil
	}
}

// WithRefResolver sets the internal reference resolver used while
// rendering.
func WithRefResolver(r podium.RefResolver) Option {
	return func(c *Chrome) error {
		c.resolve = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chrome) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		c.logger = logger
		return nil
	}
}

// NewChrome starts a headless Chrome allocator reused across
// measurement passes.
func NewChrome(ctx context.Context, opts ...Option) (_ *Chrome, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	c := &Chrome{
		preset: podium.SizeM,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	return c, nil
}

// Measure renders the slide at the candidate scale and reports fit.
// Cached images are embedded as data URLs so the pass works offline.
func (c *Chrome) Measure(ctx context.Context, slide *podium.Slide, grid podium.Grid, scale int, container podium.Size) (_ bool, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	html := podium.RenderSlideHTML(slide, grid, container, podium.RenderOptions{
		Scale:    scale,
		Preset:   c.preset,
		Resolve:  c.resolve,
		ImageSrc: cachedImageSrc,
	})
	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()
	// Propagate the search's cancellation into the tab.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	var fits bool
	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(container.Width), int64(container.Height)),
		chromedp.Navigate(url),
		chromedp.WaitReady("#container", chromedp.ByID),
		chromedp.Evaluate(fitJS, &fits),
	); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("measurement pass failed: %w", err)
	}
	c.logger.Debug("measured", slog.Int("slide", slide.Number), slog.Int("scale", scale), slog.Bool("fits", fits))
	return fits, nil
}

// Close shuts the browser allocator down.
func (c *Chrome) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// cachedImageSrc swaps a remote image source for its preloaded data
// URL when available.
func cachedImageSrc(src string) string {
	if i, ok := podium.LoadImageCache(src); ok {
		return i.DataURL()
	}
	return src
}
