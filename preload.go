package podium

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// imageToPreload holds an image source with its slide context.
type imageToPreload struct {
	slide int
	src   string
}

// PreloadImages pre-fetches every image referenced by block items so
// the measurement pass and the serve surfaces work from the cache
// instead of blocking mid-render. Broken images are logged and
// skipped; a missing picture falls back to its alt text, it never
// fails the deck.
func PreloadImages(ctx context.Context, items Items, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var toPreload []imageToPreload
	seen := map[string]bool{}
	for _, item := range items {
		if item.Kind != ItemBlock {
			continue
		}
		for _, c := range item.Block.Contents {
			if c.Kind != ContentImage || c.Src == "" || seen[c.Src] {
				continue
			}
			seen[c.Src] = true
			toPreload = append(toPreload, imageToPreload{slide: item.Slide, src: c.Src})
		}
	}
	if len(toPreload) == 0 {
		return nil
	}

	const maxWorkers = 8

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(min(maxWorkers, len(toPreload)))
	for _, p := range toPreload {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := NewImage(p.src); err != nil {
				logger.Warn("failed to preload image", slog.String("src", p.src), slog.Int("slide", p.slide), slog.String("error", err.Error()))
			}
			return nil
		})
	}
	return g.Wait()
}
