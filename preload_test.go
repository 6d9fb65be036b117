package podium

import (
	"context"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestPreloadImages(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	if err := os.WriteFile(src, pngBytes(t, color.RGBA{R: 0xff, A: 0xff}), 0o600); err != nil {
		t.Fatal(err)
	}
	items := Items{
		{
			Kind:  ItemBlock,
			Slide: 2,
			Block: &VisualBlock{
				Line: 1,
				Contents: []*Content{
					{Kind: ContentImage, Src: src},
					{Kind: ContentImage, Src: filepath.Join(dir, "missing.png")},
				},
			},
		},
	}
	// A broken image is logged and skipped, never a hard failure.
	if err := PreloadImages(ctx, items, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}
}

func TestPreloadImagesNoImages(t *testing.T) {
	items := Items{
		{Kind: ItemLine, Slide: 1, Line: 1, Text: "hello"},
	}
	if err := PreloadImages(context.Background(), items, nil); err != nil {
		t.Fatal(err)
	}
}
