/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/logger/dot"
	"github.com/k1LoW/podium/measure"
	"github.com/spf13/cobra"
)

var (
	containerWidth  float64
	containerHeight float64
)

var fitCmd = &cobra.Command{
	Use:   "fit [DECK_FILE]",
	Short: "precompute auto-fit scales for every slide",
	Long:  `precompute auto-fit scales for every slide.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := args[0]
		cfg, doc, preset, err := loadDeck(f)
		if err != nil {
			return err
		}
		dh, err := dot.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		if err != nil {
			return err
		}
		logger := newLogger(dh)
		if err := podium.PreloadImages(ctx, doc.Items, logger); err != nil {
			return err
		}
		codeImager(cfg).ApplyToItems(ctx, doc.Items, logger)
		chrome, err := measure.NewChrome(ctx,
			measure.WithPreset(preset),
			measure.WithRefResolver(deckRefResolver(f)),
			measure.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer func() {
			_ = chrome.Close()
		}()
		fitter, err := podium.NewFitter(chrome, podium.WithFitLogger(logger))
		if err != nil {
			return err
		}
		container := podium.Size{Width: containerWidth, Height: containerHeight}
		slides := doc.Items.ToSlides()
		scales := make(map[int]int, len(slides))
		for _, slide := range slides {
			scale, err := fitter.Fit(ctx, slide, container)
			if err != nil {
				return err
			}
			scales[slide.Number] = scale
		}
		logger.Info("fit completed", slog.Int("slides", len(slides)))
		for _, slide := range slides {
			fmt.Printf("slide %d: %d%%\n", slide.Number, scales[slide.Number])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
	fitCmd.Flags().Float64VarP(&containerWidth, "width", "", 1280, "container width in pixels")
	fitCmd.Flags().Float64VarP(&containerHeight, "height", "", 720, "container height in pixels")
}
