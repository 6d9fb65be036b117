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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/config"
	"github.com/k1LoW/podium/httpd"
	"github.com/k1LoW/podium/measure"
	"github.com/k1LoW/podium/store"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	listen   string
	openView bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [DECK_FILE]",
	Short: "serve a deck over HTTP",
	Long:  `serve a deck over HTTP with slideshow, fullscreen and teleprompter views.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		f := args[0]
		cfg, doc, preset, err := loadDeck(f)
		if err != nil {
			return err
		}
		logger := newLogger(slog.NewTextHandler(os.Stderr, nil))
		if err := podium.PreloadImages(ctx, doc.Items, logger); err != nil {
			return err
		}
		codeImager(cfg).ApplyToItems(ctx, doc.Items, logger)
		db, err := store.OpenSQLite(ctx, filepath.Join(config.DataHomePath(), "nav.db"))
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		nav, err := newNavigator(ctx, doc.Items, db.Cell(abs), logger)
		if err != nil {
			return err
		}
		resolver := deckRefResolver(f)
		chrome, err := measure.NewChrome(ctx,
			measure.WithPreset(preset),
			measure.WithRefResolver(resolver),
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
		session, err := podium.NewFitSession(fitter, podium.Size{Width: containerWidth, Height: containerHeight},
			podium.WithSessionLogger(logger),
		)
		if err != nil {
			return err
		}
		defer session.Close()
		srv, err := httpd.NewServer(doc, nav,
			httpd.WithLogger(logger),
			httpd.WithPreset(preset),
			httpd.WithRefResolver(resolver),
			httpd.WithFitSession(session),
		)
		if err != nil {
			return err
		}
		go func() {
			err := podium.Watch(ctx, f, logger, func(ctx context.Context) {
				cfg, doc, _, err := loadDeck(f)
				if err != nil {
					logger.Warn("failed to reload deck", slog.String("error", err.Error()))
					return
				}
				if err := podium.PreloadImages(ctx, doc.Items, logger); err != nil {
					logger.Warn("failed to preload images", slog.String("error", err.Error()))
				}
				codeImager(cfg).ApplyToItems(ctx, doc.Items, logger)
				nav, err := newNavigator(ctx, doc.Items, db.Cell(abs), logger)
				if err != nil {
					logger.Warn("failed to reload deck", slog.String("error", err.Error()))
					return
				}
				srv.Reload(ctx, doc, nav)
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("watch stopped", slog.String("error", err.Error()))
			}
		}()
		addr := listen
		if addr == "" {
			addr = cfg.Listen
		}
		if addr == "" {
			addr = "127.0.0.1:3000"
		}
		logger.Info("listening", slog.String("addr", addr))
		if openView {
			if err := browser.OpenURL(fmt.Sprintf("http://%s/", addr)); err != nil {
				logger.Warn("failed to open browser", slog.String("error", err.Error()))
			}
		}
		httpSrv := &http.Server{Addr: addr, Handler: srv}
		go func() {
			<-ctx.Done()
			_ = httpSrv.Shutdown(context.Background())
		}()
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&listen, "listen", "", "", "listen address")
	serveCmd.Flags().BoolVarP(&openView, "open", "", false, "open the slideshow in the default browser")
	serveCmd.Flags().Float64VarP(&containerWidth, "width", "", 1280, "container width in pixels")
	serveCmd.Flags().Float64VarP(&containerHeight, "height", "", 720, "container height in pixels")
}
