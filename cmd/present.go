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
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/config"
	"github.com/k1LoW/podium/store"
	"github.com/k1LoW/podium/tui"
	"github.com/spf13/cobra"
)

var noWatch bool

var presentCmd = &cobra.Command{
	Use:   "present [DECK_FILE]",
	Short: "present a deck in the terminal",
	Long:  `present a deck in the terminal.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		f := args[0]
		_, doc, _, err := loadDeck(f)
		if err != nil {
			return err
		}
		logger := newLogger()
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
		p := tea.NewProgram(tui.New(ctx, doc, nav), tea.WithAltScreen())
		if !noWatch {
			go func() {
				err := podium.Watch(ctx, f, logger, func(ctx context.Context) {
					_, doc, _, err := loadDeck(f)
					if err != nil {
						logger.Warn("failed to reload deck", slog.String("error", err.Error()))
						return
					}
					nav, err := newNavigator(ctx, doc.Items, db.Cell(abs), logger)
					if err != nil {
						logger.Warn("failed to reload deck", slog.String("error", err.Error()))
						return
					}
					p.Send(tui.ReloadMsg{Doc: doc, Nav: nav})
				})
				if err != nil && ctx.Err() == nil {
					logger.Warn("watch stopped", slog.String("error", err.Error()))
				}
			}()
		}
		_, err = p.Run()
		return err
	},
}

// newNavigator builds a navigator over the persisted index cell and
// restores its position.
func newNavigator(ctx context.Context, items podium.Items, cell podium.IndexCell, logger *slog.Logger) (*podium.Navigator, error) {
	nav, err := podium.NewNavigator(items,
		podium.WithIndexCell(cell),
		podium.WithNavLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := nav.Restore(ctx); err != nil {
		return nil, err
	}
	return nav, nil
}

func init() {
	rootCmd.AddCommand(presentCmd)
	presentCmd.Flags().BoolVarP(&noWatch, "no-watch", "", false, "do not watch the deck file for changes")
}
