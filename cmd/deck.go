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
	"os"
	"path/filepath"

	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/config"
	"github.com/k1LoW/podium/md"
)

// loadDeck parses a deck file with the break depth and size preset
// resolved from configuration defaults against the frontmatter.
func loadDeck(f string) (*config.Config, *md.Doc, podium.SizePreset, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, nil, "", err
	}
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, nil, "", err
	}
	_, meta, err := md.StripFrontmatter(b)
	if err != nil {
		return nil, nil, "", err
	}
	depth, size, err := cfg.Resolve(meta)
	if err != nil {
		return nil, nil, "", err
	}
	doc, err := md.Parse(b, md.WithBreakDepth(depth))
	if err != nil {
		return nil, nil, "", err
	}
	preset, err := podium.ParseSizePreset(size)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, doc, preset, nil
}

// deckRefResolver resolves wiki references against sibling notes of
// the deck file.
func deckRefResolver(f string) podium.RefResolver {
	abs, err := filepath.Abs(f)
	if err != nil {
		return podium.DirRefResolver(filepath.Dir(f))
	}
	return podium.DirRefResolver(filepath.Dir(abs))
}

// codeImager builds the code-block-to-image command runner. The
// environment variable wins over configuration.
func codeImager(cfg *config.Config) *podium.CodeImager {
	command := os.Getenv("PODIUM_CODEBLOCK_TO_IMAGE_COMMAND")
	if command == "" {
		command = cfg.CodeBlockToImageCommand
	}
	return podium.NewCodeImager(command)
}
