package podium

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/exec"
)

// Environment variables passed to the code-block-to-image command.
const (
	EnvCodeBlock     = "PODIUM_CODEBLOCK"
	EnvCodeBlockLang = "PODIUM_CODEBLOCK_LANG"
)

// CodeImager turns code block contents into images using an external
// command configured by the user, e.g. a silicon or freeze invocation.
// The command reads the code from the environment and writes image
// data to stdout.
type CodeImager struct {
	command string
}

// NewCodeImager creates a CodeImager. An empty command disables it.
func NewCodeImager(command string) *CodeImager {
	return &CodeImager{command: command}
}

// Enabled reports whether a command is configured.
func (ci *CodeImager) Enabled() bool {
	return ci != nil && ci.command != ""
}

// Render runs the command for one code content and returns the image.
func (ci *CodeImager) Render(ctx context.Context, c *Content) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if !ci.Enabled() {
		return nil, fmt.Errorf("no code block to image command configured")
	}
	if c.Kind != ContentCode {
		return nil, fmt.Errorf("content is not a code block")
	}
	shell, args, err := buildCommand(ci.command)
	if err != nil {
		return nil, fmt.Errorf("failed to build code block command: %w", err)
	}
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", EnvCodeBlock, c.Code))
	cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", EnvCodeBlockLang, c.Lang))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run code block command: %w\nstderr: %s", err, stderr.String())
	}
	i, err := NewImageFromReader(&stdout)
	if err != nil {
		return nil, fmt.Errorf("code block command did not output an image: %w", err)
	}
	return i, nil
}

// ApplyToItems replaces every code content across block items with the
// rendered image, embedded as a data URL. Failures leave the code
// block as is.
func (ci *CodeImager) ApplyToItems(ctx context.Context, items Items, logger *slog.Logger) {
	if !ci.Enabled() {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, item := range items {
		if item.Kind != ItemBlock {
			continue
		}
		for _, c := range item.Block.Contents {
			if c.Kind != ContentCode {
				continue
			}
			i, err := ci.Render(ctx, c)
			if err != nil {
				logger.Warn("failed to convert code block to image", slog.Int("slide", item.Slide), slog.String("error", err.Error()))
				continue
			}
			c.Kind = ContentImage
			c.Src = i.DataURL()
			c.Alt = c.Lang
			c.Code = ""
			c.Lang = ""
		}
	}
}

// buildCommand wraps a command string in the user's shell.
func buildCommand(cmdStr string) (string, []string, error) {
	shell, err := detectShell()
	if err != nil {
		return "", nil, err
	}
	return shell, []string{"-c", cmdStr}, nil
}

// detectShell detects the current shell.
func detectShell() (string, error) {
	shells := []string{
		os.Getenv("SHELL"),
		"/bin/bash",
		"/bin/sh",
	}
	for _, shell := range shells {
		if shell == "" {
			continue
		}
		if _, err := os.Stat(shell); err == nil {
			return shell, nil
		}
	}
	return "", fmt.Errorf("failed to detect shell")
}
