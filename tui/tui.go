// Package tui is the terminal presenting surface: the slideshow and
// teleprompter views driven by the shared navigation index.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/md"
)

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#000080")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)
	currentItemStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#1E3A8A")).
				Foreground(lipgloss.Color("15"))
	dimItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

type mode int

const (
	modeSlideshow mode = iota
	modeTeleprompter
)

type Model struct {
	ctx      context.Context
	doc      *md.Doc
	nav      *podium.Navigator
	slides   []*podium.Slide
	renderer *glamour.TermRenderer
	progress progress.Model
	mode     mode
	width    int
	height   int
	err      error
}

type errMsg error

// ReloadMsg swaps in a re-parsed deck, e.g. after the source file
// changed on disk.
type ReloadMsg struct {
	Doc *md.Doc
	Nav *podium.Navigator
}

// New creates the presenting model over a parsed deck and its
// navigator.
func New(ctx context.Context, doc *md.Doc, nav *podium.Navigator) *Model {
	m := &Model{
		ctx:      ctx,
		doc:      doc,
		nav:      nav,
		slides:   doc.Items.ToSlides(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
	// Without a renderer the slide view falls back to raw source.
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	); err == nil {
		m.renderer = r
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Keep the previous renderer if the rebuild fails.
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-4),
		); err == nil {
			m.renderer = r
		}
		m.progress.Width = msg.Width - 4
		return m, nil

	case errMsg:
		m.err = msg
		return m, nil

	case ReloadMsg:
		m.doc = msg.Doc
		m.nav = msg.Nav
		m.slides = msg.Doc.Items.ToSlides()
		m.err = nil
		return m, m.progress.SetPercent(m.nav.Progress())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "t":
			if m.mode == modeSlideshow {
				m.mode = modeTeleprompter
			} else {
				m.mode = modeSlideshow
			}
			return m, nil
		case "right", "l":
			return m, m.navigate(m.nav.NextSlide)
		case "left", "h":
			return m, m.navigate(m.nav.PrevSlide)
		case "down", "j":
			return m, m.navigate(m.nav.NextItem)
		case "up", "k":
			return m, m.navigate(m.nav.PrevItem)
		case "g":
			return m, m.navigate(func(ctx context.Context) error {
				return m.nav.GoToItem(ctx, 0)
			})
		case "G":
			return m, m.navigate(func(ctx context.Context) error {
				return m.nav.GoToItem(ctx, len(m.doc.Items)-1)
			})
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m *Model) navigate(fn func(context.Context) error) tea.Cmd {
	if err := fn(m.ctx); err != nil {
		return func() tea.Msg { return errMsg(err) }
	}
	return m.progress.SetPercent(m.nav.Progress())
}

func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit.", m.err)
	}
	if len(m.doc.Items) == 0 {
		return "Empty deck.\n\nPress 'q' to quit."
	}

	var content string
	if m.mode == modeTeleprompter {
		content = m.teleprompterView()
	} else {
		content = m.slideView()
	}

	contentHeight := m.height - 2
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if contentHeight > 0 && len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	content = strings.Join(lines, "\n")
	if contentHeight > len(lines) {
		content += strings.Repeat("\n", contentHeight-len(lines))
	}

	status := statusStyle.Render(m.statusLine())
	return content + "\n" + status + " " + m.progress.View()
}

// slideView renders the active slide's source lines through glamour.
func (m *Model) slideView() string {
	number := m.nav.CurrentSlideNumber()
	src := m.slideSource(number)
	if src == "" {
		return "Press ↓ to start."
	}
	if m.renderer == nil {
		return src
	}
	rendered, err := m.renderer.Render(src)
	if err != nil {
		return "Error rendering markdown: " + err.Error()
	}
	return rendered
}

// teleprompterView lists every item of the active slide group, lines
// included, highlighting the one being read.
func (m *Model) teleprompterView() string {
	current := m.nav.CurrentIndex()
	number := m.nav.CurrentSlideNumber()
	var sb strings.Builder
	index := 0
	for _, group := range m.doc.Items.ToSlideGroups() {
		for _, item := range group.Items {
			text := strings.TrimRight(item.String(), "\n")
			switch {
			case index == current:
				sb.WriteString(currentItemStyle.Render(text))
			case group.Number == number:
				sb.WriteString(text)
			default:
				sb.WriteString(dimItemStyle.Render(text))
			}
			sb.WriteString("\n")
			index++
		}
	}
	return sb.String()
}

// slideSource slices the original source from the slide's first block
// line up to the next slide's first line.
func (m *Model) slideSource(number int) string {
	lines := strings.Split(m.doc.Body, "\n")
	for i, slide := range m.slides {
		if slide.Number != number || len(slide.Blocks) == 0 {
			continue
		}
		start := slide.Blocks[0].Line - 1
		end := len(lines)
		if i+1 < len(m.slides) && len(m.slides[i+1].Blocks) > 0 {
			end = m.slides[i+1].Blocks[0].Line - 1
		}
		if start < 0 || start >= len(lines) || start >= end {
			return ""
		}
		return strings.Join(lines[start:end], "\n")
	}
	return ""
}

func (m *Model) statusLine() string {
	number := m.nav.CurrentSlideNumber()
	pos := 0
	for i, n := range m.doc.Items.SlideNumbers() {
		if n == number {
			pos = i + 1
			break
		}
	}
	total := len(m.doc.Items.SlideNumbers())
	if m.mode == modeTeleprompter {
		return fmt.Sprintf("Teleprompter %d/%d", pos, total)
	}
	return fmt.Sprintf("Slide %d/%d", pos, total)
}
