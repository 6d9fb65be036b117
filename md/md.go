package md

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/podium"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultBreakDepth is the heading depth that starts a new slide.
const DefaultBreakDepth = 1

// Doc is a parsed markdown note.
type Doc struct {
	Meta       map[string]any `json:"meta,omitempty"`
	Body       string         `json:"-"`
	BreakDepth int            `json:"break_depth"`
	Items      podium.Items   `json:"items"`
}

// Option configures parsing.
type Option func(*parser) error

// WithBreakDepth sets the slide-break heading depth (1-6).
func WithBreakDepth(depth int) Option {
	return func(p *parser) error {
		if depth < 1 || depth > 6 {
			return fmt.Errorf("invalid slide break depth: %d", depth)
		}
		p.breakDepth = depth
		return nil
	}
}

type parser struct {
	breakDepth int
}

// ParseFile parses a markdown file.
func ParseFile(f string, opts ...Option) (_ *Doc, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Parse(b, opts...)
}

// Parse strips frontmatter and parses the remaining body.
func Parse(b []byte, opts ...Option) (_ *Doc, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	body, meta, err := StripFrontmatter(b)
	if err != nil {
		return nil, err
	}
	doc, err := ParseBody(body, opts...)
	if err != nil {
		return nil, err
	}
	doc.Meta = meta
	return doc, nil
}

// ParseBody parses a document body (frontmatter already stripped) into
// the presentation item sequence. Headings at or above the break depth
// open a new slide holding the heading; every other construct joins
// the open block, or degrades to per-line teleprompter items while no
// slide is open yet.
func ParseBody(body []byte, opts ...Option) (_ *Doc, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	p := &parser{breakDepth: DefaultBreakDepth}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	items, err := p.parse(body)
	if err != nil {
		return nil, err
	}
	return &Doc{
		Body:       string(body),
		BreakDepth: p.breakDepth,
		Items:      items,
	}, nil
}

func (p *parser) parse(b []byte) (podium.Items, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	reader := text.NewReader(b)
	doc := md.Parser().Parse(reader)

	offsets := lineOffsets(b)
	currentSlide := 1
	var open *podium.VisualBlock
	var items podium.Items

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= p.breakDepth {
			currentSlide++
			open = &podium.VisualBlock{
				Line:     lineFor(n, offsets),
				Contents: []*podium.Content{headingContent(h, b)},
			}
			items = append(items, &podium.Item{
				Kind:  podium.ItemBlock,
				Slide: currentSlide,
				Block: open,
			})
			continue
		}
		c := p.toContent(n, b)
		if c == nil {
			continue
		}
		if open != nil {
			open.Contents = append(open.Contents, c)
			continue
		}
		// No slide is open yet. Keep the content reachable for the
		// teleprompter as plain lines instead of fabricating a slide.
		items = append(items, lineItems(n, b, offsets, currentSlide)...)
	}
	return items, nil
}

func headingContent(h *ast.Heading, b []byte) *podium.Content {
	return &podium.Content{
		Kind:     podium.ContentHeading,
		Depth:    h.Level,
		Segments: toSegments(b, h),
	}
}

// toContent classifies a block-level node. Nil means the node carries
// no renderable content.
func (p *parser) toContent(n ast.Node, b []byte) *podium.Content {
	switch v := n.(type) {
	case *ast.Heading:
		// Below break depth; renders inside the open block.
		return headingContent(v, b)
	case *ast.Paragraph:
		if img := soleImage(v); img != nil {
			return imageContent(img, b)
		}
		return &podium.Content{
			Kind:     podium.ContentParagraph,
			Segments: toSegments(b, v),
		}
	case *ast.FencedCodeBlock:
		return &podium.Content{
			Kind: podium.ContentCode,
			Code: linesValue(v, b),
			Lang: string(v.Language(b)),
		}
	case *ast.CodeBlock:
		return &podium.Content{
			Kind: podium.ContentCode,
			Code: linesValue(v, b),
		}
	case *ast.List:
		c := &podium.Content{
			Kind:    podium.ContentList,
			Ordered: v.IsOrdered(),
		}
		collectListItems(c, v, b)
		return c
	case *ast.Blockquote:
		return &podium.Content{
			Kind:     podium.ContentBlockquote,
			Segments: blockquoteSegments(v, b),
		}
	case *east.Table:
		return tableContent(v, b)
	case *ast.HTMLBlock:
		value := strings.TrimSpace(linesValue(v, b))
		if value == "" || strings.HasPrefix(value, "<!--") {
			return nil
		}
		return &podium.Content{
			Kind:     podium.ContentParagraph,
			Segments: []*podium.Segment{{Kind: podium.SegmentText, Value: value}},
		}
	default:
		return nil
	}
}

func soleImage(p *ast.Paragraph) *ast.Image {
	if p.ChildCount() != 1 {
		return nil
	}
	img, ok := p.FirstChild().(*ast.Image)
	if !ok {
		return nil
	}
	return img
}

func imageContent(img *ast.Image, b []byte) *podium.Content {
	return &podium.Content{
		Kind: podium.ContentImage,
		Src:  string(img.Destination),
		Alt:  nodeText(img, b),
	}
}

// collectListItems flattens list items, including nested lists, into
// the content's item sequence.
func collectListItems(c *podium.Content, list *ast.List, b []byte) {
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		for child := li.FirstChild(); child != nil; child = child.NextSibling() {
			switch v := child.(type) {
			case *ast.List:
				collectListItems(c, v, b)
			default:
				segments := toSegments(b, v)
				if len(segments) > 0 {
					c.Items = append(c.Items, segments)
				}
			}
		}
	}
}

func blockquoteSegments(bq *ast.Blockquote, b []byte) []*podium.Segment {
	var segments []*podium.Segment
	for child := bq.FirstChild(); child != nil; child = child.NextSibling() {
		if len(segments) > 0 {
			segments = append(segments, &podium.Segment{Kind: podium.SegmentText, Value: "\n"})
		}
		segments = append(segments, toSegments(b, child)...)
	}
	return segments
}

// lineItems emits one line item per non-blank source line of the node.
func lineItems(n ast.Node, b []byte, offsets []int, slide int) podium.Items {
	start, stop, ok := nodeSpan(n)
	if !ok {
		return nil
	}
	firstLine := lineAt(offsets, start)
	lastLine := lineAt(offsets, stop-1)
	var items podium.Items
	for line := firstLine; line <= lastLine; line++ {
		value := rawLine(b, offsets, line)
		if strings.TrimSpace(value) == "" {
			continue
		}
		items = append(items, &podium.Item{
			Kind:  podium.ItemLine,
			Slide: slide,
			Line:  line,
			Text:  value,
		})
	}
	return items
}

// nodeSpan returns the byte span covered by the node's source lines,
// descending when the node itself has none (lists, blockquotes).
func nodeSpan(n ast.Node) (start, stop int, ok bool) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, true
	}
	start, stop = -1, -1
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cs, ce, cok := nodeSpan(c)
		if !cok {
			continue
		}
		if start < 0 || cs < start {
			start = cs
		}
		if ce > stop {
			stop = ce
		}
	}
	return start, stop, start >= 0
}

// lineFor returns the 1-based source line number of the node.
func lineFor(n ast.Node, offsets []int) int {
	start, _, ok := nodeSpan(n)
	if !ok {
		return 1
	}
	return lineAt(offsets, start)
}

// lineOffsets returns the byte offset of the start of each line.
func lineOffsets(b []byte) []int {
	offsets := []int{0}
	for i, c := range b {
		if c == '\n' && i+1 < len(b) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineAt returns the 1-based line number containing the byte offset.
func lineAt(offsets []int, offset int) int {
	return sort.Search(len(offsets), func(i int) bool {
		return offsets[i] > offset
	})
}

// rawLine returns the text of a 1-based line without its newline.
func rawLine(b []byte, offsets []int, line int) string {
	if line < 1 || line > len(offsets) {
		return ""
	}
	start := offsets[line-1]
	end := len(b)
	if line < len(offsets) {
		end = offsets[line] - 1
	} else if i := bytes.IndexByte(b[start:], '\n'); i >= 0 {
		end = start + i
	}
	return string(b[start:end])
}

func linesValue(n ast.Node, b []byte) string {
	return string(n.Lines().Value(b))
}
