package podium

import "strings"

// ContentKind is the kind of a block-level construct within a
// VisualBlock.
type ContentKind string

const (
	ContentHeading    ContentKind = "heading"
	ContentParagraph  ContentKind = "paragraph"
	ContentCode       ContentKind = "code"
	ContentList       ContentKind = "list"
	ContentBlockquote ContentKind = "blockquote"
	ContentTable      ContentKind = "table"
	ContentImage      ContentKind = "image"
)

// Content represents one block-level construct of a slide.
type Content struct {
	Kind     ContentKind  `json:"kind"`
	Depth    int          `json:"depth,omitempty"`    // heading (1-6)
	Segments []*Segment   `json:"segments,omitempty"` // heading, paragraph, blockquote
	Code     string       `json:"code,omitempty"`     // code
	Lang     string       `json:"lang,omitempty"`     // code
	Ordered  bool         `json:"ordered,omitempty"`  // list
	Items    [][]*Segment `json:"items,omitempty"`    // list
	Rows     [][]string   `json:"rows,omitempty"`     // table
	Src      string       `json:"src,omitempty"`      // image
	Alt      string       `json:"alt,omitempty"`      // image
}

// VisualBlock is the unit a slide renders: a heading line plus the
// content until the next slide-triggering heading. Line is the 1-based
// source line number of the block's first line.
type VisualBlock struct {
	Line     int        `json:"line"`
	Contents []*Content `json:"contents,omitempty"`
}

func (c *Content) String() string {
	if c == nil {
		return ""
	}
	switch c.Kind {
	case ContentCode:
		return c.Code
	case ContentList:
		var result strings.Builder
		for i, item := range c.Items {
			if i > 0 {
				result.WriteString("\n")
			}
			result.WriteString(Text(item))
		}
		return result.String()
	case ContentTable:
		var result strings.Builder
		for i, row := range c.Rows {
			if i > 0 {
				result.WriteString("\n")
			}
			result.WriteString(strings.Join(row, "\t"))
		}
		return result.String()
	case ContentImage:
		return c.Alt
	default:
		return Text(c.Segments)
	}
}

func (vb *VisualBlock) String() string {
	if vb == nil {
		return ""
	}
	var result strings.Builder
	for i, c := range vb.Contents {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(c.String())
	}
	return result.String()
}
