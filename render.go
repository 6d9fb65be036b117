package podium

import (
	"fmt"
	"html"
	"strings"
)

// RenderOptions controls HTML rendering of slides.
type RenderOptions struct {
	Scale    int         // fit scale percentage, MaxScale if zero
	Preset   SizePreset  // size preset, SizeM if empty
	Resolve  RefResolver // internal reference resolver
	ImageSrc func(src string) string // image source rewriter (e.g. data URLs for measurement)
}

// RenderSlideHTML renders one slide as a standalone HTML document: a
// fixed-size container holding the block grid, sized by the two
// variables the fit scale feeds. Both the measurement pass and the
// serve surfaces consume this.
func RenderSlideHTML(slide *Slide, grid Grid, container Size, opts RenderOptions) string {
	scale := opts.Scale
	if scale == 0 {
		scale = MaxScale
	}
	preset := opts.Preset
	if preset == "" {
		preset = SizeM
	}
	heading, body := preset.Sizes(scale)
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>\n")
	fmt.Fprintf(&sb, "html,body{margin:0;padding:0}\n")
	fmt.Fprintf(&sb, ":root{--heading-size:%.2fpx;--body-size:%.2fpx}\n", heading, body)
	fmt.Fprintf(&sb, "#container{width:%.0fpx;height:%.0fpx;overflow:hidden;display:grid;grid-template-columns:repeat(%d,1fr);grid-template-rows:repeat(%d,1fr)}\n",
		container.Width, container.Height, grid.Cols, grid.Rows)
	sb.WriteString(".block{overflow:hidden;font-size:var(--body-size)}\n")
	sb.WriteString(".block h1,.block h2,.block h3,.block h4,.block h5,.block h6{font-size:var(--heading-size);margin:0}\n")
	sb.WriteString(".block img{max-width:100%}\n")
	sb.WriteString("</style></head><body><div id=\"container\">\n")
	for _, block := range slide.Blocks {
		sb.WriteString(RenderBlockHTML(block, opts))
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}

// RenderBlockHTML renders one VisualBlock as a section addressable by
// its source line number.
func RenderBlockHTML(block *VisualBlock, opts RenderOptions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<section class=\"block\" data-line=\"%d\">", block.Line)
	for _, c := range block.Contents {
		sb.WriteString(renderContent(c, opts))
	}
	sb.WriteString("</section>\n")
	return sb.String()
}

// RenderLineHTML renders a teleprompter line item.
func RenderLineHTML(item *Item) string {
	return fmt.Sprintf("<p class=\"line\" data-line=\"%d\">%s</p>\n", item.Line, html.EscapeString(item.Text))
}

func renderContent(c *Content, opts RenderOptions) string {
	var sb strings.Builder
	switch c.Kind {
	case ContentHeading:
		fmt.Fprintf(&sb, "<h%d>%s</h%d>", c.Depth, renderSegments(c.Segments, opts), c.Depth)
	case ContentParagraph:
		fmt.Fprintf(&sb, "<p>%s</p>", renderSegments(c.Segments, opts))
	case ContentCode:
		lang := ""
		if c.Lang != "" {
			lang = fmt.Sprintf(" class=\"language-%s\"", html.EscapeString(c.Lang))
		}
		fmt.Fprintf(&sb, "<pre><code%s>%s</code></pre>", lang, html.EscapeString(c.Code))
	case ContentList:
		tag := "ul"
		if c.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(&sb, "<%s>", tag)
		for _, item := range c.Items {
			fmt.Fprintf(&sb, "<li>%s</li>", renderSegments(item, opts))
		}
		fmt.Fprintf(&sb, "</%s>", tag)
	case ContentBlockquote:
		fmt.Fprintf(&sb, "<blockquote>%s</blockquote>", renderSegments(c.Segments, opts))
	case ContentTable:
		sb.WriteString("<table>")
		for i, row := range c.Rows {
			tag := "td"
			if i == 0 {
				tag = "th"
			}
			sb.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(&sb, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
			}
			sb.WriteString("</tr>")
		}
		sb.WriteString("</table>")
	case ContentImage:
		src := c.Src
		if opts.ImageSrc != nil {
			src = opts.ImageSrc(src)
		}
		fmt.Fprintf(&sb, "<img src=\"%s\" alt=\"%s\">", html.EscapeString(src), html.EscapeString(c.Alt))
	}
	return sb.String()
}

func renderSegments(segments []*Segment, opts RenderOptions) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(renderSegment(s, opts))
	}
	return sb.String()
}

func renderSegment(s *Segment, opts RenderOptions) string {
	switch s.Kind {
	case SegmentText:
		return strings.ReplaceAll(html.EscapeString(s.Value), "\n", "<br>")
	case SegmentCode:
		return fmt.Sprintf("<code>%s</code>", html.EscapeString(s.Value))
	case SegmentEmphasis:
		return fmt.Sprintf("<em>%s</em>", renderSegments(s.Children, opts))
	case SegmentStrong:
		return fmt.Sprintf("<strong>%s</strong>", renderSegments(s.Children, opts))
	case SegmentStrikethrough:
		return fmt.Sprintf("<del>%s</del>", renderSegments(s.Children, opts))
	case SegmentLink:
		return fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(s.URL), renderSegments(s.Children, opts))
	case SegmentRef:
		label := s.Label(opts.Resolve)
		class := "ref"
		if opts.Resolve != nil && !opts.Resolve(s.Target).Exists {
			class = "ref broken"
		}
		return fmt.Sprintf("<a class=\"%s\" data-target=\"%s\">%s</a>", class, html.EscapeString(s.Target), html.EscapeString(label))
	default:
		return ""
	}
}
