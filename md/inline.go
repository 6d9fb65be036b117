package md

import (
	"regexp"
	"strings"

	"github.com/k1LoW/podium"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Internal references: [[target]], [[target|alias]], with word
// characters right after the closing brackets merged into the alias
// ([[note]]s reads "notes").
var refRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\](\w*)`)

// toSegments converts the inline children of a node into a segment
// tree. Code spans and links are already bound by goldmark; internal
// references are scanned out of the remaining plain text, so a ref
// inside a code span stays literal.
func toSegments(b []byte, n ast.Node) []*podium.Segment {
	var segments []*podium.Segment
	var pending strings.Builder

	flush := func() {
		if pending.Len() == 0 {
			return
		}
		segments = append(segments, scanRefs(pending.String())...)
		pending.Reset()
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			pending.Write(v.Segment.Value(b))
			if v.SoftLineBreak() || v.HardLineBreak() {
				pending.WriteString("\n")
			}
		case *ast.String:
			pending.Write(v.Value)
		case *ast.CodeSpan:
			flush()
			segments = append(segments, &podium.Segment{
				Kind:  podium.SegmentCode,
				Value: nodeText(v, b),
			})
		case *ast.Emphasis:
			flush()
			kind := podium.SegmentEmphasis
			if v.Level == 2 {
				kind = podium.SegmentStrong
			}
			segments = append(segments, &podium.Segment{
				Kind:     kind,
				Children: toSegments(b, v),
			})
		case *east.Strikethrough:
			flush()
			segments = append(segments, &podium.Segment{
				Kind:     podium.SegmentStrikethrough,
				Children: toSegments(b, v),
			})
		case *ast.Link:
			flush()
			segments = append(segments, &podium.Segment{
				Kind:     podium.SegmentLink,
				URL:      string(v.Destination),
				Children: toSegments(b, v),
			})
		case *ast.AutoLink:
			flush()
			url := string(v.URL(b))
			segments = append(segments, &podium.Segment{
				Kind: podium.SegmentLink,
				URL:  url,
				Children: []*podium.Segment{
					{Kind: podium.SegmentText, Value: url},
				},
			})
		case *ast.Image:
			// An image inside running text shows as its alt text;
			// standalone images become image contents upstream.
			flush()
			if alt := nodeText(v, b); alt != "" {
				segments = append(segments, &podium.Segment{Kind: podium.SegmentText, Value: alt})
			}
		case *ast.RawHTML:
			flush()
			// Raw inline HTML degrades to plain text.
			var sb strings.Builder
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				sb.Write(seg.Value(b))
			}
			if sb.Len() > 0 {
				segments = append(segments, &podium.Segment{Kind: podium.SegmentText, Value: sb.String()})
			}
		default:
			pending.WriteString(nodeText(v, b))
		}
	}
	flush()
	return segments
}

// scanRefs splits plain text around internal references. Anything that
// is not a well-formed reference stays plain text.
func scanRefs(s string) []*podium.Segment {
	var segments []*podium.Segment
	for len(s) > 0 {
		m := refRe.FindStringSubmatchIndex(s)
		if m == nil {
			segments = append(segments, &podium.Segment{Kind: podium.SegmentText, Value: s})
			break
		}
		if m[0] > 0 {
			segments = append(segments, &podium.Segment{Kind: podium.SegmentText, Value: s[:m[0]]})
		}
		target := strings.TrimSpace(s[m[2]:m[3]])
		alias := ""
		if m[4] >= 0 {
			alias = strings.TrimSpace(s[m[4]:m[5]])
		}
		if suffix := s[m[6]:m[7]]; suffix != "" {
			if alias == "" {
				alias = target
			}
			alias += suffix
		}
		segments = append(segments, &podium.Segment{
			Kind:   podium.SegmentRef,
			Target: target,
			Alias:  alias,
		})
		s = s[m[1]:]
	}
	return segments
}

// nodeText returns the plain text under a node.
func nodeText(n ast.Node, b []byte) string {
	var sb strings.Builder
	writeNodeText(&sb, n, b)
	return sb.String()
}

func writeNodeText(sb *strings.Builder, n ast.Node, b []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(b))
		case *ast.String:
			sb.Write(v.Value)
		default:
			writeNodeText(sb, v, b)
		}
	}
}
