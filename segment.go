package podium

import (
	"os"
	"path/filepath"
	"strings"
)

// SegmentKind is the kind of an inline text segment.
type SegmentKind string

const (
	SegmentText          SegmentKind = "text"
	SegmentEmphasis      SegmentKind = "emphasis"
	SegmentStrong        SegmentKind = "strong"
	SegmentStrikethrough SegmentKind = "strikethrough"
	SegmentCode          SegmentKind = "code"
	SegmentLink          SegmentKind = "link"
	SegmentRef           SegmentKind = "ref"
)

// Segment represents an inline span of a line. Emphasis, strong,
// strikethrough and link segments wrap nested child segments.
type Segment struct {
	Kind     SegmentKind `json:"kind"`
	Value    string      `json:"value,omitempty"`    // text, code
	URL      string      `json:"url,omitempty"`      // link
	Target   string      `json:"target,omitempty"`   // ref
	Alias    string      `json:"alias,omitempty"`    // ref
	Children []*Segment  `json:"children,omitempty"` // emphasis, strong, strikethrough, link
}

// RefResolution is the result of resolving an internal reference.
type RefResolution struct {
	Title  string
	Exists bool
}

// RefResolver resolves an internal reference target to a title and an
// existence flag. It is supplied by the host application.
type RefResolver func(target string) RefResolution

// DirRefResolver resolves reference targets against markdown files in
// dir. The note title is its filename without the extension.
func DirRefResolver(dir string) RefResolver {
	return func(target string) RefResolution {
		name := target
		if filepath.Ext(name) == "" {
			name += ".md"
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return RefResolution{Title: target}
		}
		return RefResolution{Title: strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), Exists: true}
	}
}

// Label returns the display label of a ref segment. The alias wins,
// then the resolved title, then the raw target (broken reference).
func (s *Segment) Label(resolve RefResolver) string {
	if s.Kind != SegmentRef {
		return s.String()
	}
	if s.Alias != "" {
		return s.Alias
	}
	if resolve != nil {
		if r := resolve(s.Target); r.Exists && r.Title != "" {
			return r.Title
		}
	}
	return s.Target
}

// String returns the plain text of the segment tree.
func (s *Segment) String() string {
	if s == nil {
		return ""
	}
	switch s.Kind {
	case SegmentText, SegmentCode:
		return s.Value
	case SegmentRef:
		return s.Label(nil)
	default:
		var result strings.Builder
		for _, c := range s.Children {
			result.WriteString(c.String())
		}
		return result.String()
	}
}

// Text returns the plain text of a segment sequence.
func Text(segments []*Segment) string {
	var result strings.Builder
	for _, s := range segments {
		result.WriteString(s.String())
	}
	return result.String()
}
