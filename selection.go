package podium

import "strings"

// Selection is a text selection made on a rendered surface, anchored
// to the nearest rendered element carrying a source line number. The
// rendering layer resolves the anchor; the engine maps it back to
// document offsets.
type Selection struct {
	Line int    // 1-based source line of the anchor
	Text string // selected text
}

// OffsetRange is a byte-offset range into the source document.
type OffsetRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// MapSelection translates a selection back into offsets in the source
// document: the anchor line's start offset is the prefix sum of prior
// line lengths, the text is located from there, with a fallback to the
// first global occurrence to tolerate drift from re-rendering. Returns
// nil for collapsed, empty, or unlocatable selections. Read-only; it
// never touches navigation state.
func MapSelection(doc string, sel Selection) *OffsetRange {
	if sel.Text == "" || sel.Line < 1 {
		return nil
	}
	lines := strings.Split(doc, "\n")
	if sel.Line > len(lines) {
		return nil
	}
	offset := 0
	for _, line := range lines[:sel.Line-1] {
		offset += len(line) + 1
	}
	start := -1
	if i := strings.Index(doc[offset:], sel.Text); i >= 0 {
		start = offset + i
	} else if i := strings.Index(doc, sel.Text); i >= 0 {
		start = i
	}
	if start < 0 {
		return nil
	}
	return &OffsetRange{Start: start, End: start + len(sel.Text)}
}
