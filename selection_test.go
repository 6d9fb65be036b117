package podium

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapSelection(t *testing.T) {
	doc := "# One\n\nhello world\n\n# Two\n\nhello again\n"
	tests := []struct {
		name string
		sel  Selection
		want *OffsetRange
	}{
		{
			name: "text on the anchor line",
			sel:  Selection{Line: 3, Text: "hello world"},
			want: &OffsetRange{Start: 7, End: 18},
		},
		{
			name: "anchor disambiguates repeated text",
			sel:  Selection{Line: 7, Text: "hello"},
			want: &OffsetRange{Start: 27, End: 32},
		},
		{
			name: "text spanning past the anchor line",
			sel:  Selection{Line: 5, Text: "# Two\n\nhello"},
			want: &OffsetRange{Start: 20, End: 32},
		},
		{
			name: "drifted anchor falls back to the first occurrence",
			sel:  Selection{Line: 7, Text: "# One"},
			want: &OffsetRange{Start: 0, End: 5},
		},
		{
			name: "empty selection",
			sel:  Selection{Line: 3, Text: ""},
			want: nil,
		},
		{
			name: "anchor line out of range",
			sel:  Selection{Line: 99, Text: "hello"},
			want: nil,
		},
		{
			name: "anchor line below one",
			sel:  Selection{Line: 0, Text: "hello"},
			want: nil,
		},
		{
			name: "unlocatable text",
			sel:  Selection{Line: 3, Text: "no such text"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapSelection(doc, tt.sel)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestMapSelectionRoundTrip(t *testing.T) {
	doc := "# Title\n\nsome body text\nmore text\n"
	sel := Selection{Line: 3, Text: "body text\nmore"}
	r := MapSelection(doc, sel)
	if r == nil {
		t.Fatal("want a range")
	}
	if got := doc[r.Start:r.End]; got != sel.Text {
		t.Errorf("want %q, got %q", sel.Text, got)
	}
}
