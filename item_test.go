package podium

import (
	"strings"
	"testing"
)

func TestItemsValidate(t *testing.T) {
	tests := []struct {
		name    string
		items   Items
		wantErr string
	}{
		{
			name: "valid sequence",
			items: Items{
				{Kind: ItemLine, Slide: 1, Line: 1, Text: "intro"},
				{Kind: ItemBlock, Slide: 2, Block: &VisualBlock{Line: 3}},
				{Kind: ItemBlock, Slide: 2, Block: &VisualBlock{Line: 5}},
				{Kind: ItemBlock, Slide: 3, Block: &VisualBlock{Line: 7}},
			},
		},
		{
			name:  "empty sequence",
			items: nil,
		},
		{
			name: "decreasing slide numbers",
			items: Items{
				{Kind: ItemBlock, Slide: 3, Block: &VisualBlock{Line: 1}},
				{Kind: ItemBlock, Slide: 2, Block: &VisualBlock{Line: 3}},
			},
			wantErr: "decreases",
		},
		{
			name: "block item without block",
			items: Items{
				{Kind: ItemBlock, Slide: 1},
			},
			wantErr: "without block",
		},
		{
			name: "line item with block",
			items: Items{
				{Kind: ItemLine, Slide: 1, Line: 1, Text: "x", Block: &VisualBlock{Line: 1}},
			},
			wantErr: "line item with block",
		},
		{
			name: "unknown kind",
			items: Items{
				{Kind: "paragraph", Slide: 1},
			},
			wantErr: "unknown kind",
		},
		{
			name: "nil item",
			items: Items{
				nil,
			},
			wantErr: "nil item",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.items.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil {
				t.Fatal("want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("want error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestItemString(t *testing.T) {
	block := &Item{
		Kind:  ItemBlock,
		Slide: 2,
		Block: &VisualBlock{
			Line: 1,
			Contents: []*Content{
				{Kind: ContentHeading, Depth: 1, Segments: []*Segment{{Kind: SegmentText, Value: "Title"}}},
				{Kind: ContentParagraph, Segments: []*Segment{{Kind: SegmentText, Value: "body"}}},
			},
		},
	}
	if got := block.String(); got != "Title\nbody" {
		t.Errorf("got %q", got)
	}
	line := &Item{Kind: ItemLine, Slide: 1, Line: 1, Text: "intro"}
	if got := line.String(); got != "intro" {
		t.Errorf("got %q", got)
	}
	var nilItem *Item
	if got := nilItem.String(); got != "" {
		t.Errorf("got %q", got)
	}
}
