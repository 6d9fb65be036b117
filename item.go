package podium

import (
	"fmt"

	"github.com/k1LoW/errors"
)

// ItemKind is the kind of a presentation item.
type ItemKind string

const (
	// ItemBlock is a VisualBlock shown on a slide.
	ItemBlock ItemKind = "block"
	// ItemLine is a plain source line with no slide of its own,
	// visible only on the teleprompter surface.
	ItemLine ItemKind = "line"
)

// Item is the finest navigation granularity: one VisualBlock or one
// plain line, carrying the slide number it belongs to.
type Item struct {
	Kind  ItemKind     `json:"kind"`
	Slide int          `json:"slide"`
	Line  int          `json:"line,omitempty"`  // line items
	Text  string       `json:"text,omitempty"`  // line items
	Block *VisualBlock `json:"block,omitempty"` // block items
}

// Items is the full parse output in source order. The index into this
// sequence is the coordinate space the Navigator operates over.
type Items []*Item

// Validate checks the invariants a parser-produced sequence holds:
// slide numbers are non-decreasing and each item carries the fields of
// its kind. A violation is a programming error in the caller, not a
// recoverable runtime case.
func (items Items) Validate() (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	prev := 0
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("item %d: nil item", i)
		}
		if item.Slide < prev {
			return fmt.Errorf("item %d: slide number %d decreases from %d", i, item.Slide, prev)
		}
		prev = item.Slide
		switch item.Kind {
		case ItemBlock:
			if item.Block == nil {
				return fmt.Errorf("item %d: block item without block", i)
			}
		case ItemLine:
			if item.Block != nil {
				return fmt.Errorf("item %d: line item with block", i)
			}
		default:
			return fmt.Errorf("item %d: unknown kind %q", i, item.Kind)
		}
	}
	return nil
}

// String returns the display text of the item.
func (item *Item) String() string {
	if item == nil {
		return ""
	}
	if item.Kind == ItemBlock {
		return item.Block.String()
	}
	return item.Text
}
