package podium

// Slide is one screenful: all block items sharing a slide number, in
// source order. Line items never appear on a slide.
type Slide struct {
	Number int            `json:"number"`
	Blocks []*VisualBlock `json:"blocks,omitempty"`
}

// SlideGroup is the teleprompter view of one slide number: every item
// (block and line) sharing it, in source order.
type SlideGroup struct {
	Number int   `json:"number"`
	Items  Items `json:"items,omitempty"`
}

// ToSlides projects the item sequence to ordered slides. Only block
// items contribute; groups are sorted ascending by slide number.
func (items Items) ToSlides() []*Slide {
	var slides []*Slide
	byNumber := map[int]*Slide{}
	for _, item := range items {
		if item.Kind != ItemBlock {
			continue
		}
		s, ok := byNumber[item.Slide]
		if !ok {
			s = &Slide{Number: item.Slide}
			byNumber[item.Slide] = s
			slides = append(slides, s)
		}
		s.Blocks = append(s.Blocks, item.Block)
	}
	// Parsed sequences are non-decreasing, so first-seen order is
	// already ascending.
	return slides
}

// ToSlideGroups projects the item sequence to per-slide-number groups
// of all items, for the teleprompter surface.
func (items Items) ToSlideGroups() []*SlideGroup {
	var groups []*SlideGroup
	byNumber := map[int]*SlideGroup{}
	for _, item := range items {
		g, ok := byNumber[item.Slide]
		if !ok {
			g = &SlideGroup{Number: item.Slide}
			byNumber[item.Slide] = g
			groups = append(groups, g)
		}
		g.Items = append(g.Items, item)
	}
	return groups
}

// SlideNumbers returns the distinct slide numbers across all items,
// ascending.
func (items Items) SlideNumbers() []int {
	var numbers []int
	seen := map[int]bool{}
	for _, item := range items {
		if !seen[item.Slide] {
			seen[item.Slide] = true
			numbers = append(numbers, item.Slide)
		}
	}
	return numbers
}

// FirstBlockIndex returns the index of the first block item with the
// given slide number.
func (items Items) FirstBlockIndex(number int) (int, bool) {
	for i, item := range items {
		if item.Kind == ItemBlock && item.Slide == number {
			return i, true
		}
	}
	return 0, false
}
