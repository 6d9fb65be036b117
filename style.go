package podium

import "fmt"

// SizePreset is the user-selected base size for slide text.
type SizePreset string

const (
	SizeS SizePreset = "S"
	SizeM SizePreset = "M"
	SizeL SizePreset = "L"
)

// Base sizes in layout units per preset. The fit scale multiplies
// these into the two size variables the rendering layer sets.
var presetBases = map[SizePreset]struct {
	heading float64
	body    float64
}{
	SizeS: {heading: 28, body: 16},
	SizeM: {heading: 36, body: 20},
	SizeL: {heading: 48, body: 28},
}

// ParseSizePreset parses a preset name, case-sensitive. The empty
// string means SizeM.
func ParseSizePreset(s string) (SizePreset, error) {
	switch SizePreset(s) {
	case SizeS, SizeM, SizeL:
		return SizePreset(s), nil
	case "":
		return SizeM, nil
	default:
		return "", fmt.Errorf("unknown size preset: %q", s)
	}
}

// Sizes returns the heading and body sizes for the preset at a fit
// scale percentage.
func (p SizePreset) Sizes(scalePercent int) (heading, body float64) {
	base, ok := presetBases[p]
	if !ok {
		base = presetBases[SizeM]
	}
	f := float64(scalePercent) / 100
	return base.heading * f, base.body * f
}
