package podium

import "testing"

func TestParseSizePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    SizePreset
		wantErr bool
	}{
		{"S", SizeS, false},
		{"M", SizeM, false},
		{"L", SizeL, false},
		{"", SizeM, false},
		{"XL", "", true},
		{"m", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSizePreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSizePreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSizePreset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSizePresetSizes(t *testing.T) {
	tests := []struct {
		preset      SizePreset
		scale       int
		wantHeading float64
		wantBody    float64
	}{
		{SizeM, 100, 36, 20},
		{SizeM, 50, 18, 10},
		{SizeS, 100, 28, 16},
		{SizeL, 100, 48, 28},
		{SizeL, 50, 24, 14},
		{"", 100, 36, 20}, // unknown preset falls back to M
	}
	for _, tt := range tests {
		heading, body := tt.preset.Sizes(tt.scale)
		if heading != tt.wantHeading || body != tt.wantBody {
			t.Errorf("%q.Sizes(%d) = %f, %f; want %f, %f", tt.preset, tt.scale, heading, body, tt.wantHeading, tt.wantBody)
		}
	}
}
