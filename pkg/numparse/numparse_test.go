package numparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"empty", "", 0.0},
		{"plain integer", "123", 123.0},
		{"decimal comma", "12,50", 12.5},
		{"decimal point", "12.50", 12.5},
		{"thousands space", "1 234 567", 1234567.0},
		{"non-breaking space", "1 234,56", 1234.56},
		{"narrow non-breaking space", "12 345", 12345.0},
		{"percent sign", "3,25%", 3.25},
		{"signed positive", "+2,10%", 2.1},
		{"negative variation", "-4,31%", -4.31},
		{"market closed marker", "--", 0.0},
		{"lone dash", "-", 0.0},
		{"garbage", "n/a", 0.0},
		{"trailing junk", "12,3abc", 0.0},
		{"whitespace only", "   ", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Parse(tt.raw), 1e-9)
		})
	}
}
