package audio

import (
	"math"
	"testing"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		elapsed, total float64
		want           string
	}{
		{0, 0, "00:00 / --:--"},
		{0, -10, "00:00 / --:--"},
		{0, math.NaN(), "00:00 / --:--"},
		{0, math.Inf(1), "00:00 / --:--"},
		{65, 125, "01:05 / 02:05"},
		{5.9, 60, "00:05 / 01:00"},
		{-3, 60, "00:00 / 01:00"},
		{3725, 3725, "62:05 / 62:05"},
		{math.NaN(), 60, "00:00 / 01:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.elapsed, tt.total); got != tt.want {
			t.Errorf("FormatClock(%v, %v) = %q, want %q", tt.elapsed, tt.total, got, tt.want)
		}
	}
}
