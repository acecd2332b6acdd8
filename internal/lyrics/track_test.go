package lyrics

import (
	"math"
	"testing"
)

const syncedText = "[00:10] one\n[00:20] two\n[00:30] three\n[00:40] four"

func TestIndexAt_BeforeFirstIsNone(t *testing.T) {
	track := NewTrack(syncedText, 60)
	for _, sec := range []float64{-5, 0, 9.999} {
		if got := track.IndexAt(sec); got != None {
			t.Errorf("IndexAt(%v) = %d, want None", sec, got)
		}
	}
}

func TestIndexAt_ExactBoundaryActivates(t *testing.T) {
	track := NewTrack(syncedText, 60)
	tests := []struct {
		sec  float64
		want int
	}{
		{10, 0},
		{19.999, 0},
		{20, 1},
		{30, 2},
		{40, 3},
		{4000, 3},
	}
	for _, tt := range tests {
		if got := track.IndexAt(tt.sec); got != tt.want {
			t.Errorf("IndexAt(%v) = %d, want %d", tt.sec, got, tt.want)
		}
	}
}

func TestIndexAt_MonotoneSweep(t *testing.T) {
	track := NewTrack(syncedText, 60)
	prev := None
	for sec := -2.0; sec <= 70; sec += 0.25 {
		got := track.IndexAt(sec)
		if got < prev {
			t.Fatalf("IndexAt(%v) = %d after %d: not monotone", sec, got, prev)
		}
		prev = got
	}
	if prev != track.Len()-1 {
		t.Errorf("sweep ended at %d, want last index %d", prev, track.Len()-1)
	}
}

func TestIndexAt_SeekBackwards(t *testing.T) {
	track := NewTrack(syncedText, 60)
	if got := track.IndexAt(35); got != 2 {
		t.Fatalf("IndexAt(35) = %d, want 2", got)
	}
	// a seek is just another lookup; no cursor to reset
	if got := track.IndexAt(12); got != 0 {
		t.Errorf("IndexAt(12) after reading 35 = %d, want 0", got)
	}
}

func TestIndexAt_Spreader(t *testing.T) {
	track := NewTrack("alpha\nbravo\ncharlie\ndelta", 8)
	if track.Synced() {
		t.Fatal("track without tags should be unsynced")
	}
	tests := []struct {
		sec  float64
		want int
	}{
		{0, 0},
		{2, 1},
		{7.9, 3},
		{100, 3},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := track.IndexAt(tt.sec); got != tt.want {
			t.Errorf("IndexAt(%v) = %d, want %d", tt.sec, got, tt.want)
		}
	}
}

func TestIndexAt_UnknownDurationIsNone(t *testing.T) {
	for _, dur := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		track := NewTrack("alpha\nbravo", dur)
		if got := track.IndexAt(1); got != None {
			t.Errorf("IndexAt(1) with duration %v = %d, want None", dur, got)
		}
	}
}

func TestNewTrack_PlainLinesFallback(t *testing.T) {
	track := NewTrack("  first  \n\nsecond\n   \nthird\n", 30)
	if track.Synced() {
		t.Fatal("plain text should make an unsynced track")
	}
	want := []string{"first", "second", "third"}
	if track.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", track.Len(), len(want))
	}
	for i, w := range want {
		if track.Line(i) != w {
			t.Errorf("Line(%d) = %q, want %q", i, track.Line(i), w)
		}
	}
}

func TestLine_OutOfRange(t *testing.T) {
	track := NewTrack(syncedText, 60)
	for _, i := range []int{None, -7, track.Len(), track.Len() + 3} {
		if got := track.Line(i); got != "" {
			t.Errorf("Line(%d) = %q, want empty", i, got)
		}
	}
}

func TestNeighbors(t *testing.T) {
	track := NewTrack(syncedText, 60)
	tests := []struct {
		i          int
		prev, next string
	}{
		{None, "", ""},
		{0, "", "two"},
		{1, "one", "three"},
		{3, "three", ""},
	}
	for _, tt := range tests {
		prev, next := track.Neighbors(tt.i)
		if prev != tt.prev || next != tt.next {
			t.Errorf("Neighbors(%d) = %q, %q, want %q, %q", tt.i, prev, next, tt.prev, tt.next)
		}
	}
}

func TestNeighbors_SingleLine(t *testing.T) {
	track := NewTrack("[00:05] alone", 60)
	prev, next := track.Neighbors(0)
	if prev != "" || next != "" {
		t.Errorf("Neighbors(0) = %q, %q, want both empty", prev, next)
	}
}
