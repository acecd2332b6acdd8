package lyrics

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// None is the index reported when no lyric line is active: before the first
// synced entry, or anywhere on an unsynced track with unknown duration.
const None = -1

// Track is one song's lyric content in whichever of two forms the source
// text allowed: a timed entry list when any timestamp tag parsed, otherwise
// the plain non-empty lines spread evenly over the track duration.
type Track struct {
	entries  []Entry
	lines    []string
	duration float64
}

// NewTrack derives a track from raw lyric text and the track duration in
// seconds (<= 0 or non-finite means unknown). Tracks carry no playback
// state; re-derive whenever the text or the duration changes.
func NewTrack(raw string, duration float64) Track {
	t := Track{duration: duration}
	t.entries = Parse(raw)
	if len(t.entries) > 0 {
		return t
	}
	for _, line := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			t.lines = append(t.lines, s)
		}
	}
	return t
}

// Synced reports whether the track has a timed entry list.
func (t Track) Synced() bool { return len(t.entries) > 0 }

// Len is the number of displayable lines.
func (t Track) Len() int {
	if t.Synced() {
		return len(t.entries)
	}
	return len(t.lines)
}

// Duration is the track duration handed to NewTrack (unsynced indexing only).
func (t Track) Duration() float64 { return t.duration }

// Entries exposes the timeline for inspection. Empty for unsynced tracks.
func (t Track) Entries() []Entry { return t.entries }

// IndexAt reports which line is active at the given playback position, or
// None. It is a pure lookup over the whole track, recomputed per call, so
// seeking in either direction needs no special handling.
func (t Track) IndexAt(sec float64) int {
	if t.Synced() {
		// First entry strictly after sec; active is the one before it.
		// Yields None while sec still precedes the first entry.
		return sort.Search(len(t.entries), func(i int) bool {
			return t.entries[i].Time > sec
		}) - 1
	}
	return t.spreadIndex(sec)
}

// spreadIndex maps a playback position onto evenly divided line segments.
func (t Track) spreadIndex(sec float64) int {
	if len(t.lines) == 0 || t.duration <= 0 || math.IsInf(t.duration, 0) || math.IsNaN(t.duration) {
		return None
	}
	i := int(math.Floor(sec / (t.duration / float64(len(t.lines)))))
	if i < 0 {
		return 0
	}
	if i >= len(t.lines) {
		return len(t.lines) - 1
	}
	return i
}

// Line returns the text at index i, or "" when i is out of range.
func (t Track) Line(i int) string {
	if i < 0 || i >= t.Len() {
		return ""
	}
	if t.Synced() {
		return t.entries[i].Text
	}
	return t.lines[i]
}

// Neighbors returns the texts flanking index i. The missing side is "" when
// i sits on a boundary, and both are "" when i is None.
func (t Track) Neighbors(i int) (prev, next string) {
	if i <= None || i >= t.Len() {
		return "", ""
	}
	if i > 0 {
		prev = t.Line(i - 1)
	}
	if i < t.Len()-1 {
		next = t.Line(i + 1)
	}
	return prev, next
}

// ExportLines is the text in export order: entry order for synced tracks,
// source order for unsynced ones.
func (t Track) ExportLines() []string {
	if t.Synced() {
		return lo.Map(t.entries, func(e Entry, _ int) string { return e.Text })
	}
	return append([]string{}, t.lines...)
}
