package lyrics

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Entry is one timed lyric line: seconds from track start and the text that
// becomes active at that moment.
type Entry struct {
	Time float64
	Text string
}

var (
	tagRe  = regexp.MustCompile(`\[(\d+):(\d+)(?:\.(\d+))?\]`)
	metaRe = regexp.MustCompile(`(?m)^\[(ti|ar|al):([^\]]*)\]\s*$`)
)

// Parse extracts timed entries from timestamp-tagged lyric text.
//
// A tag is [minutes:seconds] or [minutes:seconds.fraction]. A line may carry
// several tags; each yields one entry sharing the line's text, which is the
// line with every tag stripped, trimmed. Lines without tags, and lines whose
// text is empty after stripping, are dropped. A number that fails to parse
// counts as zero. The result is sorted ascending by time; entries with equal
// times keep the order they appeared in.
func Parse(text string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(text, "\n") {
		tags := tagRe.FindAllStringSubmatch(line, -1)
		if len(tags) == 0 {
			continue
		}
		content := strings.TrimSpace(tagRe.ReplaceAllString(line, ""))
		if content == "" {
			continue
		}
		for _, tag := range tags {
			entries = append(entries, Entry{Time: tagSeconds(tag[1], tag[2], tag[3]), Text: content})
		}
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return entries
}

// tagSeconds converts one matched tag to seconds. The fraction is
// milliseconds: right-padded with zeros to three digits, truncated beyond
// three, so ".5" is 500ms and ".1234" is 123ms.
func tagSeconds(minStr, secStr, fracStr string) float64 {
	minutes := atoiOrZero(minStr)
	seconds := atoiOrZero(secStr)
	ms := 0
	if fracStr != "" {
		for len(fracStr) < 3 {
			fracStr += "0"
		}
		ms = atoiOrZero(fracStr[:3])
	}
	return float64(minutes)*60 + float64(seconds) + float64(ms)/1000
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Meta holds the optional LRC header fields.
type Meta struct {
	Title  string
	Artist string
	Album  string
}

// Metadata scans lyric text for [ti:], [ar:] and [al:] header lines. The
// first occurrence of each wins. Header lines carry no numeric tag, so they
// never reach the timeline.
func Metadata(text string) Meta {
	var m Meta
	for _, match := range metaRe.FindAllStringSubmatch(text, -1) {
		val := strings.TrimSpace(match[2])
		switch match[1] {
		case "ti":
			if m.Title == "" {
				m.Title = val
			}
		case "ar":
			if m.Artist == "" {
				m.Artist = val
			}
		case "al":
			if m.Album == "" {
				m.Album = val
			}
		}
	}
	return m
}
