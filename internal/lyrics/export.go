package lyrics

import (
	"fmt"
	"strings"
)

// Document renders the plain-text lyric export. Title, artist and every
// line appear verbatim; lines are newline-joined:
//
//	Title: <title>
//	Artist: <artist>
//
//	Lyrics:
//	<line 1>
//	<line 2>
func Document(title, artist string, lines []string) string {
	return fmt.Sprintf("Title: %s\nArtist: %s\n\nLyrics:\n%s", title, artist, strings.Join(lines, "\n"))
}
