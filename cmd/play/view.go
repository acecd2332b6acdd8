package play

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/verse/internal/audio"
	"github.com/gigurra/verse/internal/lyrics"
	"github.com/gigurra/verse/internal/scene"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	canvas := m.sc.Draw(time.Since(m.start).Seconds(), m.energy)
	rows := canvas.Rows()

	prev, next := m.track.Neighbors(m.activeIdx)
	active := m.track.Line(m.activeIdx)

	mid := len(rows) / 2
	if (prev != "" || active != "" || next != "") && mid >= 1 && mid+1 < len(rows) {
		dim := m.pal.Text.BlendRgb(colorful.Color{}, 0.45)
		fg := m.pal.Text.BlendRgb(m.pal.AccentA, 0.5*clamp01(m.glow))
		rows[mid-1] = overlayRow(canvas, mid-1, prev, dim, false)
		rows[mid] = overlayRow(canvas, mid, active, fg, true)
		rows[mid+1] = overlayRow(canvas, mid+1, next, dim, false)
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.hud {
		b.WriteString(m.hudLine())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// overlayRow rebuilds one character row with text composited over the
// scene: every cell keeps the cell-averaged canvas color as background,
// the text is centered and drawn in fg.
func overlayRow(c *scene.Canvas, row int, text string, fg colorful.Color, bold bool) string {
	w := c.W
	if runewidth.StringWidth(text) > w {
		text = runewidth.Truncate(text, w, "…")
	}
	start := (w - runewidth.StringWidth(text)) / 2
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	if bold {
		b.WriteString("\x1b[1m")
	}
	fr, fgr, fb := fg.Clamped().RGB255()
	fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", fr, fgr, fb)

	runes := []rune(text)
	nextRune := 0
	haveBG := false
	var br, bgc, bb uint8
	for x := 0; x < w; {
		cr, cg, cb := c.CellBG(x, row).RGB255()
		if !haveBG || cr != br || cg != bgc || cb != bb {
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", cr, cg, cb)
			br, bgc, bb = cr, cg, cb
			haveBG = true
		}
		if x >= start && nextRune < len(runes) {
			r := runes[nextRune]
			nextRune++
			b.WriteRune(r)
			x += max(runewidth.RuneWidth(r), 1)
		} else {
			b.WriteByte(' ')
			x++
		}
	}
	b.WriteString("\x1b[0m")
	return b.String()
}

func (m model) statusLine() string {
	cur := m.player.Current()

	label := m.meta.Title
	if label == "" && cur != nil {
		label = cur.Name
	}
	if m.meta.Artist != "" {
		label += " - " + m.meta.Artist
	}
	if m.finished {
		label = "queue finished"
	}

	state := "■"
	switch {
	case m.player.Playing():
		state = "▶"
	case m.player.Paused():
		state = "⏸"
	}

	queue := ""
	if n := m.player.QueueLen(); n > 1 {
		queue = fmt.Sprintf(" [%d/%d]", m.player.QueueIndex()+1, n)
	}

	pos := m.player.Position().Seconds()
	dur := m.player.Duration().Seconds()

	vol := "muted"
	if db := m.player.VolumeDB(); !math.IsInf(db, -1) {
		vol = fmt.Sprintf("%+.1f dB", db)
	}

	line := fmt.Sprintf(" %s %s%s  %s %s  %s  %s",
		state, label, queue, audio.FormatClock(pos, dur), seekBar(pos, dur, 20), vol, m.pal.Name)
	if runewidth.StringWidth(line) > m.width {
		line = runewidth.Truncate(line, m.width, "…")
	}
	return statusStyle.Render(line)
}

// seekBar renders a fixed-width progress bar, all-empty when the duration
// is unknown.
func seekBar(pos, dur float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := 0
	if dur > 0 && !math.IsInf(dur, 0) && !math.IsNaN(dur) {
		frac := clamp01(pos / dur)
		filled = int(frac * float64(width))
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m model) hudLine() string {
	sync := "plain"
	if m.track.Synced() {
		sync = "synced"
	}
	if m.track.Len() == 0 {
		sync = "none"
	}
	return hudStyle.Render(fmt.Sprintf(" fps %.1f  frame %.1fms  cpu %.1f%%  rss %.0fMB  energy %.2f  lyrics %s  watch %v  line %d/%d",
		m.fpsVal, float64(m.frameDur.Microseconds())/1000.0, m.cpuPct, m.rssMB, m.energy,
		sync, m.watching, displayIndex(m.activeIdx), m.track.Len()))
}

// displayIndex renders the active index 1-based, 0 meaning "before the
// first line".
func displayIndex(idx int) int {
	if idx == lyrics.None {
		return 0
	}
	return idx + 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
