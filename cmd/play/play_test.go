package play

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/gigurra/verse/internal/lyrics"
	"github.com/gigurra/verse/internal/scene"
	"github.com/gigurra/verse/internal/theme"
	"github.com/lucasb-eyer/go-colorful"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func mustPalette(t *testing.T, name string) theme.Palette {
	t.Helper()
	pal, err := theme.Resolve(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	return pal
}

func TestClampFps(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{0, 5},
		{-10, 5},
		{5, 5},
		{30, 30},
		{60, 60},
		{61, 60},
		{144, 60},
	}

	for _, tt := range tests {
		if got := clampFps(tt.in); got != tt.expected {
			t.Errorf("clampFps(%d) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"/a/b/song.mp3", "/a/b/song.lrc"},
		{"tune.wav", "tune.lrc"},
		{"noext", "noext.lrc"},
		{"/x/y.z/track.mp3", "/x/y.z/track.lrc"},
	}

	for _, tt := range tests {
		if got := sidecarPath(tt.in); got != tt.expected {
			t.Errorf("sidecarPath(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestSeekBar(t *testing.T) {
	tests := []struct {
		pos, dur float64
		width    int
		expected string
	}{
		{0, 0, 10, "░░░░░░░░░░"},
		{30, 60, 10, "█████░░░░░"},
		{60, 60, 10, "██████████"},
		{90, 60, 10, "██████████"},
		{-5, 60, 10, "░░░░░░░░░░"},
		{10, math.NaN(), 10, "░░░░░░░░░░"},
		{10, math.Inf(1), 10, "░░░░░░░░░░"},
	}

	for _, tt := range tests {
		if got := seekBar(tt.pos, tt.dur, tt.width); got != tt.expected {
			t.Errorf("seekBar(%v, %v, %d) = %q, want %q", tt.pos, tt.dur, tt.width, got, tt.expected)
		}
	}
}

func TestSeekBar_MinimumWidth(t *testing.T) {
	if got := seekBar(0, 0, 1); got != "░░" {
		t.Errorf("seekBar(0, 0, 1) = %q, want two cells", got)
	}
}

func TestOverlayRow_CentersText(t *testing.T) {
	c := scene.NewCanvas(10, 2)
	white := colorful.Color{R: 1, G: 1, B: 1}

	out := overlayRow(c, 0, "hi", white, true)
	plain := stripANSI(out)

	if plain != "    hi    " {
		t.Errorf("overlayRow visible text = %q, want %q", plain, "    hi    ")
	}
	if !strings.Contains(out, "\x1b[1m") {
		t.Errorf("overlayRow bold output missing bold escape: %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Errorf("overlayRow output does not end with a reset: %q", out)
	}
}

func TestOverlayRow_TruncatesWideText(t *testing.T) {
	c := scene.NewCanvas(4, 2)
	white := colorful.Color{R: 1, G: 1, B: 1}

	plain := stripANSI(overlayRow(c, 0, "abcdefgh", white, false))
	if plain != "abc…" {
		t.Errorf("overlayRow visible text = %q, want %q", plain, "abc…")
	}
}

func TestOverlayRow_EmptyTextIsABlankBand(t *testing.T) {
	c := scene.NewCanvas(6, 2)

	plain := stripANSI(overlayRow(c, 0, "", colorful.Color{}, false))
	if plain != strings.Repeat(" ", 6) {
		t.Errorf("overlayRow visible text = %q, want all spaces", plain)
	}
}

func TestThemeNames_Builtins(t *testing.T) {
	got := themeNames(nil)
	want := []string{"aurora", "ember", "tide", "orchid", "mono"}
	if len(got) != len(want) {
		t.Fatalf("themeNames(nil) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("themeNames(nil)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestThemeNames_UserAppendsAndOverridesInPlace(t *testing.T) {
	user := []theme.Theme{
		{Name: "aurora", BgFrom: "#000000", BgTo: "#111111", AccentA: "#222222", AccentB: "#333333", Text: "#ffffff"},
		{Name: "glacier", BgFrom: "#001020", BgTo: "#002040", AccentA: "#40c0ff", AccentB: "#80e0ff", Text: "#f0ffff"},
	}
	got := themeNames(user)
	if got[0] != "aurora" {
		t.Errorf("themeNames(user)[0] = %q, want overridden aurora to stay first", got[0])
	}
	if got[len(got)-1] != "glacier" {
		t.Errorf("themeNames(user) last = %q, want appended glacier", got[len(got)-1])
	}
	if len(got) != 6 {
		t.Errorf("themeNames(user) has %d names, want 6", len(got))
	}
}

func TestCycleTheme_AdvancesAndWraps(t *testing.T) {
	pal := mustPalette(t, "aurora")
	m := model{
		themes: themeNames(nil),
		pal:    pal,
		sc:     scene.New(10, 4, 50, pal, 1),
	}

	m = m.cycleTheme()
	if m.pal.Name != "ember" {
		t.Errorf("cycleTheme moved to %q, want ember", m.pal.Name)
	}

	m.themeIx = len(m.themes) - 1
	m = m.cycleTheme()
	if m.pal.Name != "aurora" {
		t.Errorf("cycleTheme wrap moved to %q, want aurora", m.pal.Name)
	}
}

func TestChromeRows(t *testing.T) {
	m := model{}
	if got := m.chromeRows(); got != 2 {
		t.Errorf("chromeRows() = %d, want 2", got)
	}
	m.hud = true
	if got := m.chromeRows(); got != 3 {
		t.Errorf("chromeRows() with hud = %d, want 3", got)
	}
	m.help.ShowAll = true
	if got := m.chromeRows(); got != 5 {
		t.Errorf("chromeRows() with hud+full help = %d, want 5", got)
	}
}

func TestDisplayIndex(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{lyrics.None, 0},
		{0, 1},
		{4, 5},
	}

	for _, tt := range tests {
		if got := displayIndex(tt.in); got != tt.expected {
			t.Errorf("displayIndex(%d) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}
