package scene

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is a truecolor pixel buffer with two pixels per character cell:
// each cell renders as ▀ with the upper pixel as foreground and the lower
// as background, doubling the vertical resolution of the terminal.
//
// Colors accumulate additively past full brightness while drawing; they are
// clamped when read out, so overlap glows instead of wrapping.
type Canvas struct {
	W, H int // pixels; H is twice the character row count
	pix  []colorful.Color
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	h -= h % 2
	return &Canvas{W: w, H: h, pix: make([]colorful.Color, w*h)}
}

func (c *Canvas) Set(x, y int, col colorful.Color) {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return
	}
	c.pix[y*c.W+x] = col
}

// Add accumulates col scaled by amount onto the pixel.
func (c *Canvas) Add(x, y int, col colorful.Color, amount float64) {
	if x < 0 || x >= c.W || y < 0 || y >= c.H || amount <= 0 {
		return
	}
	p := &c.pix[y*c.W+x]
	p.R += col.R * amount
	p.G += col.G * amount
	p.B += col.B * amount
}

func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return colorful.Color{}
	}
	return c.pix[y*c.W+x]
}

// FillRows paints each pixel row with rows[y], the per-row background
// gradient. Rows beyond len(rows) keep the last color.
func (c *Canvas) FillRows(rows []colorful.Color) {
	if len(rows) == 0 {
		return
	}
	for y := range c.H {
		col := rows[min(y, len(rows)-1)]
		base := y * c.W
		for x := range c.W {
			c.pix[base+x] = col
		}
	}
}

// CellBG is the clamped mean color of the character cell (its two pixels),
// used as the background when text is overlaid on the animation.
func (c *Canvas) CellBG(col, row int) colorful.Color {
	top, bot := 2*row, 2*row+1
	if col < 0 || col >= c.W || top < 0 || bot >= c.H {
		return colorful.Color{}
	}
	a := c.pix[top*c.W+col]
	b := c.pix[bot*c.W+col]
	return colorful.Color{
		R: (a.R + b.R) / 2,
		G: (a.G + b.G) / 2,
		B: (a.B + b.B) / 2,
	}.Clamped()
}

// Rows renders the canvas as one ANSI string per character row. Escape
// codes are emitted only when the color pair changes along the row; each
// row ends with a reset so nothing bleeds into overlaid chrome.
func (c *Canvas) Rows() []string {
	out := make([]string, c.H/2)
	var b strings.Builder
	for row := range out {
		b.Reset()
		haveState := false
		var fr, fg, fb, br, bg, bb uint8
		for x := range c.W {
			tr, tg, tb := c.At(x, 2*row).Clamped().RGB255()
			lr, lg, lb := c.At(x, 2*row+1).Clamped().RGB255()
			if !haveState || tr != fr || tg != fg || tb != fb {
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", tr, tg, tb)
				fr, fg, fb = tr, tg, tb
			}
			if !haveState || lr != br || lg != bg || lb != bb {
				fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", lr, lg, lb)
				br, bg, bb = lr, lg, lb
			}
			haveState = true
			b.WriteRune('▀')
		}
		b.WriteString("\x1b[0m")
		out[row] = b.String()
	}
	return out
}
