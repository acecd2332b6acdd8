package scene

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gigurra/verse/internal/theme"
)

// Particle density bounds; requests outside are clamped, never rejected.
const (
	MinDensity     = 10
	MaxDensity     = 400
	DefaultDensity = 120
)

const (
	fogBlobs    = 6
	fogGain     = 0.14
	glowGain    = 0.85
	jitterScale = 0.9
	drift       = 0.35 // base particle speed in pixels per frame
)

// Per-blob oscillation constants; fixed so fog motion is a pure function
// of elapsed time.
var (
	fogSpeed = [fogBlobs]float64{0.21, 0.17, 0.26, 0.14, 0.19, 0.23}
	fogPhase = [fogBlobs]float64{0, 1.1, 2.3, 3.4, 4.2, 5.6}
)

// Particle is one glowing dot. Positions are in canvas pixels; velocity is
// per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	R      float64
}

// Scene owns the animated background: a vertical gradient, six drifting fog
// blobs, and a field of wrapping particles whose motion and glow react to
// the energy signal.
//
// State rules: the particle field reseeds only when density or canvas
// dimensions actually change; the gradient rebuilds only on palette or
// dimension changes. Theme switches therefore never disturb particle
// positions, and redundant resizes are free.
type Scene struct {
	w, h    int
	density int
	pal     theme.Palette
	rows    []colorful.Color
	parts   []Particle
	canvas  *Canvas
	rng     *rand.Rand
}

// New creates a scene for a canvas of w by h pixels. The seed fixes the
// particle field for reproducibility.
func New(w, h, density int, pal theme.Palette, seed int64) *Scene {
	s := &Scene{
		w:       max(w, 1),
		h:       max(h, 2),
		density: clampDensity(density),
		pal:     pal,
		rng:     rand.New(rand.NewSource(seed)),
	}
	s.canvas = NewCanvas(s.w, s.h)
	s.rebuildGradient()
	s.reseed()
	return s
}

func clampDensity(n int) int {
	return max(MinDensity, min(MaxDensity, n))
}

// Size reports the pixel dimensions.
func (s *Scene) Size() (w, h int) { return s.w, s.h }

// Density reports the clamped particle count.
func (s *Scene) Density() int { return s.density }

// Resize adapts to new pixel dimensions. A call that changes nothing is a
// no-op: the particle field and gradient survive untouched.
func (s *Scene) Resize(w, h int) {
	w, h = max(w, 1), max(h, 2)
	if w == s.w && h == s.h {
		return
	}
	s.w, s.h = w, h
	s.canvas = NewCanvas(w, h)
	s.rebuildGradient()
	s.reseed()
}

// SetDensity changes the particle count, reseeding only when the clamped
// value differs from the current one.
func (s *Scene) SetDensity(n int) {
	n = clampDensity(n)
	if n == s.density {
		return
	}
	s.density = n
	s.reseed()
}

// SetPalette swaps colors. Only the gradient cache rebuilds; particle
// positions and velocities are kept.
func (s *Scene) SetPalette(pal theme.Palette) {
	s.pal = pal
	s.rebuildGradient()
}

func (s *Scene) rebuildGradient() {
	s.rows = make([]colorful.Color, s.h)
	div := float64(max(s.h-1, 1))
	for y := range s.h {
		s.rows[y] = s.pal.BgFrom.BlendRgb(s.pal.BgTo, float64(y)/div)
	}
}

func (s *Scene) reseed() {
	s.parts = make([]Particle, s.density)
	for i := range s.parts {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := drift * (0.4 + s.rng.Float64())
		s.parts[i] = Particle{
			X:  s.rng.Float64() * float64(s.w),
			Y:  s.rng.Float64() * float64(s.h),
			VX: math.Cos(angle) * speed,
			VY: math.Sin(angle) * speed,
			R:  1 + s.rng.Float64()*2.5,
		}
	}
}

// Step advances every particle one frame: base velocity plus energy-scaled
// jitter, then a toroidal wrap so a particle leaving one edge reappears at
// the opposite edge within the same frame.
func (s *Scene) Step(energy float64) {
	jitter := energy * jitterScale
	w, h := float64(s.w), float64(s.h)
	for i := range s.parts {
		p := &s.parts[i]
		p.X += p.VX + (s.rng.Float64()*2-1)*jitter
		p.Y += p.VY + (s.rng.Float64()*2-1)*jitter
		if p.X < 0 {
			p.X = w
		} else if p.X > w {
			p.X = 0
		}
		if p.Y < 0 {
			p.Y = h
		} else if p.Y > h {
			p.Y = 0
		}
	}
}

// Draw renders the frame for elapsed time t (seconds) and the current
// energy: gradient, then fog, then particle glows, all accumulated
// additively and clamped on readout.
func (s *Scene) Draw(t, energy float64) *Canvas {
	c := s.canvas
	c.FillRows(s.rows)
	s.drawFog(c, t, energy)
	s.drawParticles(c, energy)
	return c
}

// drawFog paints the six oscillating blobs. Radius breathes with energy:
// (0.3 + 0.5*energy) of the larger canvas dimension.
func (s *Scene) drawFog(c *Canvas, t, energy float64) {
	w, h := float64(s.w), float64(s.h)
	radius := (0.3 + 0.5*energy) * math.Max(w, h)
	if radius <= 0 {
		return
	}
	for b := range fogBlobs {
		cx := (0.5 + 0.38*math.Sin(t*fogSpeed[b]+fogPhase[b])) * w
		cy := (0.5 + 0.38*math.Cos(t*fogSpeed[b]*0.8+fogPhase[b]*1.7)) * h
		col := s.pal.AccentA
		if b%2 == 1 {
			col = s.pal.AccentB
		}
		stampGlow(c, cx, cy, radius, col, fogGain)
	}
}

// drawParticles stamps each particle's glow, radius scaled by (1 + 2*energy).
func (s *Scene) drawParticles(c *Canvas, energy float64) {
	scale := 1 + 2*energy
	for i := range s.parts {
		p := &s.parts[i]
		col := s.pal.AccentA
		if i%2 == 1 {
			col = s.pal.AccentB
		}
		stampGlow(c, p.X, p.Y, p.R*scale, col, glowGain)
	}
}

// stampGlow adds a soft radial falloff of col around (cx, cy).
func stampGlow(c *Canvas, cx, cy, radius float64, col colorful.Color, gain float64) {
	x0 := max(int(cx-radius), 0)
	x1 := min(int(cx+radius)+1, c.W-1)
	y0 := max(int(cy-radius), 0)
	y1 := min(int(cy+radius)+1, c.H-1)
	for y := y0; y <= y1; y++ {
		dy := float64(y) - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			d := math.Sqrt(dx*dx+dy*dy) / radius
			if d >= 1 {
				continue
			}
			f := 1 - d
			c.Add(x, y, col, gain*f*f)
		}
	}
}
