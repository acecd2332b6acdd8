package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// BinCount is the number of spectrum bins exposed to consumers, half
	// the FFT size.
	BinCount = 256

	fftSize = 2 * BinCount

	// dB window mapped onto the 0..255 bin range.
	minDB = -100.0
	maxDB = -30.0

	// Fraction of the previous frame kept when smoothing bin magnitudes.
	smoothing = 0.8

	// BaselineEnergy keeps the visuals breathing before any audio graph
	// exists (nothing loaded, playback never started).
	BaselineEnergy = 0.1
)

// Analyzer turns the tap's sample window into byte-range frequency bins:
// 512-point Hann-windowed FFT, magnitudes smoothed against the previous
// frame, converted to dB and scaled so [-100dB, -30dB] covers 0..255.
type Analyzer struct {
	tap  *Tap
	mu   sync.Mutex
	prev [BinCount]float64
	buf  []float64
}

func NewAnalyzer(tap *Tap) *Analyzer {
	return &Analyzer{tap: tap, buf: make([]float64, fftSize)}
}

// Bins computes the current 256-bin byte spectrum. Each call advances the
// temporal smoothing state, so callers should sample on their own cadence
// and hold the result between calls.
func (a *Analyzer) Bins() []byte {
	samples := a.tap.Samples(fftSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.buf)
	copy(a.buf, samples)
	for i := range fftSize {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
		a.buf[i] *= w
	}
	spectrum := fft.FFTReal(a.buf)

	out := make([]byte, BinCount)
	for k := range BinCount {
		mag := cmplx.Abs(spectrum[k]) / fftSize
		sm := smoothing*a.prev[k] + (1-smoothing)*mag
		a.prev[k] = sm

		db := 20 * math.Log10(sm) // -Inf for silence, clamped below
		v := math.Round((db - minDB) / (maxDB - minDB) * 255)
		out[k] = byte(math.Max(0, math.Min(255, v)))
	}
	return out
}

// Energy reduces a bin snapshot to one normalized loudness scalar: the mean
// bin value over 255, clamped to [0, 1]. Pure; safe on any input.
func Energy(bins []byte) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	e := float64(sum) / float64(len(bins)) / 255
	return math.Max(0, math.Min(1, e))
}
