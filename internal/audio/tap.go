package audio

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// Tap is a streamer that passes audio through while keeping a mono mix of
// the most recent samples in a ring buffer for spectrum analysis. The tap
// itself lives as long as the speaker; the source it reads from is swapped
// per song under speaker.Lock.
type Tap struct {
	mu  sync.Mutex
	src beep.Streamer
	buf []float64
	pos int
}

func NewTap(size int) *Tap {
	return &Tap{buf: make([]float64, size)}
}

// SetSource attaches the current song's streamer. Call with the speaker
// locked so the audio goroutine never sees the swap mid-stream.
func (t *Tap) SetSource(s beep.Streamer) {
	t.mu.Lock()
	t.src = s
	t.mu.Unlock()
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	t.mu.Lock()
	src := t.src
	t.mu.Unlock()
	if src == nil {
		return 0, false
	}

	n, ok := src.Stream(samples)

	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % len(t.buf)
	}
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error {
	t.mu.Lock()
	src := t.src
	t.mu.Unlock()
	if src == nil {
		return nil
	}
	return src.Err()
}

// Samples returns the latest n captured samples in chronological order.
func (t *Tap) Samples(n int) []float64 {
	if n > len(t.buf) {
		n = len(t.buf)
	}
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + len(t.buf)) % len(t.buf)
	for i := range n {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	t.mu.Unlock()
	return out
}
