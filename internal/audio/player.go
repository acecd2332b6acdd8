package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

var (
	ErrQueueEmpty        = errors.New("queue is empty")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// State is the coarse playback state.
type State string

const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

const speakerRate = beep.SampleRate(44100)

// Volume is expressed as a power-of-two exponent: 0 is unity gain, -1 half
// amplitude, +1 double.
const (
	volumeBase = 2.0
	volumeMin  = -6.0
	volumeMax  = 2.0
	volumeStep = 0.25
)

// Song is one queued audio file, held fully in memory so playback never
// touches the disk again after loading.
type Song struct {
	ID   string
	Name string
	Path string
	Data []byte
}

// LoadSong reads an mp3 or wav file into memory. Only the extension is
// checked here; decode problems surface when the song starts.
func LoadSong(path string) (*Song, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp3" && ext != ".wav" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Song{
		ID:   uuid.NewString(),
		Name: strings.TrimSuffix(filepath.Base(path), ext),
		Path: path,
		Data: data,
	}, nil
}

// Player owns the speaker, the spectrum tap and a queue of songs. The
// speaker and the analysis graph are built exactly once, lazily, when the
// first song starts; Close is the matching teardown. The decoded stream,
// resampler, volume and pause control are rebuilt per song and wired
// through the long-lived tap.
type Player struct {
	mu sync.Mutex

	queue   []*Song
	order   []int // playback order as queue indices, reshuffled on demand
	pos     int   // position in order; -1 before the first start
	shuffle bool
	state   State

	// Bumped per started song so a finish callback from a song the user
	// already skipped away from is ignored.
	playbackID uint64

	initialized bool
	tap         *Tap
	analyzer    *Analyzer

	streamer beep.StreamSeekCloser
	format   beep.Format
	vol      *effects.Volume
	ctrl     *beep.Ctrl

	volExp float64
	muted  bool

	queueDone func()
}

func NewPlayer() *Player {
	return &Player{pos: -1, state: StateStopped}
}

// SetQueueDoneFunc registers a callback fired (on its own goroutine) when
// the last queued song finishes on its own.
func (p *Player) SetQueueDoneFunc(f func()) {
	p.mu.Lock()
	p.queueDone = f
	p.mu.Unlock()
}

// Append loads a file and adds it to the end of the queue.
func (p *Player) Append(path string) (*Song, error) {
	song, err := LoadSong(path)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.queue = append(p.queue, song)
	p.order = append(p.order, len(p.queue)-1)
	p.mu.Unlock()
	return song, nil
}

// Play resumes paused playback, or starts the current queue position.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return ErrQueueEmpty
	}
	if p.state == StatePaused {
		p.setPausedLocked(false)
		p.state = StatePlaying
		return nil
	}
	if p.state == StatePlaying {
		return nil
	}
	if p.pos < 0 {
		p.pos = 0
	}
	return p.startLocked()
}

// Toggle pauses when playing, otherwise plays.
func (p *Player) Toggle() error {
	p.mu.Lock()
	if p.state == StatePlaying {
		p.setPausedLocked(true)
		p.state = StatePaused
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.Play()
}

// Pause suspends playback, keeping the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StatePlaying {
		p.setPausedLocked(true)
		p.state = StatePaused
	}
}

// Stop ends playback and rewinds the queue position to the start.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.pos = -1
}

// Next moves to the next song, wrapping at the end. Playback continues only
// if something was already playing.
func (p *Player) Next() error { return p.step(1) }

// Previous moves to the previous song, wrapping at the start.
func (p *Player) Previous() error { return p.step(-1) }

func (p *Player) step(delta int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return ErrQueueEmpty
	}
	wasPlaying := p.state == StatePlaying
	p.pos += delta
	if p.pos >= len(p.order) {
		p.pos = 0
	}
	if p.pos < 0 {
		p.pos = len(p.order) - 1
	}
	if wasPlaying {
		return p.startLocked()
	}
	p.stopLocked()
	return nil
}

// startLocked decodes the song at the current queue position and hands the
// chain decode → resample → volume → tap → ctrl to the speaker.
func (p *Player) startLocked() error {
	p.stopLocked()

	song := p.queue[p.order[p.pos]]
	streamer, format, err := decode(song.Data, strings.ToLower(filepath.Ext(song.Path)))
	if err != nil {
		return fmt.Errorf("decode %s: %w", song.Path, err)
	}

	if err := p.ensureGraphLocked(); err != nil {
		streamer.Close()
		return err
	}

	p.streamer = streamer
	p.format = format
	resampled := beep.Resample(4, format.SampleRate, speakerRate, streamer)
	p.vol = &effects.Volume{Streamer: resampled, Base: volumeBase, Volume: p.volExp, Silent: p.muted}

	speaker.Lock()
	p.tap.SetSource(p.vol)
	speaker.Unlock()

	p.ctrl = &beep.Ctrl{Streamer: p.tap}

	p.playbackID++
	id := p.playbackID
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		// Runs on the speaker goroutine; hop off before taking p.mu.
		go p.onSongDone(id)
	})))

	p.state = StatePlaying
	return nil
}

// onSongDone advances the queue when a song drains naturally, stopping (and
// firing the queue-done callback) after the last one.
func (p *Player) onSongDone(id uint64) {
	p.mu.Lock()

	if id != p.playbackID {
		p.mu.Unlock()
		return
	}
	if p.pos+1 < len(p.order) {
		p.pos++
		err := p.startLocked()
		p.mu.Unlock()
		if err != nil {
			p.Stop()
		}
		return
	}

	p.stopLocked()
	p.pos = -1
	done := p.queueDone
	p.mu.Unlock()
	if done != nil {
		go done()
	}
}

// ensureGraphLocked builds the process-wide audio graph on first use: the
// speaker at 44.1kHz plus the tap/analyzer pair every song streams through.
func (p *Player) ensureGraphLocked() error {
	if p.initialized {
		return nil
	}
	if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.tap = NewTap(fftSize)
	p.analyzer = NewAnalyzer(p.tap)
	p.initialized = true
	return nil
}

func (p *Player) setPausedLocked(paused bool) {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *Player) stopLocked() {
	// Invalidate any in-flight finish callback before dropping the chain,
	// or a drained Seq could advance the queue we just stopped.
	p.playbackID++
	if p.initialized {
		speaker.Clear()
		speaker.Lock()
		p.tap.SetSource(nil)
		speaker.Unlock()
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.vol = nil
	p.state = StateStopped
}

// Seek jumps to an absolute position in the current song, clamped to its
// bounds.
func (p *Player) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return nil
	}
	speaker.Lock()
	defer speaker.Unlock()

	n := p.format.SampleRate.N(d)
	if n < 0 {
		n = 0
	}
	if total := p.streamer.Len(); n > total {
		n = total
	}
	return p.streamer.Seek(n)
}

// SeekBy moves relative to the current position.
func (p *Player) SeekBy(delta time.Duration) error {
	return p.Seek(p.Position() + delta)
}

// Position is the playback position within the current song.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(n)
}

// Duration is the current song's length, 0 when nothing is loaded.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// SetShuffle reorders upcoming playback. The current song keeps playing and
// stays current.
func (p *Player) SetShuffle(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if on == p.shuffle {
		return
	}
	p.shuffle = on

	current := -1
	if p.pos >= 0 && p.pos < len(p.order) {
		current = p.order[p.pos]
	}

	p.order = make([]int, len(p.queue))
	for i := range p.order {
		p.order[i] = i
	}
	if on {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		r.Shuffle(len(p.order), func(i, j int) {
			p.order[i], p.order[j] = p.order[j], p.order[i]
		})
	}
	for i, qi := range p.order {
		if qi == current {
			p.pos = i
			break
		}
	}
}

func (p *Player) Shuffled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffle
}

// Current returns the song at the queue position, nil when the queue is
// empty or already drained.
func (p *Player) Current() *Song {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pos < 0 || p.pos >= len(p.order) {
		return nil
	}
	return p.queue[p.order[p.pos]]
}

func (p *Player) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// QueueIndex is the 0-based position in play order, -1 before the first
// start and after the queue drains.
func (p *Player) QueueIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StatePlaying
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StatePaused
}

// VolumeUp raises the gain one step, lifting a mute.
func (p *Player) VolumeUp() { p.adjustVolume(volumeStep) }

// VolumeDown lowers the gain one step, muting at the floor.
func (p *Player) VolumeDown() { p.adjustVolume(-volumeStep) }

func (p *Player) adjustVolume(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volExp = math.Max(volumeMin, math.Min(volumeMax, p.volExp+delta))
	p.muted = p.volExp <= volumeMin
	if p.vol != nil {
		speaker.Lock()
		p.vol.Volume = p.volExp
		p.vol.Silent = p.muted
		speaker.Unlock()
	}
}

// VolumeDB reports the gain in decibels for display. Muted reads as -Inf.
func (p *Player) VolumeDB() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.muted {
		return math.Inf(-1)
	}
	return 20 * math.Log10(math.Pow(volumeBase, p.volExp))
}

// Energy is the current normalized loudness. Before any audio graph exists
// it reports BaselineEnergy so dependent visuals keep moving.
func (p *Player) Energy() float64 {
	p.mu.Lock()
	an := p.analyzer
	p.mu.Unlock()

	if an == nil {
		return BaselineEnergy
	}
	return Energy(an.Bins())
}

// Bins exposes the raw byte spectrum, nil before the graph exists.
func (p *Player) Bins() []byte {
	p.mu.Lock()
	an := p.analyzer
	p.mu.Unlock()

	if an == nil {
		return nil
	}
	return an.Bins()
}

// Close stops playback and tears down the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.initialized {
		speaker.Close()
		p.initialized = false
		p.tap = nil
		p.analyzer = nil
	}
}

func decode(data []byte, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	r := nopCloser{bytes.NewReader(data)}
	switch ext {
	case ".mp3":
		return mp3.Decode(r)
	case ".wav":
		return wav.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// nopCloser lets an in-memory reader satisfy the decoders' closer-seeker
// expectations.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
