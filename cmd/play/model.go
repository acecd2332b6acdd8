package play

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"
	"github.com/gigurra/verse/internal/audio"
	"github.com/gigurra/verse/internal/lyrics"
	"github.com/gigurra/verse/internal/scene"
	"github.com/gigurra/verse/internal/theme"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	minFps   = 5
	maxFps   = 60
	seekStep = 5 * time.Second
)

type frameMsg time.Time
type energyMsg time.Time
type lyricsChangedMsg struct{}
type queueDoneMsg struct{}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// energyCmd samples the spectrum at ~30 Hz. The chain is armed by play
// actions and deliberately not re-armed once playback stops.
func energyCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return energyMsg(t)
	})
}

func waitQueueDone(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return queueDoneMsg{}
	}
}

// watchLyrics blocks on the watcher until the lyric file is rewritten.
// Watcher errors are swallowed: watching degrades, playback never does.
func watchLyrics(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					return lyricsChangedMsg{}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

type keyMap struct {
	PlayPause key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	Next      key.Binding
	Prev      key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Theme     key.Binding
	Hud       key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		SeekBack:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "seek -5s")),
		SeekFwd:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "seek +5s")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next song")),
		Prev:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous song")),
		VolUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next theme")),
		Hud:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug hud")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.SeekBack, k.SeekFwd},
		{k.Next, k.Prev, k.VolUp},
		{k.VolDown, k.Theme, k.Hud},
		{k.Help, k.Quit},
	}
}

type model struct {
	params *Params
	player *audio.Player

	user    []theme.Theme
	themes  []string
	themeIx int
	pal     theme.Palette

	track     lyrics.Track
	raw       string
	lyricPath string
	songID    string
	meta      lyrics.Meta

	sc            *scene.Scene
	start         time.Time
	width, height int

	activeIdx     int
	glow, glowVel float64
	spring        harmonica.Spring

	energy      float64
	energyArmed bool

	fps           int
	frameInterval time.Duration

	hud       bool
	frames    int
	lastFpsAt time.Time
	fpsVal    float64
	frameDur  time.Duration
	proc      *process.Process
	cpuPct    float64
	rssMB     float64

	watcher  *fsnotify.Watcher
	watching bool
	finished bool

	queueDoneCh chan struct{}

	keys keyMap
	help help.Model
}

func newModel(params *Params, player *audio.Player, pal theme.Palette, user []theme.Theme) model {
	w, h := terminalSize()
	fps := clampFps(params.Fps)

	rows := h - 2
	if rows < 3 {
		rows = 3
	}

	m := model{
		params:        params,
		player:        player,
		user:          user,
		themes:        themeNames(user),
		pal:           pal,
		sc:            scene.New(w, 2*rows, params.Density, pal, time.Now().UnixNano()),
		start:         time.Now(),
		width:         w,
		height:        h,
		activeIdx:     lyrics.None,
		spring:        harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.72),
		energy:        audio.BaselineEnergy,
		energyArmed:   true,
		fps:           fps,
		frameInterval: time.Second / time.Duration(fps),
		lastFpsAt:     time.Now(),
		queueDoneCh:   make(chan struct{}, 1),
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
	m.help.Width = w
	m.themeIx = max(lo.IndexOf(m.themes, pal.Name), 0)

	done := m.queueDoneCh
	player.SetQueueDoneFunc(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.proc = proc
	}
	if params.Watch {
		if watcher, err := fsnotify.NewWatcher(); err == nil {
			m.watcher = watcher
		}
	}

	return m.reloadLyrics()
}

func clampFps(fps int) int {
	return max(minFps, min(maxFps, fps))
}

func themeNames(user []theme.Theme) []string {
	return lo.Map(theme.All(user), func(t theme.Theme, _ int) string {
		return t.Name
	})
}

func sidecarPath(songPath string) string {
	return strings.TrimSuffix(songPath, filepath.Ext(songPath)) + ".lrc"
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		frameCmd(m.frameInterval),
		energyCmd(),
		waitQueueDone(m.queueDoneCh),
	}
	if m.watcher != nil {
		cmds = append(cmds, watchLyrics(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PlayPause):
			_ = m.player.Toggle()
			m.finished = false
			return m.ensureEnergy()
		case key.Matches(msg, m.keys.SeekBack):
			_ = m.player.SeekBy(-seekStep)
		case key.Matches(msg, m.keys.SeekFwd):
			_ = m.player.SeekBy(seekStep)
		case key.Matches(msg, m.keys.Next):
			if err := m.player.Next(); err == nil {
				m = m.reloadLyrics()
				m.finished = false
			}
			return m.ensureEnergy()
		case key.Matches(msg, m.keys.Prev):
			if err := m.player.Previous(); err == nil {
				m = m.reloadLyrics()
				m.finished = false
			}
			return m.ensureEnergy()
		case key.Matches(msg, m.keys.VolUp):
			m.player.VolumeUp()
		case key.Matches(msg, m.keys.VolDown):
			m.player.VolumeDown()
		case key.Matches(msg, m.keys.Theme):
			m = m.cycleTheme()
		case key.Matches(msg, m.keys.Hud):
			m.hud = !m.hud
			m = m.resizeScene()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m = m.resizeScene()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m = m.resizeScene()

	case frameMsg:
		m = m.onFrame()
		return m, frameCmd(m.frameInterval)

	case energyMsg:
		if !m.player.Playing() {
			m.energyArmed = false
			return m, nil
		}
		m.energy = m.player.Energy()
		return m, energyCmd()

	case lyricsChangedMsg:
		m = m.reloadLyrics()
		if m.watcher != nil {
			return m, watchLyrics(m.watcher)
		}

	case queueDoneMsg:
		m.finished = true
		m.energy = audio.BaselineEnergy
		if m.params.Notify {
			_ = beeep.Notify("verse", "Queue finished", "")
		}
		return m, waitQueueDone(m.queueDoneCh)
	}

	return m, nil
}

// ensureEnergy re-arms the energy sampling chain after a play action; the
// chain self-terminates on pause, so this is the only place it restarts.
func (m model) ensureEnergy() (model, tea.Cmd) {
	if m.player.Playing() && !m.energyArmed {
		m.energyArmed = true
		return m, energyCmd()
	}
	return m, nil
}

// onFrame is the per-frame pass: poll the clock, re-derive the active lyric
// index from scratch, advance the spring and the scene.
func (m model) onFrame() model {
	frameStart := time.Now()

	if cur := m.player.Current(); cur != nil && cur.ID != m.songID {
		m = m.reloadLyrics()
	}

	// A plain-text track built before the duration was known spreads as
	// soon as the player can report one.
	if !m.track.Synced() && m.track.Len() > 0 && m.track.Duration() <= 0 {
		if d := m.player.Duration().Seconds(); d > 0 {
			m.track = lyrics.NewTrack(m.raw, d)
		}
	}

	pos := m.player.Position().Seconds()
	if idx := m.track.IndexAt(pos); idx != m.activeIdx {
		m.activeIdx = idx
		m.glow = 1
	}
	m.glow, m.glowVel = m.spring.Update(m.glow, m.glowVel, 0)

	m.sc.Step(m.energy)

	m.frames++
	if since := time.Since(m.lastFpsAt); since >= time.Second {
		m.fpsVal = float64(m.frames) / since.Seconds()
		m.frames = 0
		m.lastFpsAt = frameStart
		m = m.sampleProc()
	}
	m.frameDur = time.Since(frameStart)
	return m
}

// reloadLyrics resolves the lyric file for the current song, re-reads it
// and re-derives the track. Also rewires the file watcher when the path
// changed (per-song sidecar files).
func (m model) reloadLyrics() model {
	cur := m.player.Current()
	if cur != nil {
		m.songID = cur.ID
	}

	path := m.params.Lyrics
	if path == "" && cur != nil {
		path = sidecarPath(cur.Path)
	}

	if m.watcher != nil && path != m.lyricPath {
		if m.lyricPath != "" {
			_ = m.watcher.Remove(m.lyricPath)
		}
		m.watching = false
		if path != "" {
			if err := m.watcher.Add(path); err == nil {
				m.watching = true
			}
		}
	}
	m.lyricPath = path

	m.raw = ""
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			m.raw = string(b)
		}
	}
	m.meta = lyrics.Metadata(m.raw)
	m.track = lyrics.NewTrack(m.raw, m.player.Duration().Seconds())
	m.activeIdx = lyrics.None
	m.glow, m.glowVel = 0, 0
	return m
}

func (m model) cycleTheme() model {
	if len(m.themes) == 0 {
		return m
	}
	m.themeIx = (m.themeIx + 1) % len(m.themes)
	pal, err := theme.Resolve(m.themes[m.themeIx], m.user)
	if err != nil {
		return m
	}
	m.pal = pal
	m.sc.SetPalette(pal)
	return m
}

func (m model) resizeScene() model {
	if m.width <= 0 || m.height <= 0 {
		return m
	}
	rows := m.height - m.chromeRows()
	if rows < 3 {
		rows = 3
	}
	m.sc.Resize(m.width, 2*rows)
	return m
}

// chromeRows is the number of terminal rows below the scene.
func (m model) chromeRows() int {
	n := 2 // status + short help
	if m.hud {
		n++
	}
	if m.help.ShowAll {
		n += 2 // full help lays out as three rows
	}
	return n
}

func (m model) sampleProc() model {
	if m.proc == nil {
		return m
	}
	if pct, err := m.proc.CPUPercent(); err == nil {
		m.cpuPct = pct
	}
	if mi, err := m.proc.MemoryInfo(); err == nil && mi != nil {
		m.rssMB = float64(mi.RSS) / (1024 * 1024)
	}
	return m
}
