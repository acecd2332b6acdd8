package play

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/verse/cmd/common"
	"github.com/gigurra/verse/internal/audio"
	"github.com/gigurra/verse/internal/theme"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Params struct {
	Songs   []string `pos:"true" required:"true" help:"Audio files (.mp3/.wav), played in order."`
	Lyrics  string   `short:"l" optional:"true" help:"Lyric file (.lrc or plain text). Defaults to a .lrc next to each song."`
	Theme   string   `short:"t" optional:"true" default:"aurora" help:"Color theme (see: verse themes)."`
	Themes  string   `optional:"true" help:"Extra themes file (YAML). Defaults to themes.yaml in the config dir."`
	Density int      `short:"d" optional:"true" default:"120" help:"Particle count (clamped to 10..400)."`
	Fps     int      `optional:"true" default:"30" help:"Target frame rate (clamped to 5..60)."`
	Shuffle bool     `short:"s" optional:"true" help:"Shuffle the queue."`
	Watch   bool     `short:"w" optional:"true" default:"true" help:"Reload the lyric file when it changes on disk."`
	Notify  bool     `optional:"true" help:"Send a desktop notification when the queue finishes."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play <audio files...>",
		Short: "Play songs with synced lyrics over an audio-reactive backdrop",
		Long: `Play local audio files with their lyrics composited over an animated,
audio-reactive particle scene.

Lyrics come from --lyrics, or from a .lrc file next to each song. LRC
timestamp tags sync lines to the playback clock; plain text files are
spread evenly across the song instead.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params) error {
	user, err := common.UserThemes(params.Themes)
	if err != nil {
		return err
	}
	pal, err := theme.Resolve(params.Theme, user)
	if err != nil {
		return err
	}

	player := audio.NewPlayer()
	defer player.Close()
	for _, path := range params.Songs {
		song, err := player.Append(path)
		if err != nil {
			return err
		}
		slog.Info("queued", "song", song.Name)
	}
	player.SetShuffle(params.Shuffle)

	// A decode failure downgrades to a silent session: the scene keeps
	// animating on baseline energy and lyrics still display.
	if err := player.Play(); err != nil {
		slog.Error("failed to start playback", "error", err)
	}

	m := newModel(params, player, pal, user)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(model); ok && fm.watcher != nil {
		fm.watcher.Close()
	}
	return err
}

func terminalSize() (w, h int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 100, 30
	}
	return w, h
}
