package inspect

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/verse/cmd/common"
	"github.com/gigurra/verse/internal/lyrics"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	File string `pos:"true" required:"true" help:"Lyric file (.lrc or plain text)."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "inspect <lyric file>",
		Short: "Show the parsed lyric timeline",
		Long: `Parse a lyric file and print its timeline.

Synced lyrics are listed with their resolved timestamps in the order they
will be shown during playback; plain lyrics are listed in file order.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	raw, err := os.ReadFile(params.File)
	if err != nil {
		return err
	}

	track := lyrics.NewTrack(string(raw), 0)
	if track.Len() == 0 {
		fmt.Fprintf(stdout, "No lyrics found in %s\n", params.File)
		return nil
	}

	meta := lyrics.Metadata(string(raw))
	if meta.Title != "" {
		if meta.Artist != "" {
			fmt.Fprintf(stdout, "%s - %s\n", meta.Artist, meta.Title)
		} else {
			fmt.Fprintln(stdout, meta.Title)
		}
	}
	if meta.Album != "" {
		fmt.Fprintf(stdout, "Album: %s\n", meta.Album)
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)

	if track.Synced() {
		t.AppendHeader(table.Row{"#", "Time", "Lyric"})
		for i, e := range track.Entries() {
			t.AppendRow(table.Row{i + 1, formatTimestamp(e.Time), e.Text})
		}
	} else {
		t.AppendHeader(table.Row{"#", "Lyric"})
		for i, line := range track.ExportLines() {
			t.AppendRow(table.Row{i + 1, line})
		}
	}
	t.Render()

	if track.Synced() {
		entries := track.Entries()
		first := formatTimestamp(entries[0].Time)
		last := formatTimestamp(entries[len(entries)-1].Time)
		fmt.Fprintf(stdout, "%d synced lines, %s to %s\n", track.Len(), first, last)
	} else {
		fmt.Fprintf(stdout, "%d plain lines (no timing tags)\n", track.Len())
	}
	return nil
}

func formatTimestamp(sec float64) string {
	mins := int(sec) / 60
	rem := sec - float64(mins*60)
	return fmt.Sprintf("%02d:%06.3f", mins, rem)
}
