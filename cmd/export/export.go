package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/gigurra/verse/cmd/common"
	"github.com/gigurra/verse/internal/lyrics"
	"github.com/spf13/cobra"
)

var clipboardWriteAll = clipboard.WriteAll

type Params struct {
	File   string `pos:"true" required:"true" help:"Lyric file (.lrc or plain text)."`
	Title  string `optional:"true" help:"Song title. Defaults to LRC metadata, then the file name."`
	Artist string `optional:"true" help:"Artist name. Defaults to LRC metadata."`
	Out    string `short:"o" optional:"true" help:"Write the document to a file instead of standard output."`
	Clip   bool   `short:"c" optional:"true" help:"Copy the document to the system clipboard."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "export <lyric file>",
		Short: "Export lyrics as a shareable text document",
		Long: `Export the lyrics of a song as a plain-text document.

Synced lyrics are exported in time order with their timing tags stripped;
plain lyrics keep their original line order. Title and artist are taken
from flags, then from LRC metadata tags, then from the file name.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "export: %v\n", err)
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
	meta := lyrics.Metadata(string(raw))
	doc := lyrics.Document(resolveTitle(params, meta), resolveArtist(params, meta), track.ExportLines())

	switch {
	case params.Clip:
		if err := clipboardWriteAll(doc); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
	case params.Out != "":
		if err := os.WriteFile(params.Out, []byte(doc+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", params.Out, err)
		}
	default:
		fmt.Fprintln(stdout, doc)
	}
	return nil
}

func resolveTitle(params *Params, meta lyrics.Meta) string {
	if params.Title != "" {
		return params.Title
	}
	if meta.Title != "" {
		return meta.Title
	}
	base := filepath.Base(params.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func resolveArtist(params *Params, meta lyrics.Meta) string {
	if params.Artist != "" {
		return params.Artist
	}
	if meta.Artist != "" {
		return meta.Artist
	}
	return "Unknown"
}
