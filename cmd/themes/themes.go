package themes

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/verse/cmd/common"
	"github.com/gigurra/verse/internal/theme"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	Themes string `optional:"true" help:"Extra themes file (YAML). Defaults to themes.yaml in the config dir."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "themes",
		Short: "List available color themes",
		Long: `List the built-in color themes plus any user themes.

User themes come from a YAML file (default: themes.yaml in the config dir)
and may override built-ins by reusing their name.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "themes: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	user, err := common.UserThemes(params.Themes)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Background", "Accents", "Text", ""})

	for _, th := range theme.All(user) {
		mark := ""
		if th.Name == theme.DefaultName {
			mark = "default"
		}
		t.AppendRow(table.Row{
			th.Name,
			swatch(th.BgFrom) + swatch(th.BgTo),
			swatch(th.AccentA) + swatch(th.AccentB),
			swatch(th.Text),
			mark,
		})
	}
	t.Render()
	return nil
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("   ")
}
