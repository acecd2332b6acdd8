package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/verse/cmd/export"
	"github.com/gigurra/verse/cmd/inspect"
	"github.com/gigurra/verse/cmd/play"
	"github.com/gigurra/verse/cmd/themes"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "verse",
		Short:   "Terminal lyric player with an audio-reactive backdrop",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			export.Cmd(),
			inspect.Cmd(),
			themes.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
