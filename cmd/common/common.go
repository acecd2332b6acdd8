package common

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/verse/internal/theme"
)

func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// UserThemes loads theme overrides from path. An empty path means the
// default themes file, which is allowed to be absent; an explicitly given
// path must exist.
func UserThemes(path string) ([]theme.Theme, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultThemesPath()
	}
	themes, err := theme.LoadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading themes from %s: %w", path, err)
	}
	return themes, nil
}
