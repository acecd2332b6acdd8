package common

import (
	"os"
	"path/filepath"
)

func ConfigDir() string {
	return filepath.Join(configHome(), "verse")
}

func DefaultThemesPath() string {
	return filepath.Join(ConfigDir(), "themes.yaml")
}

// https://specifications.freedesktop.org/basedir/latest/#variables
func configHome() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return dir
}
