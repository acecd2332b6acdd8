package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir_RespectsXdgConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(string(filepath.Separator), "tmp", "xdg-test"))
	want := filepath.Join(string(filepath.Separator), "tmp", "xdg-test", "verse")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_FallsBackToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	want := filepath.Join(home, ".config", "verse")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestDefaultThemesPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	got := DefaultThemesPath()
	if filepath.Base(got) != "themes.yaml" {
		t.Errorf("DefaultThemesPath() = %q, want a themes.yaml path", got)
	}
	if filepath.Dir(got) != ConfigDir() {
		t.Errorf("DefaultThemesPath() dir = %q, want %q", filepath.Dir(got), ConfigDir())
	}
}

func TestUserThemes_AbsentDefaultFileIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	themes, err := UserThemes("")
	if err != nil {
		t.Fatalf("UserThemes(\"\") returned error: %v", err)
	}
	if themes != nil {
		t.Errorf("UserThemes(\"\") = %v, want nil", themes)
	}
}

func TestUserThemes_AbsentExplicitFileIsAnError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := UserThemes(missing); err == nil {
		t.Errorf("UserThemes(%q) should return error", missing)
	}
}

func TestUserThemes_LoadsExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	yml := `- name: custom
  bg_from: "#000000"
  bg_to: "#111111"
  accent_a: "#ff0000"
  accent_b: "#00ff00"
  text: "#ffffff"
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	themes, err := UserThemes(path)
	if err != nil {
		t.Fatalf("UserThemes(%q) returned error: %v", path, err)
	}
	if len(themes) != 1 || themes[0].Name != "custom" {
		t.Errorf("UserThemes(%q) = %+v, want one theme named custom", path, themes)
	}
}

func TestUserThemes_FindsDefaultFileWhenPresent(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	dir := filepath.Join(cfgHome, "verse")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	yml := `- name: homegrown
  bg_from: "#101010"
  bg_to: "#202020"
  accent_a: "#303030"
  accent_b: "#404040"
  text: "#f0f0f0"
`
	if err := os.WriteFile(filepath.Join(dir, "themes.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	themes, err := UserThemes("")
	if err != nil {
		t.Fatalf("UserThemes(\"\") returned error: %v", err)
	}
	if len(themes) != 1 || themes[0].Name != "homegrown" {
		t.Errorf("UserThemes(\"\") = %+v, want one theme named homegrown", themes)
	}
}
