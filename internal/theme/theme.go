package theme

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Theme is the serializable form of a color theme. All colors are hex
// strings ("#rrggbb"), so user theme files stay hand-editable.
type Theme struct {
	Name    string `yaml:"name"`
	BgFrom  string `yaml:"bg_from"`
	BgTo    string `yaml:"bg_to"`
	AccentA string `yaml:"accent_a"`
	AccentB string `yaml:"accent_b"`
	Text    string `yaml:"text"`
}

// Palette is a compiled theme, ready for per-pixel blending.
type Palette struct {
	Name    string
	BgFrom  colorful.Color
	BgTo    colorful.Color
	AccentA colorful.Color
	AccentB colorful.Color
	Text    colorful.Color
}

// DefaultName is the theme used when none is requested.
const DefaultName = "aurora"

func Builtin() []Theme {
	return []Theme{
		{Name: "aurora", BgFrom: "#0b1026", BgTo: "#16324f", AccentA: "#2de2a6", AccentB: "#7a5cff", Text: "#e8f0ff"},
		{Name: "ember", BgFrom: "#1a0e0a", BgTo: "#3b1b12", AccentA: "#ff7a3c", AccentB: "#ffc53c", Text: "#fff3e0"},
		{Name: "tide", BgFrom: "#041f2e", BgTo: "#0a3d4d", AccentA: "#3cc8ff", AccentB: "#2dffc8", Text: "#e0f7ff"},
		{Name: "orchid", BgFrom: "#1c0a26", BgTo: "#3a1452", AccentA: "#ff5cd0", AccentB: "#8a5cff", Text: "#f7e8ff"},
		{Name: "mono", BgFrom: "#000000", BgTo: "#1f1f1f", AccentA: "#c8c8c8", AccentB: "#6e6e6e", Text: "#ffffff"},
	}
}

// Compile parses the theme's hex colors. Invalid hex is a load-time error;
// nothing downstream ever deals with an uncompiled color.
func (t Theme) Compile() (Palette, error) {
	p := Palette{Name: t.Name}
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"bg_from", t.BgFrom, &p.BgFrom},
		{"bg_to", t.BgTo, &p.BgTo},
		{"accent_a", t.AccentA, &p.AccentA},
		{"accent_b", t.AccentB, &p.AccentB},
		{"text", t.Text, &p.Text},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("theme %q: %s: %w", t.Name, f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// LoadFile reads user themes from a YAML file holding a list of themes.
func LoadFile(path string) ([]Theme, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ts []Theme
	if err := yaml.Unmarshal(b, &ts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, t := range ts {
		if t.Name == "" {
			return nil, fmt.Errorf("parse %s: theme without a name", path)
		}
		if _, err := t.Compile(); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// All merges user themes over the builtins. A user theme with a builtin's
// name replaces it in place; new names append in file order.
func All(user []Theme) []Theme {
	out := Builtin()
	for _, u := range user {
		replaced := false
		for i, b := range out {
			if b.Name == u.Name {
				out[i] = u
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, u)
		}
	}
	return out
}

// Resolve compiles the named theme from the merged set.
func Resolve(name string, user []Theme) (Palette, error) {
	for _, t := range All(user) {
		if t.Name == name {
			return t.Compile()
		}
	}
	return Palette{}, fmt.Errorf("unknown theme %q", name)
}
