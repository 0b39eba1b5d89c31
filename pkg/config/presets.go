package config

import (
	"embed"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/matzehuels/maskgen/pkg/errors"
)

//go:embed presets/*.toml
var presetFS embed.FS

// Preset describes a built-in design.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Devices     int    `json:"devices"`
}

// PresetNames returns the built-in design names, sorted.
func PresetNames() []string {
	entries, _ := presetFS.ReadDir("presets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Presets lists the built-in designs with their expanded device counts.
func Presets() ([]Preset, error) {
	var out []Preset
	for _, name := range PresetNames() {
		d, err := LoadPreset(name)
		if err != nil {
			return nil, err
		}
		specs, err := d.Expand()
		if err != nil {
			return nil, err
		}
		out = append(out, Preset{Name: name, Description: d.Description, Devices: len(specs)})
	}
	return out, nil
}

// PresetSource returns the TOML text of a built-in design.
func PresetSource(name string) ([]byte, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".toml"))
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown preset %q (available: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	return data, nil
}

// LoadPreset parses a built-in design.
func LoadPreset(name string) (*Design, error) {
	data, err := PresetSource(name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Resolve loads arg as a design file when it exists or ends in .toml, and
// as a preset name otherwise.
func Resolve(arg string) (*Design, error) {
	if _, err := os.Stat(arg); err == nil || strings.HasSuffix(arg, ".toml") {
		return Load(arg)
	}
	return LoadPreset(arg)
}
