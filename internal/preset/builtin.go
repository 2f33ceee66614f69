package preset

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.toml
var builtinFS embed.FS

// Builtins returns the names of the bundled presets, sorted.
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
		}
	}
	sort.Strings(names)
	return names
}

// Builtin parses the bundled preset called name.
func Builtin(name string) (Preset, error) {
	data, err := builtinFS.ReadFile(path.Join("presets", name+".toml"))
	if err != nil {
		return Preset{}, fmt.Errorf("preset: no builtin %q (have: %s)", name, strings.Join(Builtins(), ", "))
	}
	return Parse(data, "")
}
