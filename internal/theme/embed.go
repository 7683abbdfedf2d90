package theme

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// EmbeddedNames lists the built-in theme names.
func EmbeddedNames() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".theme"))
	}
	sort.Strings(names)
	return names
}
