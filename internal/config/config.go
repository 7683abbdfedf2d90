package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/sketchpad/internal/theme"
)

// Canvas holds the drawing surface settings.
type Canvas struct {
	Width      int
	Height     int
	Background color.RGBA
}

// Brush holds the initial tool state and the permitted width range.
type Brush struct {
	MinWidth float64
	MaxWidth float64
	Width    float64
	Color    color.RGBA
	Tool     string
}

// Notify holds notification settings.
type Notify struct {
	Save       bool
	SaveFailed bool
	Copy       bool
}

// PaletteEntry is one named swatch in the sidebar.
type PaletteEntry struct {
	Name  string
	Color color.RGBA
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Output  string
	Canvas  Canvas
	Brush   Brush
	Notify  Notify
	Palette []PaletteEntry
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Canvas: Canvas{
			Width:      400,
			Height:     400,
			Background: color.RGBA{255, 255, 255, 255},
		},
		Brush: Brush{
			MinWidth: 1,
			MaxWidth: 25,
			Width:    1,
			Color:    color.RGBA{0, 0, 0, 255},
			Tool:     "line",
		},
		Notify: Notify{
			Save:       false,
			SaveFailed: true,
			Copy:       false,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// DefaultPalette is the swatch set used when the config has no [palette].
func DefaultPalette() []PaletteEntry {
	return []PaletteEntry{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Olive", color.RGBA{128, 128, 0, 255}},
		{"Teal", color.RGBA{0, 128, 128, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Silver", color.RGBA{192, 192, 192, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
}

// EffectivePalette returns the configured palette or the default one.
func (c *Config) EffectivePalette() []PaletteEntry {
	if len(c.Palette) > 0 {
		return c.Palette
	}
	return DefaultPalette()
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Output != "" {
		fmt.Fprintf(&sb, "output = %s\n", c.Output)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", theme.FormatColor(c.Canvas.Background))
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "min_width = %s\n", formatFloat(c.Brush.MinWidth))
	fmt.Fprintf(&sb, "max_width = %s\n", formatFloat(c.Brush.MaxWidth))
	fmt.Fprintf(&sb, "width = %s\n", formatFloat(c.Brush.Width))
	fmt.Fprintf(&sb, "color = %s\n", theme.FormatColor(c.Brush.Color))
	if c.Brush.Tool != "" {
		fmt.Fprintf(&sb, "tool = %s\n", c.Brush.Tool)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "save_failed = %v\n", c.Notify.SaveFailed)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	if len(c.Palette) > 0 {
		sb.WriteString("[palette]\n")
		for _, p := range c.Palette {
			fmt.Fprintf(&sb, "%s = %s\n", p.Name, theme.FormatColor(p.Color))
		}
		sb.WriteString("\n")
	}

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.ColorFields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.FormatColor(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
