package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/example/sketchpad/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			currentTheme = nil

			if strings.HasPrefix(strings.ToLower(currentSection), "theme.") {
				themeName := currentSection[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		var err error
		if currentTheme != nil {
			err = setThemeField(currentTheme, key, value)
		} else {
			switch strings.ToLower(currentSection) {
			case "":
				err = setRootField(cfg, key, value)
			case "canvas":
				err = setCanvasField(&cfg.Canvas, key, value)
			case "brush":
				err = setBrushField(&cfg.Brush, key, value)
			case "notify":
				err = setNotifyField(&cfg.Notify, key, value)
			case "palette":
				err = addPaletteEntry(cfg, key, value)
			}
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cfg.Brush.MinWidth > cfg.Brush.MaxWidth {
		return nil, fmt.Errorf("[brush]: min_width %g exceeds max_width %g", cfg.Brush.MinWidth, cfg.Brush.MaxWidth)
	}
	return cfg, nil
}

// splitKeyValue accepts "key = value" and "key: value". Quotes around the
// value are stripped.
func splitKeyValue(line string) (string, string, bool) {
	idx := strings.IndexAny(line, "=:")
	if idx < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, key != ""
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "output":
		cfg.Output = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	switch strings.ToLower(key) {
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
		}
		if strings.EqualFold(key, "width") {
			c.Width = n
		} else {
			c.Height = n
		}
	case "background":
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		c.Background = col
	}
	return nil
}

func setBrushField(b *Brush, key, value string) error {
	switch k := strings.ToLower(key); k {
	case "min_width", "max_width", "width":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid %s %q: must be a positive number", key, value)
		}
		switch k {
		case "min_width":
			b.MinWidth = f
		case "max_width":
			b.MaxWidth = f
		default:
			b.Width = f
		}
	case "color":
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		b.Color = col
	case "tool":
		b.Tool = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "save_failed":
		n.SaveFailed = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func addPaletteEntry(cfg *Config, key, value string) error {
	col, err := theme.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for swatch %s: %w", key, err)
	}
	for i := range cfg.Palette {
		if strings.EqualFold(cfg.Palette[i].Name, key) {
			cfg.Palette[i].Color = col
			return nil
		}
	}
	cfg.Palette = append(cfg.Palette, PaletteEntry{Name: key, Color: col})
	return nil
}

func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	col, err := theme.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	t.SetColor(key, col) // unknown fields are ignored
	return nil
}
