package main

import (
	"flag"
	"fmt"
	"image/color"
	"strings"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/config"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/session"
	"github.com/example/sketchpad/internal/theme"
)

// brushFlags are the session settings shared by open and render. Zero values
// mean "use the config".
type brushFlags struct {
	width        float64
	colorSpec    string
	toolName     string
	canvasWidth  int
	canvasHeight int
}

func (b *brushFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&b.width, "width", 0, "initial stroke width (clamped to the configured range)")
	fs.StringVar(&b.colorSpec, "color", "", "initial stroke color: palette name, color name or #RRGGBB")
	fs.StringVar(&b.toolName, "tool", "", "initial tool: line, trace or erase")
	fs.IntVar(&b.canvasWidth, "canvas-width", 0, "canvas width in pixels")
	fs.IntVar(&b.canvasHeight, "canvas-height", 0, "canvas height in pixels")
}

// newSession builds a session from cfg with the flag overrides applied.
func (b *brushFlags) newSession(cfg *config.Config) (*session.Session, error) {
	if cfg == nil {
		cfg = config.New()
	}
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	if b.canvasWidth > 0 {
		w = b.canvasWidth
	}
	if b.canvasHeight > 0 {
		h = b.canvasHeight
	}
	col := cfg.Brush.Color
	if b.colorSpec != "" {
		c, err := parseColor(b.colorSpec, cfg.EffectivePalette())
		if err != nil {
			return nil, err
		}
		col = c
	}
	toolName := cfg.Brush.Tool
	if b.toolName != "" {
		toolName = b.toolName
	}
	tool := session.ToolStraightLine
	if toolName != "" {
		t, err := session.ParseTool(toolName)
		if err != nil {
			return nil, err
		}
		tool = t
	}
	width := cfg.Brush.Width
	if b.width != 0 {
		width = b.width
	}
	return session.New(
		session.WithSize(w, h),
		session.WithBackground(cfg.Canvas.Background),
		session.WithWidthRange(cfg.Brush.MinWidth, cfg.Brush.MaxWidth),
		session.WithColor(col),
		session.WithWidth(width),
		session.WithTool(tool),
	), nil
}

// parseColor resolves a palette entry name first, then any color the theme
// parser accepts.
func parseColor(s string, palette []config.PaletteEntry) (color.RGBA, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range palette {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, nil
		}
	}
	c, err := theme.ParseColor(spec)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color: %w", err)
	}
	return c, nil
}

func paletteColors(cfg *config.Config) []appstate.PaletteColor {
	var out []appstate.PaletteColor
	for _, e := range cfg.EffectivePalette() {
		out = append(out, appstate.PaletteColor{Name: e.Name, Color: e.Color})
	}
	return out
}

func (r *root) exportNotifier() export.Notifier {
	if r == nil || r.notifier == nil {
		return nil
	}
	return r.notifier
}
