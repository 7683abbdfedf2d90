// Package session holds the drawing state of one canvas: the raster surface,
// the active tool, colour and width, and the pointer track that joins
// consecutive samples. Pointer events and commands are expected to arrive
// serially from a single event loop.
package session

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/raster"
)

const (
	DefaultCanvasWidth  = 400
	DefaultCanvasHeight = 400
	DefaultMinWidth     = 1
	DefaultMaxWidth     = 25

	// thinBrush is the width below which dots are padded so they stay visible.
	thinBrush    = 3
	thinBrushPad = 2
)

var (
	DefaultBackground = color.RGBA{255, 255, 255, 255}
	DefaultColor      = color.RGBA{0, 0, 0, 255}
)

// WidthRange bounds the stroke width.
type WidthRange struct {
	Min, Max float64
}

// Clamp forces w into the range. NaN maps to Min.
func (r WidthRange) Clamp(w float64) float64 {
	if math.IsNaN(w) || w < r.Min {
		return r.Min
	}
	if w > r.Max {
		return r.Max
	}
	return w
}

// DotDiameter is the size of a particle-trace dot for stroke width w.
func DotDiameter(w float64) float64 {
	if w < thinBrush {
		return w + thinBrushPad
	}
	return w
}

// ToolState is the user-adjustable part of the session.
type ToolState struct {
	Tool  Tool
	Color color.RGBA
	Width float64
}

type pointerTrack struct {
	x, y  float64
	valid bool
}

// Session is a single drawing canvas plus its tool state.
type Session struct {
	surface *raster.Surface
	state   ToolState
	widths  WidthRange
	track   pointerTrack

	imagePath    string
	lastSnapshot *image.RGBA

	onSettingsChange func(ToolState)
}

type config struct {
	width, height int
	background    color.RGBA
	widths        WidthRange
	state         ToolState
	widthSet      bool
	listener      func(ToolState)
}

// Option configures a Session.
type Option func(*config)

// WithSize sets the canvas dimensions.
func WithSize(w, h int) Option { return func(c *config) { c.width, c.height = w, h } }

// WithBackground sets the canvas background and eraser colour.
func WithBackground(col color.Color) Option {
	return func(c *config) { c.background = color.RGBAModel.Convert(col).(color.RGBA) }
}

// WithWidthRange sets the permitted stroke widths. Reversed bounds are
// swapped; a range with a non-finite bound is ignored.
func WithWidthRange(min, max float64) Option {
	return func(c *config) {
		if !finite(min) || !finite(max) {
			return
		}
		if min > max {
			min, max = max, min
		}
		c.widths = WidthRange{Min: min, Max: max}
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// WithColor sets the initial stroke colour.
func WithColor(col color.Color) Option {
	return func(c *config) { c.state.Color = color.RGBAModel.Convert(col).(color.RGBA) }
}

// WithWidth sets the initial stroke width. It is clamped once the range is known.
func WithWidth(w float64) Option {
	return func(c *config) { c.state.Width, c.widthSet = w, true }
}

// WithTool sets the initial tool.
func WithTool(t Tool) Option { return func(c *config) { c.state.Tool = t } }

// WithSettingsListener registers a callback invoked after the tool state changes.
func WithSettingsListener(fn func(ToolState)) Option {
	return func(c *config) { c.listener = fn }
}

// New creates a session with a blank surface.
func New(opts ...Option) *Session {
	c := config{
		width:      DefaultCanvasWidth,
		height:     DefaultCanvasHeight,
		background: DefaultBackground,
		widths:     WidthRange{Min: DefaultMinWidth, Max: DefaultMaxWidth},
		state:      ToolState{Tool: ToolStraightLine, Color: DefaultColor},
	}
	for _, opt := range opts {
		opt(&c)
	}
	if !c.widthSet {
		c.state.Width = c.widths.Min
	}
	c.state.Width = c.widths.Clamp(c.state.Width)
	if !c.state.Tool.Valid() {
		c.state.Tool = ToolStraightLine
	}
	s := &Session{
		surface:          raster.New(c.width, c.height, c.background),
		state:            c.state,
		widths:           c.widths,
		onSettingsChange: c.listener,
	}
	if s.state.Tool == ToolErase {
		s.state.Color = s.surface.Background()
	}
	return s
}

// SelectTool switches the active tool. Selecting ToolErase also sets the
// stroke colour to the background. Unknown tools are ignored.
func (s *Session) SelectTool(t Tool) {
	if !t.Valid() {
		return
	}
	s.state.Tool = t
	if t == ToolErase {
		s.state.Color = s.surface.Background()
	}
	s.notifySettings()
}

// SetStrokeColor sets the colour used by subsequent strokes.
func (s *Session) SetStrokeColor(col color.Color) {
	if col == nil {
		return
	}
	s.state.Color = color.RGBAModel.Convert(col).(color.RGBA)
	s.notifySettings()
}

// SetStrokeWidth sets the stroke width, clamped to the session's range.
func (s *Session) SetStrokeWidth(w float64) {
	s.state.Width = s.widths.Clamp(w)
	s.notifySettings()
}

// PointerDown anchors the pointer track at (x, y).
func (s *Session) PointerDown(x, y float64) {
	s.track = pointerTrack{x: x, y: y, valid: true}
}

// PointerMove paints a dot at (x, y) in particle-trace and erase modes and
// moves the track there. Straight-line mode leaves both surface and track
// untouched.
func (s *Session) PointerMove(x, y float64) {
	switch s.state.Tool {
	case ToolParticleTrace, ToolErase:
		width := s.widths.Clamp(s.state.Width)
		if err := s.surface.FillDot(x, y, DotDiameter(width), s.state.Color); err != nil {
			log.Printf("draw dot: %v", err)
		}
		s.track = pointerTrack{x: x, y: y, valid: true}
	}
}

// PointerUp commits a straight line from the track to (x, y) and ends the
// drag in every mode. A release with no preceding press draws nothing.
func (s *Session) PointerUp(x, y float64) {
	track := s.track
	s.track.valid = false
	if s.state.Tool != ToolStraightLine || !track.valid {
		return
	}
	width := s.widths.Clamp(s.state.Width)
	if err := s.surface.StrokeLine(track.x, track.y, x, y, width, s.state.Color); err != nil {
		log.Printf("draw line: %v", err)
	}
}

// Export snapshots the surface and hands it to e. A declined save dialog
// returns an error matching export.ErrCancelled and leaves the session as it
// was.
func (s *Session) Export(ctx context.Context, e export.Exporter) (export.Result, error) {
	if e == nil {
		return export.Result{}, fmt.Errorf("export: no exporter")
	}
	snap := s.surface.Snapshot()
	s.lastSnapshot = snap
	res, err := e.Export(ctx, snap)
	if err != nil {
		return export.Result{}, fmt.Errorf("export: %w", err)
	}
	s.imagePath = res.URI
	return res, nil
}

// Clear repaints the surface with the background colour and forgets the
// pointer track.
func (s *Session) Clear() {
	s.surface.Clear()
	s.track = pointerTrack{}
}

// Snapshot returns a copy of the current pixels.
func (s *Session) Snapshot() *image.RGBA { return s.surface.Snapshot() }

// At returns the surface pixel at (x, y).
func (s *Session) At(x, y int) color.RGBA { return s.surface.At(x, y) }

func (s *Session) State() ToolState        { return s.state }
func (s *Session) Tool() Tool              { return s.state.Tool }
func (s *Session) StrokeColor() color.RGBA { return s.state.Color }
func (s *Session) StrokeWidth() float64    { return s.state.Width }
func (s *Session) WidthRange() WidthRange  { return s.widths }
func (s *Session) Background() color.RGBA  { return s.surface.Background() }
func (s *Session) Bounds() image.Rectangle { return s.surface.Bounds() }

// ImagePath is the file:// URI of the last successful export, or "".
func (s *Session) ImagePath() string { return s.imagePath }

// LastSnapshot is the image handed to the most recent export attempt.
func (s *Session) LastSnapshot() *image.RGBA { return s.lastSnapshot }

func (s *Session) notifySettings() {
	if s.onSettingsChange != nil {
		s.onSettingsChange(s.state)
	}
}
