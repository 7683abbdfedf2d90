package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchpad/internal/session"
	"github.com/example/sketchpad/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	// StateSelected marks the active tool or colour.
	StateSelected
	numButtonStates
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
// It delegates all interface methods to the wrapped Button while
// caching the result of Draw for each state.
type CacheButton struct {
	Button
	cache [numButtonStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [numButtonStates]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a labelled button running a command such as save.
type ActionButton struct {
	label      string
	rect       image.Rectangle
	th         *theme.Theme
	onActivate func()
}

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	drawLabelButton(dst, b.rect, b.label, b.th, state)
}

func (b *ActionButton) Rect() image.Rectangle { return b.rect }

func (b *ActionButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *ActionButton) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

// ToolButton selects a drawing tool.
type ToolButton struct {
	tool     session.Tool
	rect     image.Rectangle
	th       *theme.Theme
	onSelect func(session.Tool)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	drawLabelButton(dst, tb.rect, tb.tool.Label(), tb.th, state)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.tool)
	}
}

// PaletteColor is a named swatch.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

// SwatchButton sets the stroke colour.
type SwatchButton struct {
	entry    PaletteColor
	rect     image.Rectangle
	th       *theme.Theme
	onSelect func(color.RGBA)
}

func (sb *SwatchButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, sb.rect, &image.Uniform{sb.entry.Color}, image.Point{}, draw.Src)
	switch state {
	case StateHover:
		draw.Draw(dst, sb.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		drawRect(dst, sb.rect, sb.th.SwatchBorder, 1)
	case StateSelected:
		drawRect(dst, sb.rect, sb.th.SwatchSelected, 2)
	default:
		drawRect(dst, sb.rect, sb.th.SwatchBorder, 1)
	}
}

func (sb *SwatchButton) Rect() image.Rectangle { return sb.rect }

func (sb *SwatchButton) SetRect(r image.Rectangle) { sb.rect = r }

func (sb *SwatchButton) Activate() {
	if sb.onSelect != nil {
		sb.onSelect(sb.entry.Color)
	}
}

func drawLabelButton(dst *image.RGBA, r image.Rectangle, label string, th *theme.Theme, state ButtonState) {
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed, StateSelected:
		bg, fg = th.ButtonBackgroundActive, th.ButtonTextActive
	}
	draw.Draw(dst, r, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, r, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13}
	w := d.MeasureString(label).Ceil()
	d.Dot = fixed.P(r.Min.X+(r.Dx()-w)/2, r.Min.Y+(r.Dy()+10)/2)
	d.DrawString(label)
}

// widthSlider maps a horizontal track onto the stroke width range.
type widthSlider struct {
	rect  image.Rectangle
	rng   session.WidthRange
	th    *theme.Theme
	onSet func(float64)
}

const knobWidth = 8

// valueAt converts a window x coordinate to a width, rounded to a whole pixel
// and clamped to the range.
func (s *widthSlider) valueAt(x int) float64 {
	span := s.rect.Dx() - knobWidth
	if span <= 0 {
		return s.rng.Min
	}
	t := float64(x-s.rect.Min.X-knobWidth/2) / float64(span)
	v := s.rng.Min + t*(s.rng.Max-s.rng.Min)
	return s.rng.Clamp(math.Round(v))
}

// knobRect is where the knob sits for width v.
func (s *widthSlider) knobRect(v float64) image.Rectangle {
	span := s.rect.Dx() - knobWidth
	t := 0.0
	if s.rng.Max > s.rng.Min {
		t = (s.rng.Clamp(v) - s.rng.Min) / (s.rng.Max - s.rng.Min)
	}
	x := s.rect.Min.X + int(math.Round(t*float64(span)))
	return image.Rect(x, s.rect.Min.Y, x+knobWidth, s.rect.Max.Y)
}

func (s *widthSlider) set(x int) {
	if s.onSet != nil {
		s.onSet(s.valueAt(x))
	}
}

func (s *widthSlider) draw(dst *image.RGBA, v float64) {
	mid := (s.rect.Min.Y + s.rect.Max.Y) / 2
	track := image.Rect(s.rect.Min.X, mid-2, s.rect.Max.X, mid+2)
	draw.Draw(dst, track, &image.Uniform{s.th.SliderTrack}, image.Point{}, draw.Src)
	draw.Draw(dst, s.knobRect(v), &image.Uniform{s.th.SliderKnob}, image.Point{}, draw.Src)
}

func (s *widthSlider) label(v float64) string {
	return fmt.Sprintf("Width: %g (%g-%g)", v, s.rng.Min, s.rng.Max)
}

// drawRect outlines rect with a border thick pixels wide.
func drawRect(dst *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	for _, r := range []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick),
		image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y),
		image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y),
	} {
		draw.Draw(dst, r.Intersect(rect), u, image.Point{}, draw.Src)
	}
}
