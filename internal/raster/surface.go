// Package raster provides the fixed-size pixel surface the drawing session
// paints on. Stroking and filling are delegated to gg; this package only picks
// the primitive and its parameters.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Surface is a mutable RGBA buffer of fixed dimensions.
type Surface struct {
	dc         *gg.Context
	pm         *gg.Pixmap
	background color.RGBA
}

// New creates a width×height surface filled with bg. Non-positive dimensions
// are raised to one pixel so the surface is never empty.
func New(width, height int, bg color.Color) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	pm := gg.NewPixmap(width, height)
	s := &Surface{
		dc:         gg.NewContext(width, height, gg.WithPixmap(pm)),
		pm:         pm,
		background: toRGBA(bg),
	}
	s.dc.SetLineCap(gg.LineCapButt)
	s.Clear()
	return s
}

// Bounds reports the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.pm.Width(), s.pm.Height())
}

// Background returns the colour the surface was created with.
func (s *Surface) Background() color.RGBA { return s.background }

// Clear repaints every pixel with the background colour.
func (s *Surface) Clear() {
	s.dc.ClearWithColor(gg.FromColor(s.background))
}

// StrokeLine draws a segment from (x0, y0) to (x1, y1) with butt caps.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) error {
	s.dc.SetColor(col)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x0, y0, x1, y1)
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke line (%g,%g)-(%g,%g): %w", x0, y0, x1, y1, err)
	}
	return nil
}

// FillDot fills a circle of the given diameter centred at (cx, cy).
func (s *Surface) FillDot(cx, cy, diameter float64, col color.Color) error {
	if diameter <= 0 {
		return nil
	}
	s.dc.SetColor(col)
	s.dc.DrawCircle(cx, cy, diameter/2)
	if err := s.dc.Fill(); err != nil {
		return fmt.Errorf("fill dot at (%g,%g): %w", cx, cy, err)
	}
	return nil
}

// At returns the pixel at (x, y). Points outside the surface read as
// transparent.
func (s *Surface) At(x, y int) color.RGBA {
	if !image.Pt(x, y).In(s.Bounds()) {
		return color.RGBA{}
	}
	i := (y*s.pm.Width() + x) * 4
	d := s.pm.Data()
	return color.RGBA{R: d[i], G: d[i+1], B: d[i+2], A: d[i+3]}
}

// Snapshot copies the current pixels into a new image that later draws do
// not affect.
func (s *Surface) Snapshot() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	copy(img.Pix, s.pm.Data())
	return img
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
