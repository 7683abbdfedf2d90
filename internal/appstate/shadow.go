package appstate

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	shadowRadius  = 6
	shadowOpacity = 0.35
)

var shadowOffset = image.Pt(4, 4)

// dropShadow is the blurred shadow behind the canvas. The canvas is a solid
// rectangle so the box blur separates into one ramp per axis and is computed
// once per layout.
type dropShadow struct {
	mask *image.Alpha
	at   image.Rectangle
}

func newDropShadow(r image.Rectangle, radius int, offset image.Point, opacity float64) dropShadow {
	if r.Empty() || opacity <= 0 {
		return dropShadow{}
	}
	if radius < 0 {
		radius = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	fx := boxRamp(r.Dx(), radius)
	fy := boxRamp(r.Dy(), radius)
	mask := image.NewAlpha(image.Rect(0, 0, len(fx), len(fy)))
	for y, cy := range fy {
		row := mask.Pix[y*mask.Stride:]
		for x, cx := range fx {
			row[x] = uint8(cx*cy*opacity*255 + 0.5)
		}
	}
	return dropShadow{
		mask: mask,
		at:   mask.Bounds().Add(r.Min.Add(offset).Sub(image.Pt(radius, radius))),
	}
}

// boxRamp is the coverage of a box filter of the given radius sliding over a
// run of n solid pixels, sampled across the run plus radius on each side.
func boxRamp(n, radius int) []float64 {
	window := 2*radius + 1
	out := make([]float64, n+2*radius)
	for i := range out {
		lo := max(i-radius, radius)
		hi := min(i+radius, radius+n-1)
		if hi >= lo {
			out[i] = float64(hi-lo+1) / float64(window)
		}
	}
	return out
}

func (s dropShadow) draw(dst *image.RGBA) {
	if s.mask == nil {
		return
	}
	draw.DrawMask(dst, s.at, image.NewUniform(color.Black), image.Point{}, s.mask, image.Point{}, draw.Over)
}
