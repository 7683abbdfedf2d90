package appstate

import "image"

const (
	padding       = 15
	sidebarWidth  = 155
	buttonHeight  = 24
	gap           = 6
	swatchColumns = 4
	swatchHeight  = 20
	labelHeight   = 16
	sliderHeight  = 20
	statusHeight  = 20
)

// layout holds the window geometry. With the default 400×400 canvas the
// window is 600×450.
type layout struct {
	window   image.Point
	sidebar  image.Rectangle
	canvas   image.Rectangle
	status   image.Rectangle
	line     image.Rectangle
	trace    image.Rectangle
	swatches []image.Rectangle
	current  image.Rectangle // preview of the stroke colour
	label    image.Rectangle // width label above the slider
	slider   image.Rectangle
	erase    image.Rectangle
	save     image.Rectangle
	copy     image.Rectangle
	clear    image.Rectangle
}

func computeLayout(canvasSize image.Point, nSwatches int) layout {
	var l layout
	x0 := padding
	x1 := padding + sidebarWidth
	y := padding
	next := func(h int) image.Rectangle {
		r := image.Rect(x0, y, x1, y+h)
		y += h + gap
		return r
	}
	l.line = next(buttonHeight)
	l.trace = next(buttonHeight)

	sw := (sidebarWidth - (swatchColumns-1)*gap) / swatchColumns
	for i := 0; i < nSwatches; i++ {
		col, row := i%swatchColumns, i/swatchColumns
		sx := x0 + col*(sw+gap)
		sy := y + row*(swatchHeight+gap)
		l.swatches = append(l.swatches, image.Rect(sx, sy, sx+sw, sy+swatchHeight))
	}
	if rows := (nSwatches + swatchColumns - 1) / swatchColumns; rows > 0 {
		y += rows * (swatchHeight + gap)
	}
	l.current = next(swatchHeight / 2)
	l.label = next(labelHeight)
	l.slider = next(sliderHeight)
	l.erase = next(buttonHeight)
	l.save = next(buttonHeight)
	l.copy = next(buttonHeight)
	l.clear = next(buttonHeight)
	sidebarBottom := y - gap

	l.canvas = image.Rect(x1+padding, padding, x1+padding+canvasSize.X, padding+canvasSize.Y)
	bottom := l.canvas.Max.Y
	if sidebarBottom > bottom {
		bottom = sidebarBottom
	}
	l.sidebar = image.Rect(x0, padding, x1, bottom)
	l.window = image.Pt(l.canvas.Max.X+padding, bottom+padding+statusHeight)
	l.status = image.Rect(x0, l.window.Y-statusHeight, l.window.X-padding, l.window.Y)
	return l
}

// toCanvas maps a window point into canvas-local coordinates.
func (l layout) toCanvas(x, y float32) (float64, float64) {
	return float64(x) - float64(l.canvas.Min.X), float64(y) - float64(l.canvas.Min.Y)
}
