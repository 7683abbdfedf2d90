package theme

import (
	"image/color"
	"reflect"
)

// Theme defines the colours of the paint window chrome. The drawing surface
// itself is never themed.
type Theme struct {
	Name string

	// General
	Background color.RGBA // window background around the canvas
	Foreground color.RGBA // labels and messages

	// Sidebar
	SidebarBackground color.RGBA
	CanvasBorder      color.RGBA

	// Buttons
	ButtonBackground       color.RGBA
	ButtonBackgroundHover  color.RGBA
	ButtonBackgroundActive color.RGBA // the selected tool
	ButtonText             color.RGBA
	ButtonTextActive       color.RGBA
	ButtonBorder           color.RGBA

	// Width slider
	SliderTrack color.RGBA
	SliderKnob  color.RGBA

	// Palette swatches
	SwatchBorder   color.RGBA
	SwatchSelected color.RGBA

	// Status message overlay
	MessageBackground color.RGBA
	MessageText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                   "Default",
		Background:             color.RGBA{236, 236, 236, 255},
		Foreground:             color.RGBA{0, 0, 0, 255},
		SidebarBackground:      color.RGBA{224, 224, 224, 255},
		CanvasBorder:           color.RGBA{128, 128, 128, 255},
		ButtonBackground:       color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover:  color.RGBA{180, 180, 180, 255},
		ButtonBackgroundActive: color.RGBA{150, 150, 150, 255},
		ButtonText:             color.RGBA{0, 0, 0, 255},
		ButtonTextActive:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:           color.RGBA{0, 0, 0, 255},
		SliderTrack:            color.RGBA{170, 170, 170, 255},
		SliderKnob:             color.RGBA{60, 60, 60, 255},
		SwatchBorder:           color.RGBA{0, 0, 0, 255},
		SwatchSelected:         color.RGBA{255, 200, 0, 255},
		MessageBackground:      color.RGBA{0, 0, 0, 180},
		MessageText:            color.RGBA{255, 255, 255, 255},
	}
}

// ColorField is one named colour of a theme.
type ColorField struct {
	Name  string
	Color color.RGBA
}

var rgbaType = reflect.TypeOf(color.RGBA{})

// ColorFields lists the theme colours in declaration order.
func (t *Theme) ColorFields() []ColorField {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out []ColorField
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type != rgbaType {
			continue
		}
		out = append(out, ColorField{Name: typ.Field(i).Name, Color: val.Field(i).Interface().(color.RGBA)})
	}
	return out
}

// SetColor assigns the colour field named key, matched case-insensitively.
// It reports whether such a field exists.
func (t *Theme) SetColor(key string, c color.RGBA) bool {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type == rgbaType && equalFold(f.Name, key) {
			val.Field(i).Set(reflect.ValueOf(c))
			return true
		}
	}
	return false
}
