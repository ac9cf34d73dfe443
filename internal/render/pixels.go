package render

import (
	"image/color"
	"math"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// HeatScale maps temperatures onto overlay colors. Values at Env are
// transparent; Cold and Hot are fully tinted.
type HeatScale struct {
	Cold, Env, Hot float64
}

var (
	coldTint = color.RGBA{R: 60, G: 130, B: 230}
	hotTint  = color.RGBA{R: 235, G: 80, B: 40}
)

const heatMaxAlpha = 150.0

// FillHeatRGBA writes one translucent pixel per heat value into buf. NaN
// values are left fully transparent.
func FillHeatRGBA(buf []byte, values []float64, scale HeatScale) {
	for i, v := range values {
		base := i * 4
		col := scale.color(v)
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

func (s HeatScale) color(v float64) color.RGBA {
	if math.IsNaN(v) {
		return color.RGBA{}
	}
	var t float64
	tint := hotTint
	switch {
	case v >= s.Env && s.Hot > s.Env:
		t = (v - s.Env) / (s.Hot - s.Env)
	case v < s.Env && s.Env > s.Cold:
		t = (s.Env - v) / (s.Env - s.Cold)
		tint = coldTint
	default:
		return color.RGBA{}
	}
	t = math.Min(math.Max(t, 0), 1)
	tint.A = uint8(math.Round(heatMaxAlpha * math.Sqrt(t)))
	return tint
}
