//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"beeclust/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional visuals on top of the base grid: the heat field and
// the largest cluster.
type Overlay struct {
	sim      Sim
	scale    int
	heat     *render.GridPainter
	showHeat bool
	showLead bool

	maskImg *ebiten.Image
	maskBuf []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:      sim,
		scale:    scale,
		heat:     render.NewGridPainter(size.W, size.H),
		showHeat: true,
	}
}

// Update toggles layers from keyboard input.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) || inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) || inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showLead = !o.showLead
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showHeat {
		p := o.sim.Params()
		o.heat.BlitHeat(screen, o.sim.HeatValues(), render.HeatScale{Cold: p.TCooler, Env: p.TEnv, Hot: p.THeater}, o.scale)
	}
	if o.showLead {
		total := size.W * size.H
		if o.maskImg == nil || len(o.maskBuf) != 4*total {
			o.maskImg = ebiten.NewImage(size.W, size.H)
			o.maskBuf = make([]byte, 4*total)
		}
		o.drawMask(screen, LargestClusterMask(o.sim), color.RGBA{R: 255, G: 245, B: 200})
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA) {
	const (
		maxAlpha  = 140.0
		glowBase  = 0.35
		glowRange = 0.65
	)
	for i := range mask {
		base := i * 4
		intensity := clamp01(float64(mask[i]))
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}
		glow := glowBase + glowRange*math.Sqrt(intensity)
		o.maskBuf[base+0] = scaleColorComponent(tint.R, glow)
		o.maskBuf[base+1] = scaleColorComponent(tint.G, glow)
		o.maskBuf[base+2] = scaleColorComponent(tint.B, glow)
		o.maskBuf[base+3] = uint8(math.Round(maxAlpha * intensity))
	}
	o.maskImg.ReplacePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
