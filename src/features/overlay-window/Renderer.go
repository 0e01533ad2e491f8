package overlaywindow

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	controlpanel "github.com/ln64-git/edgelight/src/features/control-panel"
	"github.com/ln64-git/edgelight/src/features/placement"
)

// Shadow pass: a wider, fainter ring behind the frame.
const (
	ShadowSpread = 10.0
	ShadowAlpha  = 0.35
)

var (
	panelBackground = color.RGBA{24, 24, 28, 220}
	buttonFill      = color.RGBA{60, 60, 68, 255}
	buttonDisabled  = color.RGBA{40, 40, 44, 255}
	textColor       = color.RGBA{235, 235, 235, 255}
	textDisabled    = color.RGBA{110, 110, 110, 255}
)

func whitePixel() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// ShadowRing grows the ring outward and inward by ShadowSpread.
func ShadowRing(ring placement.Ring) placement.Ring {
	outer := ring.Outer
	outer.Rect = outer.Inset(-ShadowSpread)
	outer.Radius += ShadowSpread

	inner := ring.Inner
	if inner.W > 0 && inner.H > 0 {
		inner.Rect = inner.Inset(ShadowSpread)
		inner.Radius = max(0, inner.Radius-ShadowSpread)
	}
	return placement.Ring{Outer: outer, Inner: inner}
}

// GradientPosition maps a point to 0..1 along the top-left to bottom-right diagonal.
func GradientPosition(x, y float64, size placement.Size) float64 {
	den := size.W*size.W + size.H*size.H
	if den <= 0 {
		return 0
	}
	t := (x*size.W + y*size.H) / den
	return min(1, max(0, t))
}

func appendRoundedRect(path *vector.Path, r placement.RoundedRect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x0, y0 := float32(r.X), float32(r.Y)
	x1, y1 := float32(r.X+r.W), float32(r.Y+r.H)
	rad := float32(r.Radius)

	path.MoveTo(x0+rad, y0)
	path.ArcTo(x1, y0, x1, y1, rad)
	path.ArcTo(x1, y1, x0, y1, rad)
	path.ArcTo(x0, y1, x0, y0, rad)
	path.ArcTo(x0, y0, x1, y0, rad)
	path.Close()
}

// drawRing fills the ring with colours sampled per vertex and the given alpha.
func drawRing(dst, src *ebiten.Image, ring placement.Ring, size placement.Size, shade func(float64) color.RGBA, alpha float64) {
	var path vector.Path
	appendRoundedRect(&path, ring.Outer)
	appendRoundedRect(&path, ring.Inner)

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	a := float32(min(1, max(0, alpha)))
	for i := range vs {
		c := shade(GradientPosition(float64(vs[i].DstX), float64(vs[i].DstY), size))
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(c.R) / 255
		vs[i].ColorG = float32(c.G) / 255
		vs[i].ColorB = float32(c.B) / 255
		vs[i].ColorA = a
	}

	dst.DrawTriangles(vs, is, src, &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.FillRuleEvenOdd,
		AntiAlias: true,
	})
}

func drawPanel(dst *ebiten.Image, layout controlpanel.Layout, origin placement.Point, frame Frame) {
	ox, oy := float32(origin.X), float32(origin.Y)
	vector.DrawFilledRect(dst, ox, oy, float32(layout.Size.W), float32(layout.Size.H), panelBackground, true)

	face := basicfont.Face7x13
	label := layout.Label
	lw := text.BoundString(face, frame.PanelLabel).Dx()
	text.Draw(dst, frame.PanelLabel, face,
		int(origin.X+label.X+(label.W-float64(lw))/2), int(origin.Y+label.Y+label.H/2+4), textColor)

	for _, s := range layout.Slots {
		fill, fg := buttonFill, textColor
		if s.Button == controlpanel.SwitchMonitor && !frame.SwitchEnabled {
			fill, fg = buttonDisabled, textDisabled
		}
		r := s.Rect
		vector.DrawFilledRect(dst, ox+float32(r.X), oy+float32(r.Y), float32(r.W), float32(r.H), fill, true)

		glyph := s.Button.Glyph()
		gw := text.BoundString(face, glyph).Dx()
		text.Draw(dst, glyph, face,
			int(origin.X+r.X+(r.W-float64(gw))/2), int(origin.Y+r.Y+r.H/2+4), fg)
	}
}
