package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/vmath"
)

// Layout maps arena coordinates onto terminal cells
// Cells are roughly twice as tall as wide, so one world unit spans two columns per row
type Layout struct {
	Width, Height int // Screen size

	originX, originY float32 // Screen position of world (0,0)
	scale            float32 // Rows per world unit
}

// NewLayout fits the arena between the score line and the status line
func NewLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height}

	rows := height - parameter.TopMargin - parameter.BottomMargin
	if rows < 1 || width < 2 {
		return l
	}

	size := float32(parameter.MapSize)
	l.scale = min(float32(rows)/size, float32(width)/(2*size))
	l.originX = float32(width) / 2
	l.originY = float32(parameter.TopMargin) + float32(rows)/2
	return l
}

// ToScreen returns the cell of world position p; ok is false off screen
// World +Y points up
func (l Layout) ToScreen(p mgl32.Vec2) (x, y int, ok bool) {
	if l.scale == 0 {
		return 0, 0, false
	}
	x = int(math.Floor(float64(l.originX + p.X()*2*l.scale)))
	y = int(math.Floor(float64(l.originY - p.Y()*l.scale)))
	ok = x >= 0 && x < l.Width && y >= parameter.TopMargin && y < l.Height-parameter.BottomMargin
	return x, y, ok
}

// Bounds returns the screen rectangle of the arena walls, inclusive
func (l Layout) Bounds() (x0, y0, x1, y1 int) {
	half := float32(parameter.MapSize) / 2
	x0, y0, _ = l.ToScreen(mgl32.Vec2{-half, half})
	x1, y1, _ = l.ToScreen(mgl32.Vec2{half, -half})
	x0 = max(x0, 0)
	y0 = max(y0, parameter.TopMargin)
	x1 = min(x1, l.Width-1)
	y1 = min(y1, l.Height-parameter.BottomMargin-1)
	return x0, y0, x1, y1
}

// FacingGlyph returns the ship glyph for a facing angle
func FacingGlyph(facing float32) rune {
	octant := int(math.Round(float64(vmath.WrapAngle(facing)) / (math.Pi / 4)))
	return parameter.PlayerGlyphs[octant%len(parameter.PlayerGlyphs)]
}
