// internal/dock/bounds.go
package dock

import (
	"math"

	"github.com/xkilldash9x/floatdock/api/schemas"
)

// Bounds describes the area the control may occupy: the surface minus the
// control's footprint and a fixed margin on every edge.
type Bounds struct {
	Surface schemas.Size
	Control schemas.Size
	Margin  float64
}

// MinX is the leftmost resting x.
func (b Bounds) MinX() float64 { return b.Margin }

// MaxX is the rightmost resting x.
func (b Bounds) MaxX() float64 { return b.Surface.Width - b.Control.Width - b.Margin }

// MinY is the topmost resting y.
func (b Bounds) MinY() float64 { return b.Margin }

// MaxY is the bottommost resting y.
func (b Bounds) MaxY() float64 { return b.Surface.Height - b.Control.Height - b.Margin }

// Clamp constrains pos to the bounds. When the surface is smaller than the
// control plus margins, the margin wins.
func (b Bounds) Clamp(pos Vector2D) Vector2D {
	return Vector2D{
		X: math.Max(b.MinX(), math.Min(b.MaxX(), pos.X)),
		Y: math.Max(b.MinY(), math.Min(b.MaxY(), pos.Y)),
	}
}

// Contains reports whether the point p lies on the control when the control
// sits at pos.
func (b Bounds) Contains(pos, p Vector2D) bool {
	return p.X >= pos.X && p.X < pos.X+b.Control.Width &&
		p.Y >= pos.Y && p.Y < pos.Y+b.Control.Height
}
