// internal/dock/resolve.go
package dock

import "math"

// Momentum holds the projection parameters used on release.
type Momentum struct {
	Factor      float64
	MinVelocity float64
}

// Project extrapolates the release position along the velocity. Axes whose
// speed does not exceed MinVelocity are left unchanged.
func (m Momentum) Project(release, velocity Vector2D) Vector2D {
	projected := release
	if math.Abs(velocity.X) > m.MinVelocity {
		projected.X += velocity.X * m.Factor
	}
	if math.Abs(velocity.Y) > m.MinVelocity {
		projected.Y += velocity.Y * m.Factor
	}
	return projected
}

// Resolve computes where the control comes to rest after a drag release.
// The x coordinate always snaps fully to the left or right resting edge,
// whichever side of the surface center the projected point falls on; y is
// only clamped.
func Resolve(release, velocity Vector2D, b Bounds, m Momentum) Vector2D {
	projected := m.Project(release, velocity)

	target := Vector2D{X: b.MaxX(), Y: projected.Y}
	if projected.X < b.Surface.Width/2 {
		target.X = b.MinX()
	}
	return b.Clamp(target)
}
