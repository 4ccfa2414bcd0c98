// internal/dock/config.go
package dock

import (
	"time"

	"github.com/xkilldash9x/floatdock/api/schemas"
	"github.com/xkilldash9x/floatdock/internal/config"
)

// Anchor names the corner the control starts in.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// Config holds the tunables of the interaction engine.
type Config struct {
	// Control is the footprint of the floating control.
	Control schemas.Size
	// Margin is the minimum gap kept between the control and every surface edge.
	Margin float64
	// Anchor is the corner the control is placed in at mount.
	Anchor Anchor

	// DragThreshold is the cumulative pointer displacement, in surface units,
	// past which a press becomes a drag.
	DragThreshold float64
	// TapVelocity is the per-axis velocity at or below which a release that never
	// crossed the drag threshold counts as a tap.
	TapVelocity float64

	// MomentumFactor damps the release velocity before it is projected.
	MomentumFactor float64
	// MinVelocity is the per-axis speed below which no momentum is applied.
	MinVelocity float64

	// FrameInterval is the nominal frame cadence velocities are normalized to.
	FrameInterval time.Duration
	// SettleDuration is the length of the release animation.
	SettleDuration time.Duration
}

// DefaultConfig returns the tunables of a 60x60 control on a pixel surface.
func DefaultConfig() Config {
	return Config{
		Control:        schemas.Size{Width: 60, Height: 60},
		Margin:         10,
		Anchor:         AnchorBottomRight,
		DragThreshold:  5,
		TapVelocity:    0.5,
		MomentumFactor: 0.4,
		MinVelocity:    0.5,
		FrameInterval:  16 * time.Millisecond,
		SettleDuration: 300 * time.Millisecond,
	}
}

// FromSettings maps the dock section of the application configuration.
func FromSettings(s config.DockConfig) Config {
	return Config{
		Control:        schemas.Size{Width: s.Control.Width, Height: s.Control.Height},
		Margin:         s.Margin,
		Anchor:         Anchor(s.Anchor),
		DragThreshold:  s.DragThreshold,
		TapVelocity:    s.TapVelocity,
		MomentumFactor: s.MomentumFactor,
		MinVelocity:    s.MinVelocity,
		FrameInterval:  s.FrameInterval,
		SettleDuration: s.SettleDuration,
	}
}

// normalize makes a partially populated Config usable: missing geometry
// and timing take their defaults, and negative tunables are raised to zero.
// A zero threshold, tap velocity, momentum or minimum velocity is kept as
// given; a still press and release is a tap under every such setting.
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.Control.Width <= 0 || c.Control.Height <= 0 {
		c.Control = d.Control
	}
	if c.Anchor == "" {
		c.Anchor = d.Anchor
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = d.FrameInterval
	}
	if c.SettleDuration <= 0 {
		c.SettleDuration = d.SettleDuration
	}
	for _, v := range []*float64{&c.Margin, &c.DragThreshold, &c.TapVelocity, &c.MomentumFactor, &c.MinVelocity} {
		if *v < 0 {
			*v = 0
		}
	}
}

// anchorPosition returns the initial position of the control for the anchor.
func (c Config) anchorPosition(b Bounds) Vector2D {
	switch c.Anchor {
	case AnchorTopLeft:
		return Vector2D{X: b.MinX(), Y: b.MinY()}
	case AnchorTopRight:
		return Vector2D{X: b.MaxX(), Y: b.MinY()}
	case AnchorBottomLeft:
		return Vector2D{X: b.MinX(), Y: b.MaxY()}
	default:
		return Vector2D{X: b.MaxX(), Y: b.MaxY()}
	}
}
