// internal/dock/tracker.go
package dock

import "time"

// sample is a pointer coordinate and the time it was observed.
type sample struct {
	Point Vector2D
	T     time.Time
}

// Tracker turns consecutive pointer samples into a clamped control position
// and a velocity expressed in surface units per nominal frame.
type Tracker struct {
	frame       time.Duration
	pressOffset Vector2D
	last        sample
	velocity    Vector2D
}

// NewTracker creates a tracker normalizing velocities to the given frame interval.
func NewTracker(frame time.Duration) *Tracker {
	return &Tracker{frame: frame}
}

// Reset starts a new session: the offset between the pointer and the
// control is captured and the velocity is zeroed.
func (t *Tracker) Reset(pointer, position Vector2D, now time.Time) {
	t.pressOffset = pointer.Sub(position)
	t.last = sample{Point: pointer, T: now}
	t.velocity = Vector2D{}
}

// Sample feeds a pointer coordinate. Bounds are passed per call since the
// surface may be resized between samples.
func (t *Tracker) Sample(pointer Vector2D, now time.Time, b Bounds) (position, velocity Vector2D) {
	dt := now.Sub(t.last.T)
	if dt > 0 {
		// units per ns scaled to units per frame
		scale := float64(t.frame) / float64(dt)
		t.velocity = pointer.Sub(t.last.Point).Mul(scale)
	}
	t.last = sample{Point: pointer, T: now}

	return b.Clamp(pointer.Sub(t.pressOffset)), t.velocity
}

// Velocity returns the most recent estimate.
func (t *Tracker) Velocity() Vector2D { return t.velocity }

// PressOffset returns the pointer-to-control offset captured at press.
func (t *Tracker) PressOffset() Vector2D { return t.pressOffset }
