// internal/dock/session.go
package dock

import (
	"fmt"
	"math"
	"time"
)

// Phase is the externally visible state of the drag session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePressed
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// MarshalText renders the phase by name in JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name written by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = PhaseIdle
	case "pressed":
		*p = PhasePressed
	case "dragging":
		*p = PhaseDragging
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Outcome classifies how a session ended.
type Outcome int

const (
	// OutcomeNone means there was no session to end.
	OutcomeNone Outcome = iota
	// OutcomeTapped means the release qualifies as an activation.
	OutcomeTapped
	// OutcomeDragged means the release must be settled with momentum.
	OutcomeDragged
	// OutcomeCancelled means the session was aborted by the platform or unmount.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTapped:
		return "tapped"
	case OutcomeDragged:
		return "dragged"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// DragSession is the ephemeral state of one press-move-release interaction.
type DragSession struct {
	Active             bool
	PressPoint         Vector2D
	MovedPastThreshold bool
}

// Release is the result of ending a session.
type Release struct {
	Outcome  Outcome
	Velocity Vector2D
}

// Machine is the drag session state machine.
type Machine struct {
	threshold   float64
	tapVelocity float64
	tracker     *Tracker
	session     *DragSession
}

// NewMachine creates an idle state machine.
func NewMachine(cfg Config) *Machine {
	return &Machine{
		threshold:   cfg.DragThreshold,
		tapVelocity: cfg.TapVelocity,
		tracker:     NewTracker(cfg.FrameInterval),
	}
}

// Phase reports the current state.
func (m *Machine) Phase() Phase {
	switch {
	case m.session == nil:
		return PhaseIdle
	case m.session.MovedPastThreshold:
		return PhaseDragging
	default:
		return PhasePressed
	}
}

// Session returns a copy of the live session, or nil when idle.
func (m *Machine) Session() *DragSession {
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Velocity returns the tracker's latest estimate.
func (m *Machine) Velocity() Vector2D { return m.tracker.Velocity() }

// Press begins a session. A press while a session is live replaces it.
func (m *Machine) Press(pointer, position Vector2D, now time.Time) {
	m.session = &DragSession{Active: true, PressPoint: pointer}
	m.tracker.Reset(pointer, position, now)
}

// Move feeds a pointer sample. ok is false when no session is live.
func (m *Machine) Move(pointer Vector2D, now time.Time, b Bounds) (position Vector2D, ok bool) {
	if m.session == nil {
		return Vector2D{}, false
	}
	position, _ = m.tracker.Sample(pointer, now, b)
	if !m.session.MovedPastThreshold && pointer.Dist(m.session.PressPoint) > m.threshold {
		m.session.MovedPastThreshold = true
	}
	return position, true
}

// Release ends the session and classifies it. The classification uses the
// velocity of the last sample, not the displacement at release: a pointer
// that stops before lifting reads as zero velocity. The bound is inclusive,
// so a still release is a tap even with a zero tap velocity.
func (m *Machine) Release() Release {
	if m.session == nil {
		return Release{Outcome: OutcomeNone}
	}
	s := m.session
	m.session = nil

	v := m.tracker.Velocity()
	if !s.MovedPastThreshold && math.Abs(v.X) <= m.tapVelocity && math.Abs(v.Y) <= m.tapVelocity {
		return Release{Outcome: OutcomeTapped, Velocity: v}
	}
	return Release{Outcome: OutcomeDragged, Velocity: v}
}

// Cancel aborts the live session without classifying it.
func (m *Machine) Cancel() Release {
	if m.session == nil {
		return Release{Outcome: OutcomeNone}
	}
	m.session = nil
	return Release{Outcome: OutcomeCancelled, Velocity: m.tracker.Velocity()}
}
