// internal/dock/dock.go
package dock

import (
	"time"

	"github.com/xkilldash9x/floatdock/api/schemas"
	"go.uber.org/zap"
)

// Surface reports the current size of the area the control lives on.
// It is read on every clamp and resolve, never cached.
type Surface interface {
	Size() schemas.Size
}

// PositionChange is one entry of the position stream.
type PositionChange struct {
	Position Vector2D  `json:"position"`
	Phase    string    `json:"phase"`
	Settling bool      `json:"settling"`
	Time     time.Time `json:"time"`
}

// Listener receives the engine's observable outputs.
type Listener interface {
	PositionChanged(change PositionChange)
	PhaseChanged(phase Phase, at time.Time)
	Activated(at time.Time)
}

// Dock owns the control's position and arbitrates its two writers: the
// tracker while a drag session is live, and the scheduler while settling.
// A press always cancels the settle animation before the tracker writes, so
// the writers never overlap. Dock is not safe for concurrent use; the host
// loop owns it.
type Dock struct {
	cfg       Config
	surface   Surface
	listener  Listener
	logger    *zap.Logger
	machine   *Machine
	scheduler *Scheduler
	momentum  Momentum

	position  Vector2D
	lastPhase Phase
	closed    bool
}

// New mounts the control at its anchor corner.
func New(cfg Config, surface Surface, frames FrameSource, listener Listener, logger *zap.Logger) *Dock {
	cfg.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dock{
		cfg:      cfg,
		surface:  surface,
		listener: listener,
		logger:   logger.Named("dock"),
		machine:  NewMachine(cfg),
		momentum: Momentum{Factor: cfg.MomentumFactor, MinVelocity: cfg.MinVelocity},
	}
	d.scheduler = NewScheduler(frames, d.writeSettle)

	b := d.Bounds()
	d.position = b.Clamp(cfg.anchorPosition(b))
	d.logger.Debug("Dock mounted",
		zap.String("anchor", string(cfg.Anchor)),
		zap.Float64("x", d.position.X),
		zap.Float64("y", d.position.Y))
	d.notifyPosition(time.Time{})
	return d
}

// Bounds returns the clamping bounds for the current surface size.
func (d *Dock) Bounds() Bounds {
	return Bounds{Surface: d.surface.Size(), Control: d.cfg.Control, Margin: d.cfg.Margin}
}

// Position returns the control's current top-left coordinate.
func (d *Dock) Position() Vector2D { return d.position }

// Phase returns the drag session phase.
func (d *Dock) Phase() Phase { return d.machine.Phase() }

// Settling reports whether a settle animation is in flight.
func (d *Dock) Settling() bool { return d.scheduler.Live() != nil }

// Animation returns the live settle animation, or nil.
func (d *Dock) Animation() *AnimationHandle { return d.scheduler.Live() }

// Session returns a snapshot of the live drag session, or nil.
func (d *Dock) Session() *DragSession { return d.machine.Session() }

// Velocity returns the latest velocity estimate.
func (d *Dock) Velocity() Vector2D { return d.machine.Velocity() }

// Config returns the engine tunables.
func (d *Dock) Config() Config { return d.cfg }

// HitTest reports whether pointer lies on the control.
func (d *Dock) HitTest(pointer Vector2D) bool {
	return d.Bounds().Contains(d.position, pointer)
}

// Press starts a drag session if pointer lies on the control. Any settle
// animation in flight is cancelled first.
func (d *Dock) Press(pointer Vector2D, now time.Time) bool {
	if d.closed || !d.HitTest(pointer) {
		return false
	}
	if d.scheduler.Live() != nil {
		d.logger.Debug("Press preempted settle animation")
		d.scheduler.Cancel()
	}
	d.machine.Press(pointer, d.position, now)
	d.notifyPhase(now)
	return true
}

// Move feeds a pointer sample to the live session.
func (d *Dock) Move(pointer Vector2D, now time.Time) {
	if d.closed {
		return
	}
	pos, ok := d.machine.Move(pointer, now, d.Bounds())
	if !ok {
		return
	}
	d.setPosition(pos, now)
	d.notifyPhase(now)
}

// Release ends the session. A tap is clamped in place; a drag release is
// projected, snapped to an edge and animated there.
func (d *Dock) Release(now time.Time) Release {
	if d.closed {
		return Release{Outcome: OutcomeNone}
	}
	r := d.machine.Release()
	switch r.Outcome {
	case OutcomeNone:
		d.logger.Debug("Ignoring release without an active session")
		return r
	case OutcomeTapped:
		d.setPosition(d.position, now)
	case OutcomeDragged:
		d.settle(r.Velocity, now)
	}
	d.logger.Debug("Session released",
		zap.Stringer("outcome", r.Outcome),
		zap.Float64("vx", r.Velocity.X),
		zap.Float64("vy", r.Velocity.Y))
	d.notifyPhase(now)
	return r
}

// Cancel aborts the session (pointer cancel). The control settles against
// the nearest edge without momentum.
func (d *Dock) Cancel(now time.Time) Release {
	if d.closed {
		return Release{Outcome: OutcomeNone}
	}
	r := d.machine.Cancel()
	if r.Outcome == OutcomeNone {
		return r
	}
	d.settle(Vector2D{}, now)
	d.logger.Debug("Session cancelled")
	d.notifyPhase(now)
	return r
}

// Activate publishes the activated signal.
func (d *Dock) Activate(now time.Time) {
	if d.closed {
		return
	}
	d.logger.Info("Dock activated")
	if d.listener != nil {
		d.listener.Activated(now)
	}
}

// Resize re-reads the surface. A resting control is re-snapped to its edge;
// an animation in flight is retargeted. A live drag is corrected by the
// next sample.
func (d *Dock) Resize(now time.Time) {
	if d.closed {
		return
	}
	b := d.Bounds()
	d.logger.Debug("Surface resized",
		zap.Float64("width", b.Surface.Width),
		zap.Float64("height", b.Surface.Height))

	if live := d.scheduler.Live(); live != nil {
		d.scheduler.Retarget(Resolve(live.To, Vector2D{}, b, d.momentum))
		return
	}
	if d.machine.Phase() == PhaseIdle {
		d.setPosition(Resolve(d.position, Vector2D{}, b, d.momentum), now)
	}
}

// Close unmounts the control: the session and the animation are dropped
// and nothing is written afterwards.
func (d *Dock) Close() {
	if d.closed {
		return
	}
	d.machine.Cancel()
	d.scheduler.Cancel()
	d.closed = true
	d.logger.Debug("Dock unmounted")
}

func (d *Dock) settle(velocity Vector2D, now time.Time) {
	target := Resolve(d.position, velocity, d.Bounds(), d.momentum)
	d.logger.Debug("Settling",
		zap.Float64("from_x", d.position.X), zap.Float64("from_y", d.position.Y),
		zap.Float64("to_x", target.X), zap.Float64("to_y", target.Y))
	d.scheduler.Settle(d.position, target, d.cfg.SettleDuration, now)
}

// writeSettle is the scheduler's write path.
func (d *Dock) writeSettle(pos Vector2D, now time.Time) {
	d.setPosition(pos, now)
}

func (d *Dock) setPosition(pos Vector2D, now time.Time) {
	pos = d.Bounds().Clamp(pos)
	if pos == d.position {
		return
	}
	d.position = pos
	d.notifyPosition(now)
}

func (d *Dock) notifyPosition(now time.Time) {
	if d.listener == nil {
		return
	}
	d.listener.PositionChanged(PositionChange{
		Position: d.position,
		Phase:    d.machine.Phase().String(),
		Settling: d.scheduler.Live() != nil,
		Time:     now,
	})
}

func (d *Dock) notifyPhase(now time.Time) {
	phase := d.machine.Phase()
	if phase == d.lastPhase {
		return
	}
	d.lastPhase = phase
	if d.listener != nil {
		d.listener.PhaseChanged(phase, now)
	}
}
