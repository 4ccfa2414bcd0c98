// internal/dock/adapter.go
package dock

import (
	"time"

	"github.com/xkilldash9x/floatdock/api/schemas"
	"go.uber.org/zap"
)

// Capture is a held pointer-listener scope broader than the control itself,
// so a drag keeps receiving moves after the pointer leaves the control.
// Release must be called exactly once.
type Capture interface {
	Release()
}

// Host is the platform the control is mounted on.
type Host interface {
	Surface
	// CapturePointer widens the listener scope for the duration of a drag.
	CapturePointer() Capture
	// SuppressSelection toggles incidental text selection.
	SuppressSelection(suppressed bool)
}

// Adapter bridges platform pointer events (mouse and single touch) onto the
// dock. It holds at most one Capture and releases it on every exit path.
type Adapter struct {
	dock   *Dock
	host   Host
	logger *zap.Logger

	capture   Capture
	kind      schemas.PointerKind
	primaryID int64

	// pendingTap is set by a tapped release and consumed by Click.
	pendingTap bool
	// synthesizeClick makes the adapter issue the click itself after a
	// release, for hosts that never deliver one.
	synthesizeClick bool
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithSynthesizedClick makes the adapter click right after a tapped release.
func WithSynthesizedClick() AdapterOption {
	return func(a *Adapter) { a.synthesizeClick = true }
}

// NewAdapter binds a dock to its host.
func NewAdapter(d *Dock, host Host, logger *zap.Logger, opts ...AdapterOption) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{dock: d, host: host, logger: logger.Named("adapter")}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dragging reports whether a pointer is captured.
func (a *Adapter) Dragging() bool { return a.capture != nil }

// Handle dispatches one platform event. It reports whether the event was
// consumed by the control.
func (a *Adapter) Handle(ev *schemas.PointerEvent) bool {
	if ev == nil {
		return false
	}
	switch ev.Type {
	case schemas.PointerPress:
		return a.press(ev)
	case schemas.PointerMove:
		return a.move(ev)
	case schemas.PointerRelease:
		return a.release(ev)
	case schemas.PointerCancel:
		return a.cancel(ev)
	case schemas.PointerClick:
		return a.Click(ev.Time)
	default:
		return false
	}
}

// Click is the activation seam: it fires the activated signal only when the
// last release was a tap that has not been consumed yet.
func (a *Adapter) Click(at time.Time) bool {
	if !a.pendingTap {
		return false
	}
	a.pendingTap = false
	a.dock.Activate(at)
	return true
}

// Close unmounts the control: the capture is released and the engine stops.
func (a *Adapter) Close() {
	a.endCapture()
	a.pendingTap = false
	a.dock.Close()
}

func (a *Adapter) press(ev *schemas.PointerEvent) bool {
	if a.capture != nil {
		// A second contact or button while dragging is ignored.
		return a.kind == ev.Kind
	}
	if ev.Kind != schemas.KindTouch && ev.Button != "" && ev.Button != schemas.ButtonLeft {
		return false
	}
	point, id, ok := primaryPoint(ev, 0, false)
	if !ok {
		return false
	}
	if !a.dock.Press(point, ev.Time) {
		return false
	}

	ev.PreventDefault()
	a.kind = ev.Kind
	a.primaryID = id
	a.pendingTap = false
	a.capture = a.host.CapturePointer()
	a.host.SuppressSelection(true)
	a.logger.Debug("Pointer captured", zap.String("kind", string(ev.Kind)))
	return true
}

func (a *Adapter) move(ev *schemas.PointerEvent) bool {
	if a.capture == nil || ev.Kind != a.kind {
		return false
	}
	point, _, ok := primaryPoint(ev, a.primaryID, a.kind == schemas.KindTouch)
	if !ok {
		return false
	}
	ev.PreventDefault()
	a.dock.Move(point, ev.Time)
	return true
}

func (a *Adapter) release(ev *schemas.PointerEvent) bool {
	if a.capture == nil || ev.Kind != a.kind {
		return false
	}
	if a.kind == schemas.KindTouch && len(ev.Touches) > 0 {
		if _, _, ok := primaryPoint(ev, a.primaryID, true); !ok {
			// A secondary contact lifted; the drag continues.
			return false
		}
	}

	a.endCapture()
	r := a.dock.Release(ev.Time)
	if r.Outcome == OutcomeTapped {
		a.pendingTap = true
		if a.synthesizeClick {
			a.Click(ev.Time)
		}
	}
	return true
}

func (a *Adapter) cancel(ev *schemas.PointerEvent) bool {
	if a.capture == nil {
		return false
	}
	a.endCapture()
	a.dock.Cancel(ev.Time)
	return true
}

func (a *Adapter) endCapture() {
	if a.capture == nil {
		return
	}
	a.capture.Release()
	a.capture = nil
	a.host.SuppressSelection(false)
	a.logger.Debug("Pointer released")
}

// primaryPoint extracts the tracked coordinate of ev. For touch events with
// match set, only the contact with the given id counts; otherwise the first
// contact is the primary one.
func primaryPoint(ev *schemas.PointerEvent, id int64, match bool) (Vector2D, int64, bool) {
	if ev.Kind != schemas.KindTouch {
		return Vector2D{X: ev.X, Y: ev.Y}, 0, true
	}
	if len(ev.Touches) == 0 {
		return Vector2D{}, 0, false
	}
	if !match {
		t := ev.Touches[0]
		return Vector2D{X: t.X, Y: t.Y}, t.ID, true
	}
	for _, t := range ev.Touches {
		if t.ID == id {
			return Vector2D{X: t.X, Y: t.Y}, t.ID, true
		}
	}
	return Vector2D{}, 0, false
}
