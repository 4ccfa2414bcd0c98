// api/schemas/pointer.go
package schemas

import "time"

// PointerEventType defines the phase of a pointer interaction.
// The strings align with the DOM pointer phases so traces recorded in a
// browser can be replayed without translation.
type PointerEventType string

const (
	PointerPress   PointerEventType = "pointerDown"
	PointerMove    PointerEventType = "pointerMove"
	PointerRelease PointerEventType = "pointerUp"
	PointerCancel  PointerEventType = "pointerCancel"
	PointerClick   PointerEventType = "click"
)

// PointerKind identifies the input device that produced an event.
type PointerKind string

const (
	KindMouse PointerKind = "mouse"
	KindTouch PointerKind = "touch"
)

// MouseButton defines the mouse button being pressed.
type MouseButton string

const (
	ButtonNone   MouseButton = "none"
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// TouchPoint is a single contact of a touch event.
type TouchPoint struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PointerEvent encapsulates all data for a platform press/move/release event.
// Mouse events carry their coordinate in X/Y; touch events carry their
// contacts in Touches (for release events, the contacts that ended).
type PointerEvent struct {
	Type    PointerEventType `json:"type"`
	Kind    PointerKind      `json:"kind"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Button  MouseButton      `json:"button,omitempty"`
	Touches []TouchPoint     `json:"touches,omitempty"`
	Time    time.Time        `json:"-"`

	// DefaultPrevented is set by consumers that claimed the event, so the host
	// skips its native gesture handling (scrolling, selection).
	DefaultPrevented bool `json:"-"`
}

// PreventDefault marks the event as handled.
func (e *PointerEvent) PreventDefault() {
	e.DefaultPrevented = true
}

// Size is a width/height pair in surface units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
