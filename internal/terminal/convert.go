// internal/terminal/convert.go
package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/xkilldash9x/floatdock/api/schemas"
)

// mouseDecoder turns tcell's button-state reports into press, move and
// release transitions. tcell reports which buttons are down at each event,
// not what changed, so the previous state is kept.
type mouseDecoder struct {
	down bool
}

// decode converts ev. ok is false for events the control never consumes
// (wheel, secondary buttons).
func (d *mouseDecoder) decode(ev *tcell.EventMouse) (schemas.PointerEvent, bool) {
	x, y := ev.Position()
	out := schemas.PointerEvent{
		Kind:   schemas.KindMouse,
		X:      float64(x),
		Y:      float64(y),
		Button: schemas.ButtonLeft,
		Time:   ev.When(),
	}

	buttons := ev.Buttons()
	if buttons&(tcell.WheelUp|tcell.WheelDown|tcell.WheelLeft|tcell.WheelRight) != 0 {
		return out, false
	}
	primary := buttons&tcell.Button1 != 0

	switch {
	case primary && !d.down:
		d.down = true
		out.Type = schemas.PointerPress
	case primary && d.down:
		out.Type = schemas.PointerMove
	case !primary && d.down:
		d.down = false
		out.Type = schemas.PointerRelease
	default:
		if buttons&(tcell.Button2|tcell.Button3) != 0 {
			return out, false
		}
		out.Type = schemas.PointerMove
		out.Button = schemas.ButtonNone
	}
	return out, true
}

// reset forgets the button state, used when the terminal loses focus and a
// release may never arrive.
func (d *mouseDecoder) reset() bool {
	was := d.down
	d.down = false
	return was
}
