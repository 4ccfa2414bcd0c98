// internal/replay/trace.go
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/xkilldash9x/floatdock/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidTrace wraps every structural problem found in a trace.
var ErrInvalidTrace = errors.New("invalid trace")

// StepResize is the step type that changes the surface size.
const StepResize schemas.PointerEventType = "resize"

// Trace is a recorded interaction: the initial surface and a time-ordered
// list of steps.
type Trace struct {
	Surface schemas.Size `json:"surface"`
	Steps   []Step       `json:"events"`
}

// Step is one pointer event, or a resize, at a millisecond offset from the
// start of the trace.
type Step struct {
	At      int64                    `json:"at"`
	Type    schemas.PointerEventType `json:"type"`
	Kind    schemas.PointerKind      `json:"kind,omitempty"`
	X       float64                  `json:"x,omitempty"`
	Y       float64                  `json:"y,omitempty"`
	Button  schemas.MouseButton      `json:"button,omitempty"`
	Touches []schemas.TouchPoint     `json:"touches,omitempty"`

	// Width and Height are read for resize steps only.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Decode reads and validates a trace.
func Decode(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrace, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads a trace file. A leading ~ is expanded to the home directory.
func Load(path string) (*Trace, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("could not expand trace path: %w", err)
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("could not open trace: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	return t, nil
}

// Validate checks the surface, step ordering and step types.
func (t *Trace) Validate() error {
	if t.Surface.Width <= 0 || t.Surface.Height <= 0 {
		return fmt.Errorf("%w: surface width and height must be positive", ErrInvalidTrace)
	}

	var last int64
	for i, s := range t.Steps {
		if s.At < 0 {
			return fmt.Errorf("%w: event %d has a negative timestamp", ErrInvalidTrace, i)
		}
		if s.At < last {
			return fmt.Errorf("%w: event %d at %dms precedes event %d at %dms", ErrInvalidTrace, i, s.At, i-1, last)
		}
		last = s.At

		switch s.Type {
		case schemas.PointerPress, schemas.PointerMove, schemas.PointerRelease,
			schemas.PointerCancel, schemas.PointerClick:
			if s.Kind == schemas.KindTouch && len(s.Touches) == 0 && s.Type != schemas.PointerCancel {
				return fmt.Errorf("%w: touch event %d has no contacts", ErrInvalidTrace, i)
			}
		case StepResize:
			if s.Width <= 0 || s.Height <= 0 {
				return fmt.Errorf("%w: resize %d must have a positive width and height", ErrInvalidTrace, i)
			}
		default:
			return fmt.Errorf("%w: event %d has unknown type %q", ErrInvalidTrace, i, s.Type)
		}
	}
	return nil
}

// hasClicks reports whether the trace delivers its own click events.
func (t *Trace) hasClicks() bool {
	for _, s := range t.Steps {
		if s.Type == schemas.PointerClick {
			return true
		}
	}
	return false
}

// event converts the step into a platform event stamped at ts.
func (s Step) event(ts int64) schemas.PointerEvent {
	kind := s.Kind
	if kind == "" {
		kind = schemas.KindMouse
	}
	return schemas.PointerEvent{
		Type:    s.Type,
		Kind:    kind,
		X:       s.X,
		Y:       s.Y,
		Button:  s.Button,
		Touches: s.Touches,
		Time:    epoch.Add(msToDuration(ts)),
	}
}
