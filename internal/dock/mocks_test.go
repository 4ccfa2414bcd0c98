// internal/dock/mocks_test.go
package dock

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xkilldash9x/floatdock/api/schemas"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// at returns the virtual time ms milliseconds after t0.
func at(ms float64) time.Time {
	return t0.Add(time.Duration(ms * float64(time.Millisecond)))
}

// fixedSurface is a resizable Surface.
type fixedSurface struct {
	size schemas.Size
}

func (s *fixedSurface) Size() schemas.Size { return s.size }

func newSurface(w, h float64) *fixedSurface {
	return &fixedSurface{size: schemas.Size{Width: w, Height: h}}
}

// recordingListener collects everything the engine emits.
type recordingListener struct {
	positions   []PositionChange
	phases      []Phase
	activations []time.Time
}

func (l *recordingListener) PositionChanged(c PositionChange) { l.positions = append(l.positions, c) }
func (l *recordingListener) PhaseChanged(p Phase, _ time.Time) { l.phases = append(l.phases, p) }
func (l *recordingListener) Activated(at time.Time)           { l.activations = append(l.activations, at) }

func (l *recordingListener) last() Vector2D {
	return l.positions[len(l.positions)-1].Position
}

// mockHost is a testify mock of the platform host.
type mockHost struct {
	mock.Mock
	surface *fixedSurface
}

func (m *mockHost) Size() schemas.Size { return m.surface.Size() }

func (m *mockHost) CapturePointer() Capture {
	args := m.Called()
	return args.Get(0).(Capture)
}

func (m *mockHost) SuppressSelection(suppressed bool) {
	m.Called(suppressed)
}

type mockCapture struct {
	mock.Mock
}

func (m *mockCapture) Release() {
	m.Called()
}

// settle flushes frames every 16ms from start until the queue is empty.
func settle(q *FrameQueue, startMS float64) (frames int, endMS float64) {
	ms := startMS
	for q.Pending() > 0 && frames < 1000 {
		ms += 16
		q.Flush(at(ms))
		frames++
	}
	return frames, ms
}
