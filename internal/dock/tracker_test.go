// internal/dock/tracker_test.go
package dock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_PressOffsetIsPreserved(t *testing.T) {
	b := testBounds()
	tr := NewTracker(16 * time.Millisecond)
	tr.Reset(Vector2D{X: 950, Y: 750}, Vector2D{X: 930, Y: 730}, at(0))
	assert.Equal(t, Vector2D{X: 20, Y: 20}, tr.PressOffset())

	pos, _ := tr.Sample(Vector2D{X: 500, Y: 400}, at(16), b)
	assert.Equal(t, Vector2D{X: 480, Y: 380}, pos, "the control does not jump under the pointer")
}

func TestTracker_VelocityPerFrame(t *testing.T) {
	b := testBounds()
	tr := NewTracker(16 * time.Millisecond)
	tr.Reset(Vector2D{X: 500, Y: 400}, Vector2D{X: 480, Y: 380}, at(0))

	_, v := tr.Sample(Vector2D{X: 504, Y: 398}, at(16), b)
	assert.Equal(t, Vector2D{X: 4, Y: -2}, v)

	// The same displacement over two frames is half the speed.
	_, v = tr.Sample(Vector2D{X: 508, Y: 396}, at(48), b)
	assert.Equal(t, Vector2D{X: 2, Y: -1}, v)
	assert.Equal(t, v, tr.Velocity())
}

func TestTracker_ZeroElapsedKeepsVelocity(t *testing.T) {
	b := testBounds()
	tr := NewTracker(16 * time.Millisecond)
	tr.Reset(Vector2D{X: 500, Y: 400}, Vector2D{X: 480, Y: 380}, at(0))

	_, v := tr.Sample(Vector2D{X: 510, Y: 400}, at(16), b)
	assert.Equal(t, Vector2D{X: 10, Y: 0}, v)

	pos, v := tr.Sample(Vector2D{X: 530, Y: 400}, at(16), b)
	assert.Equal(t, Vector2D{X: 10, Y: 0}, v, "a sample with no elapsed time does not divide by zero")
	assert.Equal(t, Vector2D{X: 510, Y: 380}, pos, "the position still follows the pointer")
}

func TestTracker_PositionIsClamped(t *testing.T) {
	b := testBounds()
	tr := NewTracker(16 * time.Millisecond)
	tr.Reset(Vector2D{X: 500, Y: 400}, Vector2D{X: 480, Y: 380}, at(0))

	pos, v := tr.Sample(Vector2D{X: -300, Y: 2000}, at(16), b)
	assert.Equal(t, Vector2D{X: 10, Y: 730}, pos)
	assert.Equal(t, Vector2D{X: -800, Y: 1600}, v, "velocity tracks the raw pointer, not the clamped position")
}

func TestTracker_ResetZeroesVelocity(t *testing.T) {
	b := testBounds()
	tr := NewTracker(16 * time.Millisecond)
	tr.Reset(Vector2D{}, Vector2D{}, at(0))
	tr.Sample(Vector2D{X: 50, Y: 50}, at(16), b)
	assert.NotZero(t, tr.Velocity())

	tr.Reset(Vector2D{X: 50, Y: 50}, Vector2D{X: 40, Y: 40}, at(100))
	assert.Zero(t, tr.Velocity())
}
