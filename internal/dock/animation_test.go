// internal/dock/animation_test.go
package dock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writeLog struct {
	positions []Vector2D
	times     []time.Time
}

func (w *writeLog) write(p Vector2D, now time.Time) {
	w.positions = append(w.positions, p)
	w.times = append(w.times, now)
}

func TestEaseOutQuart(t *testing.T) {
	assert.Equal(t, 0.0, easeOutQuart(0))
	assert.Equal(t, 1.0, easeOutQuart(1))
	assert.InDelta(t, 0.9375, easeOutQuart(0.5), 1e-12)

	prev := 0.0
	for p := 0.05; p <= 1; p += 0.05 {
		v := easeOutQuart(p)
		assert.Greater(t, v, prev, "monotonic at p=%v", p)
		prev = v
	}
}

func TestScheduler_CompletesExactlyOnTarget(t *testing.T) {
	q := NewFrameQueue()
	log := &writeLog{}
	s := NewScheduler(q, log.write)

	from, to := Vector2D{X: 700, Y: 150}, Vector2D{X: 930, Y: 149.2}
	h := s.Settle(from, to, 300*time.Millisecond, at(0))
	require.Same(t, h, s.Live())

	frames, _ := settle(q, 0)
	// Frames at 16..304ms; the one at 304 is the first past the duration.
	assert.Equal(t, 19, frames)
	assert.True(t, h.Done())
	assert.False(t, h.Cancelled())
	assert.Nil(t, s.Live())

	require.NotEmpty(t, log.positions)
	assert.Equal(t, to, log.positions[len(log.positions)-1], "the last write is the exact target")
	for i := 1; i < len(log.positions); i++ {
		assert.GreaterOrEqual(t, log.positions[i].X, log.positions[i-1].X, "eases monotonically")
	}
	assert.Equal(t, at(304), log.times[len(log.times)-1])
}

func TestScheduler_CancelStopsWrites(t *testing.T) {
	q := NewFrameQueue()
	log := &writeLog{}
	s := NewScheduler(q, log.write)

	h := s.Settle(Vector2D{X: 0}, Vector2D{X: 100}, 300*time.Millisecond, at(0))
	q.Flush(at(16))
	q.Flush(at(32))
	written := len(log.positions)

	s.Cancel()
	assert.True(t, h.Cancelled())
	assert.False(t, h.Done())
	assert.Nil(t, s.Live())
	assert.Zero(t, q.Pending())

	q.Flush(at(48))
	assert.Len(t, log.positions, written, "no write after cancel")

	s.Cancel() // no-op
}

func TestScheduler_SettleSupersedesLiveAnimation(t *testing.T) {
	q := NewFrameQueue()
	log := &writeLog{}
	s := NewScheduler(q, log.write)

	first := s.Settle(Vector2D{X: 0}, Vector2D{X: 100}, 300*time.Millisecond, at(0))
	q.Flush(at(16))
	second := s.Settle(Vector2D{X: 50}, Vector2D{X: 10}, 300*time.Millisecond, at(20))

	assert.True(t, first.Cancelled())
	assert.Same(t, second, s.Live())
	assert.Equal(t, 1, q.Pending(), "only one frame request is live")

	settle(q, 20)
	assert.Equal(t, Vector2D{X: 10}, log.positions[len(log.positions)-1])
}

func TestScheduler_Retarget(t *testing.T) {
	q := NewFrameQueue()
	log := &writeLog{}
	s := NewScheduler(q, log.write)

	s.Retarget(Vector2D{X: 1}) // nothing live, no-op

	s.Settle(Vector2D{X: 0}, Vector2D{X: 100}, 300*time.Millisecond, at(0))
	q.Flush(at(16))
	s.Retarget(Vector2D{X: 60})
	settle(q, 16)

	assert.Equal(t, Vector2D{X: 60}, log.positions[len(log.positions)-1])
}

func TestScheduler_StaleFrameIsIgnored(t *testing.T) {
	// A frame source that never cancels: the handle check alone must
	// stop a superseded animation from writing.
	var pending []FrameFunc
	src := frameSourceFunc{
		request: func(fn FrameFunc) FrameID { pending = append(pending, fn); return FrameID(len(pending)) },
	}
	log := &writeLog{}
	s := NewScheduler(src, log.write)

	s.Settle(Vector2D{X: 0}, Vector2D{X: 100}, 300*time.Millisecond, at(0))
	s.Cancel()
	pending[0](at(16))
	assert.Empty(t, log.positions)
}

type frameSourceFunc struct {
	request func(FrameFunc) FrameID
}

func (f frameSourceFunc) RequestFrame(fn FrameFunc) FrameID { return f.request(fn) }
func (f frameSourceFunc) CancelFrame(FrameID)               {}
