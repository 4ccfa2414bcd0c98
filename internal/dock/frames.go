// internal/dock/frames.go
package dock

import "time"

// FrameFunc is invoked once per display frame with the frame timestamp.
type FrameFunc func(now time.Time)

// FrameID identifies a pending frame request. The zero value is never issued.
type FrameID uint64

// FrameSource is the frame-synchronized callback primitive the settle
// animation is driven by.
type FrameSource interface {
	// RequestFrame schedules fn for the next frame.
	RequestFrame(fn FrameFunc) FrameID
	// CancelFrame drops a pending request. Unknown ids are ignored.
	CancelFrame(id FrameID)
}

// FrameQueue is a FrameSource whose frames are produced by whoever calls
// Flush: the host loop on its ticker, or a test with virtual timestamps.
// It is owned by a single goroutine.
type FrameQueue struct {
	next    FrameID
	pending []frameRequest
}

type frameRequest struct {
	id FrameID
	fn FrameFunc
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame implements FrameSource.
func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameID {
	q.next++
	q.pending = append(q.pending, frameRequest{id: q.next, fn: fn})
	return q.next
}

// CancelFrame implements FrameSource.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, req := range q.pending {
		if req.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Pending reports how many callbacks wait for the next frame.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// Flush runs one frame. Callbacks requested while flushing run on the
// following frame, matching requestAnimationFrame semantics.
func (q *FrameQueue) Flush(now time.Time) int {
	batch := q.pending
	q.pending = nil
	for _, req := range batch {
		req.fn(now)
	}
	return len(batch)
}
