// internal/dock/animation.go
package dock

import (
	"math"
	"time"
)

// easeOutQuart decelerates towards the end of the animation.
func easeOutQuart(p float64) float64 {
	return 1 - math.Pow(1-p, 4)
}

// AnimationHandle is the token of one settle animation.
type AnimationHandle struct {
	From, To Vector2D
	Duration time.Duration

	start     time.Time
	frame     FrameID
	cancelled bool
	done      bool
}

// Done reports whether the animation reached its target.
func (h *AnimationHandle) Done() bool { return h.done }

// Cancelled reports whether the animation was superseded or stopped.
func (h *AnimationHandle) Cancelled() bool { return h.cancelled }

// Scheduler drives at most one settle animation at a time, writing each
// interpolated position and its frame time through the write callback.
type Scheduler struct {
	frames FrameSource
	write  func(Vector2D, time.Time)
	live   *AnimationHandle
}

// NewScheduler creates a scheduler writing positions through write.
func NewScheduler(frames FrameSource, write func(Vector2D, time.Time)) *Scheduler {
	return &Scheduler{frames: frames, write: write}
}

// Settle starts animating from `from` to `to`, cancelling any live animation.
// now is the time the animation is considered to start; the first frame
// interpolates relative to it.
func (s *Scheduler) Settle(from, to Vector2D, duration time.Duration, now time.Time) *AnimationHandle {
	s.Cancel()

	h := &AnimationHandle{From: from, To: to, Duration: duration, start: now}
	s.live = h
	h.frame = s.frames.RequestFrame(func(t time.Time) { s.tick(h, t) })
	return h
}

// Cancel stops the live animation, if any. No write happens after Cancel.
func (s *Scheduler) Cancel() {
	if s.live == nil {
		return
	}
	s.live.cancelled = true
	s.frames.CancelFrame(s.live.frame)
	s.live = nil
}

// Live returns the running animation or nil.
func (s *Scheduler) Live() *AnimationHandle { return s.live }

// Retarget moves the destination of the live animation, keeping its timing.
func (s *Scheduler) Retarget(to Vector2D) {
	if s.live != nil {
		s.live.To = to
	}
}

func (s *Scheduler) tick(h *AnimationHandle, now time.Time) {
	if h.cancelled || s.live != h {
		return
	}

	p := 1.0
	if h.Duration > 0 {
		p = math.Min(float64(now.Sub(h.start))/float64(h.Duration), 1)
	}
	if p < 0 {
		p = 0
	}

	if p >= 1 {
		h.done = true
		s.live = nil
		s.write(h.To, now)
		return
	}

	s.write(h.From.Lerp(h.To, easeOutQuart(p)), now)
	h.frame = s.frames.RequestFrame(func(t time.Time) { s.tick(h, t) })
}
