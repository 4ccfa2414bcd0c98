// internal/replay/runner.go
package replay

import (
	"fmt"
	"time"

	"github.com/xkilldash9x/floatdock/api/schemas"
	"github.com/xkilldash9x/floatdock/internal/dock"
	"go.uber.org/zap"
)

// epoch anchors the virtual clock. Only offsets from it are reported.
var epoch = time.Unix(0, 0).UTC()

// maxDrainFrames bounds the frames run after the last step.
const maxDrainFrames = 100000

func msToDuration(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }

func sinceEpochMS(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.Sub(epoch)) / float64(time.Millisecond)
}

// Write is one entry of the position stream.
type Write struct {
	At       float64       `json:"at"`
	Position dock.Vector2D `json:"position"`
	Phase    string        `json:"phase"`
	Settling bool          `json:"settling"`
}

// PhaseChange records a drag session transition.
type PhaseChange struct {
	At    float64    `json:"at"`
	Phase dock.Phase `json:"phase"`
}

// Report is the observable outcome of a replay.
type Report struct {
	Surface     schemas.Size  `json:"surface"`
	Writes      []Write       `json:"writes"`
	Phases      []PhaseChange `json:"phases"`
	Activations []float64     `json:"activations"`
	Final       dock.Vector2D `json:"final"`
	FinalPhase  dock.Phase    `json:"final_phase"`
	Frames      int           `json:"frames"`
}

// Runner replays traces against a fresh dock on a virtual clock. Frames fire
// on a fixed grid of the configured frame interval, interleaved with the
// trace steps, so a replay is fully deterministic.
type Runner struct {
	cfg    dock.Config
	logger *zap.Logger
}

// NewRunner creates a runner using the given engine tunables.
func NewRunner(cfg dock.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = dock.DefaultConfig().FrameInterval
	}
	return &Runner{cfg: cfg, logger: logger.Named("replay")}
}

// Run replays t. When the trace carries no click events, the click is
// synthesized right after every tapped release.
func (r *Runner) Run(t *Trace) (*Report, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	rec := &recorder{}
	host := &host{size: t.Surface}
	frames := dock.NewFrameQueue()

	d := dock.New(r.cfg, host, frames, rec, r.logger)
	var opts []dock.AdapterOption
	if !t.hasClicks() {
		opts = append(opts, dock.WithSynthesizedClick())
	}
	adapter := dock.NewAdapter(d, host, r.logger, opts...)

	clock := &frameClock{frames: frames, interval: r.cfg.FrameInterval, now: epoch}

	for i, s := range t.Steps {
		at := epoch.Add(msToDuration(s.At))
		rec.frames += clock.advance(at)

		if s.Type == StepResize {
			host.size = schemas.Size{Width: s.Width, Height: s.Height}
			d.Resize(at)
			continue
		}
		ev := s.event(s.At)
		consumed := adapter.Handle(&ev)
		r.logger.Debug("Replayed event",
			zap.Int("index", i),
			zap.String("type", string(s.Type)),
			zap.Bool("consumed", consumed))
	}

	n, err := clock.drain()
	rec.frames += n
	final, phase := d.Position(), d.Phase()

	// Unmount, which must hand back any capture a trailing press took.
	adapter.Close()
	if err != nil {
		return nil, err
	}
	if host.captures != 0 {
		return nil, fmt.Errorf("replay ended with %d pointer captures held", host.captures)
	}

	return &Report{
		Surface:     host.size,
		Writes:      rec.writes,
		Phases:      rec.phases,
		Activations: rec.activations,
		Final:       final,
		FinalPhase:  phase,
		Frames:      rec.frames,
	}, nil
}

// frameClock produces frames at epoch + k*interval. now is the time of the
// last replayed step; frames requested by it fire strictly after it.
type frameClock struct {
	frames   *dock.FrameQueue
	interval time.Duration
	now      time.Time
	next     time.Time
}

// advance runs every frame due at or before t. Frames are only produced
// while callbacks are pending, like a display that idles between animations.
func (c *frameClock) advance(t time.Time) int {
	n := 0
	for c.frames.Pending() > 0 {
		c.align()
		if c.next.After(t) {
			break
		}
		c.frames.Flush(c.next)
		c.now = c.next
		c.next = c.next.Add(c.interval)
		n++
	}
	c.now = t
	return n
}

// drain runs frames until nothing is pending.
func (c *frameClock) drain() (int, error) {
	n := 0
	for c.frames.Pending() > 0 {
		if n >= maxDrainFrames {
			return n, fmt.Errorf("animation did not settle after %d frames", n)
		}
		c.align()
		c.frames.Flush(c.next)
		c.now = c.next
		c.next = c.next.Add(c.interval)
		n++
	}
	return n, nil
}

// align skips grid slots that passed while the queue was idle.
func (c *frameClock) align() {
	if c.next.After(c.now) {
		return
	}
	slot := c.now.Sub(epoch)/c.interval + 1
	c.next = epoch.Add(slot * c.interval)
}

// recorder is the dock.Listener collecting the report.
type recorder struct {
	writes      []Write
	phases      []PhaseChange
	activations []float64
	frames      int
}

func (r *recorder) PositionChanged(c dock.PositionChange) {
	r.writes = append(r.writes, Write{
		At:       sinceEpochMS(c.Time),
		Position: c.Position,
		Phase:    c.Phase,
		Settling: c.Settling,
	})
}

func (r *recorder) PhaseChanged(p dock.Phase, at time.Time) {
	r.phases = append(r.phases, PhaseChange{At: sinceEpochMS(at), Phase: p})
}

func (r *recorder) Activated(at time.Time) {
	r.activations = append(r.activations, sinceEpochMS(at))
}

// host is a dock.Host with a settable size that counts captures.
type host struct {
	size       schemas.Size
	captures   int
	suppressed bool
}

func (h *host) Size() schemas.Size { return h.size }

func (h *host) CapturePointer() dock.Capture {
	h.captures++
	return &capture{host: h}
}

func (h *host) SuppressSelection(suppressed bool) { h.suppressed = suppressed }

type capture struct {
	host     *host
	released bool
}

func (c *capture) Release() {
	if c.released {
		return
	}
	c.released = true
	c.host.captures--
}
