// internal/terminal/view.go
package terminal

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/xkilldash9x/floatdock/api/schemas"
	"github.com/xkilldash9x/floatdock/internal/dock"
	"github.com/xkilldash9x/floatdock/internal/signal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	styleBase     = tcell.StyleDefault
	styleControl  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	styleGrabbing = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	stylePanel    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// viewState is what the view knows about the control, built only from signals.
type viewState struct {
	position    dock.Vector2D
	phase       dock.Phase
	settling    bool
	panelOpen   bool
	activations int
}

// View renders the control from the position stream and plays the external
// collaborator: every activation toggles a placeholder panel.
type View struct {
	screen  tcell.Screen
	host    *Host
	control schemas.Size
	label   string
	frame   time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger

	mu    sync.Mutex
	state viewState
	dirty atomic.Bool
}

// NewView creates a view redrawing at most maxFPS times per second.
func NewView(screen tcell.Screen, host *Host, control schemas.Size, label string, maxFPS int, logger *zap.Logger) *View {
	if maxFPS <= 0 {
		maxFPS = 60
	}
	return &View{
		screen:  screen,
		host:    host,
		control: control,
		label:   label,
		frame:   time.Second / time.Duration(maxFPS),
		limiter: rate.NewLimiter(rate.Limit(maxFPS), 1),
		logger:  logger.Named("view"),
	}
}

// Run consumes signals until the bus closes the channel.
func (v *View) Run(msgs <-chan signal.Message, bus *signal.Bus) error {
	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			v.apply(msg)
			bus.Acknowledge(msg)
			v.dirty.Store(true)
			v.flush()
		case <-ticker.C:
			v.flush()
		}
	}
}

// Invalidate forces a redraw on the next tick, e.g. after a resize.
func (v *View) Invalidate() {
	v.dirty.Store(true)
}

// PanelOpen reports whether the placeholder panel is shown.
func (v *View) PanelOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.panelOpen
}

// Position returns the last position received from the stream.
func (v *View) Position() dock.Vector2D {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.position
}

func (v *View) apply(msg signal.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch p := msg.Payload.(type) {
	case dock.PositionChange:
		v.state.position = p.Position
		v.state.settling = p.Settling
	case dock.PhaseEvent:
		v.state.phase = p.Phase
	case dock.ActivatedEvent:
		v.state.panelOpen = !v.state.panelOpen
		v.state.activations++
		v.logger.Debug("Panel toggled", zap.Bool("open", v.state.panelOpen))
	}
}

func (v *View) flush() {
	if !v.dirty.Load() || !v.limiter.Allow() {
		return
	}
	v.dirty.Store(false)

	v.mu.Lock()
	st := v.state
	v.mu.Unlock()

	v.draw(st)
}

func (v *View) draw(st viewState) {
	v.screen.Fill(' ', styleBase)
	w, h := v.screen.Size()

	if st.panelOpen {
		v.drawPanel(st, w, h)
	}

	selection := "on"
	if !v.host.Selectable() {
		selection = "off"
	}
	status := fmt.Sprintf("%s | selection %s | activations %d | q quits", st.phase, selection, st.activations)
	drawText(v.screen, 0, 0, status, styleStatus)

	style := styleControl
	if st.phase == dock.PhaseDragging {
		style = styleGrabbing
	}
	x := int(math.Round(st.position.X))
	y := int(math.Round(st.position.Y))
	fillRect(v.screen, x, y, int(v.control.Width), int(v.control.Height), style)
	// Labels are measured in cells, so wide runes count twice.
	label := runewidth.Truncate(v.label, int(v.control.Width), "")
	lx := x + (int(v.control.Width)-runewidth.StringWidth(label))/2
	ly := y + int(v.control.Height)/2
	drawText(v.screen, lx, ly, label, style)

	v.screen.Show()
}

// drawPanel places the panel on the side of the screen opposite the control.
func (v *View) drawPanel(st viewState, w, h int) {
	pw := w / 3
	ph := h / 2
	px := 2
	if st.position.X < float64(w)/2 {
		px = w - pw - 2
	}
	py := (h - ph) / 2
	fillRect(v.screen, px, py, pw, ph, stylePanel)
	drawText(v.screen, px+1, py, "panel", stylePanel)
}

func fillRect(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
}
