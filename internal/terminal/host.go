// internal/terminal/host.go
package terminal

import (
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/xkilldash9x/floatdock/api/schemas"
	"github.com/xkilldash9x/floatdock/internal/dock"
)

// Host mounts the control on a tcell screen. The surface is measured in cells.
type Host struct {
	screen tcell.Screen
	mu     sync.Mutex

	captures   int
	selectable atomic.Bool
}

// NewHost wraps an initialized screen and enables button and drag reporting.
func NewHost(screen tcell.Screen) *Host {
	h := &Host{screen: screen}
	h.selectable.Store(true)
	screen.EnableMouse(tcell.MouseButtonEvents, tcell.MouseDragEvents)
	return h
}

// Size implements dock.Surface.
func (h *Host) Size() schemas.Size {
	w, ht := h.screen.Size()
	return schemas.Size{Width: float64(w), Height: float64(ht)}
}

// CapturePointer implements dock.Host. While a capture is held the terminal
// reports every motion, so the drag follows the pointer anywhere on screen.
func (h *Host) CapturePointer() dock.Capture {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.captures++
	if h.captures == 1 {
		h.screen.EnableMouse(tcell.MouseButtonEvents, tcell.MouseDragEvents, tcell.MouseMotionEvents)
	}
	return &capture{host: h}
}

// SuppressSelection implements dock.Host. Terminal selection is owned by the
// emulator and is already off while mouse reporting is on, so only the state
// is recorded for the status line.
func (h *Host) SuppressSelection(suppressed bool) {
	h.selectable.Store(!suppressed)
}

// Selectable reports whether text selection is currently allowed.
func (h *Host) Selectable() bool {
	return h.selectable.Load()
}

// Captured reports whether a pointer capture is held.
func (h *Host) Captured() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.captures > 0
}

func (h *Host) release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.captures == 0 {
		return
	}
	h.captures--
	if h.captures == 0 {
		h.screen.EnableMouse(tcell.MouseButtonEvents, tcell.MouseDragEvents)
	}
}

type capture struct {
	host     *Host
	released atomic.Bool
}

func (c *capture) Release() {
	if c.released.CompareAndSwap(false, true) {
		c.host.release()
	}
}
