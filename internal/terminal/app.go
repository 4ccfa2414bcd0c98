// internal/terminal/app.go
package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/xkilldash9x/floatdock/api/schemas"
	"github.com/xkilldash9x/floatdock/internal/config"
	"github.com/xkilldash9x/floatdock/internal/dock"
	"github.com/xkilldash9x/floatdock/internal/signal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App mounts a dock on a terminal screen.
//
// Three goroutines run under one errgroup: the input pump reads the screen,
// the loop owns the dock, its adapter and the frame queue, and the view
// renders from the signal bus. Only the loop ever touches the dock.
type App struct {
	screen tcell.Screen
	cfg    config.Interface
	logger *zap.Logger

	host *Host
	view *View
}

// NewApp prepares an app on an initialized screen. Run takes ownership of
// the screen and finalizes it on exit.
func NewApp(screen tcell.Screen, cfg config.Interface, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	host := NewHost(screen)
	term := cfg.Terminal()
	control := schemas.Size{Width: term.Control.Width, Height: term.Control.Height}
	return &App{
		screen: screen,
		cfg:    cfg,
		logger: logger.Named("terminal"),
		host:   host,
		view:   NewView(screen, host, control, term.Label, term.MaxFPS, logger),
	}
}

// View returns the renderer, mostly for inspection.
func (a *App) View() *View { return a.view }

// Host returns the dock host backed by the screen.
func (a *App) Host() *Host { return a.host }

// DockConfig derives engine tunables for a cell-measured surface: the dock
// section supplies the physics and the terminal section overrides geometry.
func DockConfig(cfg config.Interface) dock.Config {
	dc := dock.FromSettings(cfg.Dock())
	term := cfg.Terminal()
	dc.Control = schemas.Size{Width: term.Control.Width, Height: term.Control.Height}
	dc.Margin = term.Margin
	dc.DragThreshold = term.DragThreshold
	dc.FrameInterval = term.FrameInterval
	return dc
}

// Run blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	bus := signal.NewBus(a.logger, a.cfg.Signal().BufferSize)
	msgs, unsubscribe := bus.Subscribe(signal.TypePosition, signal.TypeSession, signal.TypeActivated)
	defer unsubscribe()

	a.screen.EnableFocus()

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event)
	quit := make(chan struct{})

	// The view must be consuming before the dock publishes its mount position.
	viewDone := make(chan struct{})
	g.Go(func() error {
		defer close(viewDone)
		return a.view.Run(msgs, bus)
	})

	g.Go(func() error {
		return a.pump(events, quit)
	})

	frames := dock.NewFrameQueue()
	d := dock.New(DockConfig(a.cfg), a.host, frames, dock.NewBusListener(gctx, bus, a.logger), a.logger)
	adapter := dock.NewAdapter(d, a.host, a.logger, dock.WithSynthesizedClick())

	g.Go(func() error {
		defer func() {
			adapter.Close()
			bus.Shutdown()
			<-viewDone
			close(quit)
			a.screen.Fini()
		}()
		return a.loop(gctx, d, adapter, frames, events)
	})

	err := g.Wait()
	a.logger.Info("Terminal host stopped")
	return err
}

// pump forwards screen events until the screen is finalized.
func (a *App) pump(events chan<- tcell.Event, quit <-chan struct{}) error {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		select {
		case events <- ev:
		case <-quit:
			return nil
		}
	}
}

func (a *App) loop(ctx context.Context, d *dock.Dock, adapter *dock.Adapter, frames *dock.FrameQueue, events <-chan tcell.Event) error {
	ticker := time.NewTicker(d.Config().FrameInterval)
	defer ticker.Stop()

	var decoder mouseDecoder
	a.logger.Info("Terminal host started",
		zap.Float64("x", d.Position().X),
		zap.Float64("y", d.Position().Y))

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			if frames.Pending() > 0 {
				frames.Flush(now)
			}

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventMouse:
				pe, ok := decoder.decode(ev)
				if !ok {
					continue
				}
				adapter.Handle(&pe)

			case *tcell.EventResize:
				a.screen.Sync()
				d.Resize(ev.When())
				a.view.Invalidate()

			case *tcell.EventFocus:
				// tcell leaves focus events unstamped; When() would panic.
				if !ev.Focused && decoder.reset() {
					// The release will never arrive.
					adapter.Handle(&schemas.PointerEvent{
						Type: schemas.PointerCancel,
						Kind: schemas.KindMouse,
						Time: time.Now(),
					})
				}

			case *tcell.EventKey:
				if isQuitKey(ev) {
					a.logger.Debug("Quit requested")
					return nil
				}
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
