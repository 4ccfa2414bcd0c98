// internal/dock/signals.go
package dock

import (
	"context"
	"time"

	"github.com/xkilldash9x/floatdock/internal/signal"
	"go.uber.org/zap"
)

// ActivatedEvent is the payload of a signal.TypeActivated message.
type ActivatedEvent struct {
	At time.Time `json:"at"`
}

// PhaseEvent is the payload of a signal.TypeSession message.
type PhaseEvent struct {
	Phase Phase     `json:"phase"`
	At    time.Time `json:"at"`
}

func (PositionChange) SignalType() signal.Type { return signal.TypePosition }
func (PhaseEvent) SignalType() signal.Type     { return signal.TypeSession }
func (ActivatedEvent) SignalType() signal.Type { return signal.TypeActivated }

// BusListener publishes the engine's outputs on a signal bus. Position
// posts never block the owner loop; the bus keeps only the latest one per
// subscriber. Post failures are logged and never reach the engine.
type BusListener struct {
	ctx    context.Context
	bus    *signal.Bus
	logger *zap.Logger
}

// NewBusListener creates a listener posting with ctx.
func NewBusListener(ctx context.Context, bus *signal.Bus, logger *zap.Logger) *BusListener {
	return &BusListener{ctx: ctx, bus: bus, logger: logger.Named("signals")}
}

// PositionChanged implements Listener.
func (l *BusListener) PositionChanged(change PositionChange) {
	l.post(change)
}

// PhaseChanged implements Listener.
func (l *BusListener) PhaseChanged(phase Phase, at time.Time) {
	l.post(PhaseEvent{Phase: phase, At: at})
}

// Activated implements Listener.
func (l *BusListener) Activated(at time.Time) {
	l.post(ActivatedEvent{At: at})
}

func (l *BusListener) post(p signal.Payload) {
	if err := l.bus.Post(l.ctx, p); err != nil && l.ctx.Err() == nil {
		l.logger.Warn("Failed to publish signal", zap.String("type", string(p.SignalType())), zap.Error(err))
	}
}
