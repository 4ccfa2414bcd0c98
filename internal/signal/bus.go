// internal/signal/bus.go
package signal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBusShutdown is returned by Post once the bus has been shut down.
var ErrBusShutdown = errors.New("signal bus is shut down")

// Type defines the categories of signals a mounted control emits.
type Type string

const (
	TypePosition  Type = "DOCK_POSITION"  // Every write to the control's position
	TypeActivated Type = "DOCK_ACTIVATED" // A tap qualified as an activation
	TypeSession   Type = "DOCK_SESSION"   // Drag session phase transitions
)

// Payload is the body of a signal. Each payload names its own type, so a
// message can never carry a body that disagrees with its Type.
type Payload interface {
	SignalType() Type
}

// Message is the envelope for data transmitted over the Bus.
type Message struct {
	ID        string
	Timestamp time.Time
	Type      Type
	Payload   Payload
}

// Bus fans signals out from the dock's owner loop to its observers.
//
// Position signals are coalesced per subscriber: a position waiting in a
// subscriber's queue is overwritten by the next one, since only the latest
// position matters to a renderer. Posting a position therefore never blocks.
// Session and activation signals are never dropped; once a subscriber has
// bufferSize of them queued, Post waits for it to catch up.
//
// Consumers must Acknowledge every message they receive.
type Bus struct {
	logger     *zap.Logger
	bufferSize int

	mu   sync.RWMutex
	subs map[*subscription]struct{}

	// Messages queued or handed to a consumer and not yet acknowledged.
	pending sync.WaitGroup
	posts   sync.WaitGroup
	pumps   sync.WaitGroup

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	shutdownMu   sync.Mutex
	isShutdown   bool
}

// NewBus initializes the Bus. bufferSize bounds the undeliverable session
// and activation signals queued per subscriber; it is at least one.
func NewBus(logger *zap.Logger, bufferSize int) *Bus {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Bus{
		logger:       logger.Named("signal_bus"),
		bufferSize:   bufferSize,
		subs:         make(map[*subscription]struct{}),
		shutdownChan: make(chan struct{}),
	}
}

// subscription is one consumer: a queue filled by Post and a pump goroutine
// moving it onto the consumer's channel in order.
type subscription struct {
	types map[Type]struct{}
	out   chan Message

	mu     sync.Mutex
	queue  []Message
	closed bool

	wake  chan struct{}
	space chan struct{}
	done  chan struct{}
	once  sync.Once
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Post publishes payload to every subscriber of its type.
func (b *Bus) Post(ctx context.Context, payload Payload) error {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return ErrBusShutdown
	}
	b.posts.Add(1)
	b.shutdownMu.Unlock()
	defer b.posts.Done()

	msg := Message{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      payload.SignalType(),
		Payload:   payload,
	}

	b.mu.RLock()
	var targets []*subscription
	for s := range b.subs {
		if _, ok := s.types[msg.Type]; ok {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		if err := b.enqueue(ctx, s, msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) enqueue(ctx context.Context, s *subscription, msg Message) error {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil
		}
		n := len(s.queue)
		if msg.Type == TypePosition && n > 0 && s.queue[n-1].Type == TypePosition {
			// Replaces an undelivered position; the pending count is unchanged.
			s.queue[n-1] = msg
			s.mu.Unlock()
			return nil
		}
		if msg.Type == TypePosition || b.countDurable(s) < b.bufferSize {
			s.queue = append(s.queue, msg)
			b.pending.Add(1)
			s.mu.Unlock()
			notify(s.wake)
			return nil
		}
		s.mu.Unlock()

		select {
		case <-s.space:
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-b.shutdownChan:
			return ErrBusShutdown
		}
	}
}

// countDurable counts queued signals that are never coalesced. s.mu is held.
func (b *Bus) countDurable(s *subscription) int {
	n := 0
	for _, m := range s.queue {
		if m.Type != TypePosition {
			n++
		}
	}
	return n
}

// Subscribe returns a channel delivering the given signal types in posting
// order and a function that removes the subscription and closes the channel.
func (b *Bus) Subscribe(types ...Type) (<-chan Message, func()) {
	if len(types) == 0 {
		panic("must subscribe to at least one signal type")
	}

	s := &subscription{
		types: make(map[Type]struct{}, len(types)),
		out:   make(chan Message),
		wake:  make(chan struct{}, 1),
		space: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	for _, t := range types {
		s.types[t] = struct{}{}
	}

	b.shutdownMu.Lock()
	defer b.shutdownMu.Unlock()
	if b.isShutdown {
		closed := make(chan Message)
		close(closed)
		return closed, func() {}
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	b.pumps.Add(1)
	go b.pump(s)

	unsubscribe := func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		b.stop(s)
	}
	return s.out, unsubscribe
}

// pump delivers the queue of s until the subscription stops.
func (b *Bus) pump(s *subscription) {
	defer b.pumps.Done()
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		msg := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		notify(s.space)

		select {
		case s.out <- msg:
			// Delivered. The consumer must call Acknowledge.
		case <-s.done:
			b.pending.Done()
			return
		}
	}
}

// stop closes s and discards whatever it still had queued.
func (b *Bus) stop(s *subscription) int {
	dropped := 0
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		dropped = len(s.queue)
		s.queue = nil
		s.mu.Unlock()
		for i := 0; i < dropped; i++ {
			b.pending.Done()
		}
		close(s.done)
	})
	return dropped
}

// Acknowledge signals that a message has been processed by a consumer.
func (b *Bus) Acknowledge(Message) {
	b.pending.Done()
}

// Shutdown closes the bus: in-flight posts return, every subscription is
// stopped and its channel closed, and undelivered signals are discarded.
// It then waits for consumers to acknowledge what they already received.
func (b *Bus) Shutdown() {
	b.shutdownOnce.Do(func() {
		b.logger.Debug("Shutting down signal bus")

		b.shutdownMu.Lock()
		b.isShutdown = true
		b.shutdownMu.Unlock()

		close(b.shutdownChan)
		b.posts.Wait()

		b.mu.Lock()
		subs := b.subs
		b.subs = make(map[*subscription]struct{})
		b.mu.Unlock()

		dropped := 0
		for s := range subs {
			dropped += b.stop(s)
		}
		b.pumps.Wait()

		if dropped > 0 {
			b.logger.Debug("Discarded undelivered signals during shutdown", zap.Int("count", dropped))
		}

		b.pending.Wait()
		b.logger.Debug("Signal bus shut down")
	})
}
