package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tickdown/internal/logger"
)

// Event types published on the bus.
const (
	TimerStarted      = "timer.started"
	TimerPaused       = "timer.paused"
	TimerResumed      = "timer.resumed"
	TimerFinished     = "timer.finished"
	TimerReset        = "timer.reset"
	TimerAcknowledged = "timer.acknowledged"
	ConfigReloaded    = "config.reloaded"
)

// Event is one notification. Data carries event-specific payload such
// as the armed duration or the run outcome.
type Event struct {
	Type      string
	Timestamp time.Time
	Data      map[string]interface{}
}

// Handler receives events for the types it subscribed to. GetID must be
// stable; it identifies the handler for unsubscription.
type Handler interface {
	Handle(event Event)
	GetID() string
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc struct {
	id string
	fn func(Event)
}

func NewHandlerFunc(id string, fn func(Event)) HandlerFunc {
	return HandlerFunc{id: id, fn: fn}
}

func (h HandlerFunc) Handle(event Event) {
	h.fn(event)
}

func (h HandlerFunc) GetID() string {
	return h.id
}

// Bus is a buffered asynchronous event bus. Publishing never blocks:
// when the buffer is full the event is dropped. A single worker
// dispatches events in publish order; a panicking handler is recovered
// and does not stop dispatch.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	closed      bool

	buffer chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	log logger.Logger
}

func NewBus(bufferSize int, log logger.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	if log == nil {
		log = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &Bus{
		subscribers: make(map[string][]Handler),
		buffer:      make(chan Event, bufferSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}

	bus.startWorker()
	return bus
}

// Publish queues an event for dispatch, stamping it with the current
// time. Events published after Shutdown, or while the buffer is full,
// are dropped.
func (b *Bus) Publish(eventType string, data map[string]interface{}) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	select {
	case b.buffer <- event:
	default:
		b.log.Warning("EventBus", "event dropped, buffer full", map[string]interface{}{
			"type": eventType,
		})
	}
}

func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Unsubscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.GetID() == handler.GetID() {
			b.subscribers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
}

// Shutdown stops the worker. Events still queued are discarded. Safe to
// call more than once.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for {
			select {
			case event := <-b.buffer:
				b.dispatchEvent(event)
			case <-b.ctx.Done():
				return
			}
		}
	}()
}

func (b *Bus) dispatchEvent(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subscribers[event.Type]))
	copy(handlers, b.subscribers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.safeHandle(handler, event)
	}
}

func (b *Bus) safeHandle(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("EventBus", fmt.Errorf("handler panic: %v", r), map[string]interface{}{
				"handler": handler.GetID(),
				"type":    event.Type,
			})
		}
	}()
	handler.Handle(event)
}
