package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

const maxHistory = 1000

// Handler in-process consumer of envelopes
type Handler interface {
	Handle(ctx context.Context, envelope Envelope) error
	Name() string
}

// PublishResult one entry of the bus publish history
type PublishResult struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Success     bool      `json:"success"`
	Message     string    `json:"message,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// EventBus synchronous in-process publisher with named subscribers
type EventBus struct {
	handlers  map[string][]Handler
	mu        sync.RWMutex
	history   []PublishResult
	muHistory sync.Mutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]Handler),
		history:  make([]PublishResult, 0),
	}
}

// Publish delivers to handlers of the envelope's type and to AllEvents handlers.
// Every handler runs; their errors are joined.
func (bus *EventBus) Publish(ctx context.Context, envelope Envelope) error {
	if err := Validate(envelope); err != nil {
		return err
	}

	bus.mu.RLock()
	handlers := append([]Handler{}, bus.handlers[envelope.EventType]...)
	handlers = append(handlers, bus.handlers[AllEvents]...)
	bus.mu.RUnlock()

	result := PublishResult{
		EventID:     envelope.EventID,
		EventType:   envelope.EventType,
		Success:     true,
		PublishedAt: time.Now(),
	}
	if len(handlers) == 0 {
		result.Message = "no handlers registered for this event"
	}

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, envelope); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", h.Name(), err))
		}
	}
	if len(errs) > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("%d handlers failed", len(errs))
	}
	bus.record(result)

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %w", envelope.EventType, errors.Join(errs...))
	}
	return nil
}

// PublishBatch publishes in order and keeps going after a failure
func (bus *EventBus) PublishBatch(ctx context.Context, envelopes []Envelope) error {
	var errs []error
	for _, e := range envelopes {
		if err := bus.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (bus *EventBus) Subscribe(eventType string, handler Handler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, h := range bus.handlers[eventType] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventType)
		}
	}
	bus.handlers[eventType] = append(bus.handlers[eventType], handler)
	return nil
}

func (bus *EventBus) Unsubscribe(eventType string, handler Handler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	handlers := bus.handlers[eventType]
	for i, h := range handlers {
		if h.Name() == handler.Name() {
			bus.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// History copy of the most recent publish results, oldest first
func (bus *EventBus) History() []PublishResult {
	bus.muHistory.Lock()
	defer bus.muHistory.Unlock()

	history := make([]PublishResult, len(bus.history))
	copy(history, bus.history)
	return history
}

func (bus *EventBus) record(result PublishResult) {
	bus.muHistory.Lock()
	defer bus.muHistory.Unlock()

	bus.history = append(bus.history, result)
	if len(bus.history) > maxHistory {
		bus.history = bus.history[len(bus.history)-maxHistory:]
	}
}

// FuncHandler adapts a function to Handler
type FuncHandler struct {
	name string
	fn   func(context.Context, Envelope) error
}

func NewFuncHandler(name string, fn func(context.Context, Envelope) error) *FuncHandler {
	if name == "" {
		name = fmt.Sprintf("func-handler-%d", time.Now().UnixNano())
	}
	return &FuncHandler{name: name, fn: fn}
}

func (h *FuncHandler) Handle(ctx context.Context, envelope Envelope) error {
	return h.fn(ctx, envelope)
}

func (h *FuncHandler) Name() string {
	return h.name
}

// Validate rejects envelopes missing the fields consumers key on
func Validate(e Envelope) error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("event id cannot be empty")
	case e.EventType == "":
		return fmt.Errorf("event type cannot be empty")
	case e.OccurredAt == "":
		return fmt.Errorf("occurred_at cannot be empty")
	}
	return nil
}

var _ Publisher = (*EventBus)(nil)
