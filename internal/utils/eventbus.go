package utils

import (
	"context"
	"sync"
)

type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Handler func(event Event)

// EventBus fans board lifecycle events out to subscribers. Publish never blocks;
// events are dropped once the buffer is full.
type EventBus struct {
	subscribers map[string][]Handler
	events      chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Handler),
		events:      make(chan Event, 100),
	}
}

func (eb *EventBus) Publish(event string, data interface{}) {
	e := Event{Event: event, Data: data}
	select {
	case eb.events <- e:
	default:
	}
}

func (eb *EventBus) Subscribe(event string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[event] = append(eb.subscribers[event], handler)
}

// SubscribeAll registers handler for every event name.
func (eb *EventBus) SubscribeAll(handler Handler) {
	eb.Subscribe("*", handler)
}

// Run dispatches queued events until ctx is cancelled.
func (eb *EventBus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-eb.events:
			eb.dispatch(e)
		}
	}
}

func (eb *EventBus) dispatch(e Event) {
	eb.mu.RLock()
	handlers := make([]Handler, 0, len(eb.subscribers[e.Event])+len(eb.subscribers["*"]))
	handlers = append(handlers, eb.subscribers[e.Event]...)
	handlers = append(handlers, eb.subscribers["*"]...)
	eb.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
