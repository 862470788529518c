package pubsub

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Signal delivers events synchronously to every connected listener.
// Send returns only after all listeners have run, in connection order.
// An event is considered fired even when no listener is connected.
type Signal[T any] struct {
	mu        sync.RWMutex
	nextID    int
	listeners []signalEntry[T]
}

type signalEntry[T any] struct {
	id int
	fn func(Event[T])
}

// NewSignal creates an empty signal.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers a listener and returns a function that disconnects it.
func (s *Signal[T]) Connect(fn func(Event[T])) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, signalEntry[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Send fires an event to every listener, synchronously.
func (s *Signal[T]) Send(eventType EventType, payload T) Event[T] {
	event := Event[T]{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	s.mu.RLock()
	listeners := make([]signalEntry[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, entry := range listeners {
		entry.fn(event)
	}
	return event
}

// ListenerCount returns the number of connected listeners.
func (s *Signal[T]) ListenerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
