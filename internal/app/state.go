// Package app runs the sampling loop: it owns the click state, reads frames,
// and hands the live view and info panel to the display.
package app

import (
	"image"
	"sync"
)

// Phase is the click-handling state.
type Phase int

const (
	Idle            Phase = iota // No click waiting
	SampleRequested              // A click arrived and has not been processed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case SampleRequested:
		return "SampleRequested"
	default:
		return "Unknown"
	}
}

// State holds the last click and whether it still needs sampling.
//
// Request is called from the display's event goroutine and Consume from the
// loop. Each is one critical section, so a click is never half-applied, and a
// click that lands while an earlier one is being processed stays pending for
// the next iteration. Clicks arriving between two Consume calls collapse into
// the most recent one.
type State struct {
	mu       sync.Mutex
	click    image.Point
	hasClick bool
	pending  bool
}

// Request records a click: Idle -> SampleRequested, or replaces the
// coordinate of a click that has not been consumed yet.
func (s *State) Request(pt image.Point) {
	s.mu.Lock()
	s.click = pt
	s.hasClick = true
	s.pending = true
	s.mu.Unlock()
}

// Consume returns the pending click, if any, and moves to Idle.
func (s *State) Consume() (image.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return image.Point{}, false
	}
	s.pending = false
	return s.click, true
}

// Marker returns the most recent click, processed or not.
func (s *State) Marker() (image.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.click, s.hasClick
}

// Phase reports the current phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return SampleRequested
	}
	return Idle
}

// EventType identifies loop events.
type EventType int

const (
	EventSampled         EventType = iota // data: *Pick
	EventClickRejected                    // data: image.Point
	EventSettingsChanged                  // data: Settings
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

type listeners struct {
	mu sync.RWMutex
	m  map[EventType][]EventListener
}

// On registers an event listener for the specified event type.
func (l *listeners) On(event EventType, listener EventListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[EventType][]EventListener)
	}
	l.m[event] = append(l.m[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (l *listeners) Emit(event EventType, data interface{}) {
	l.mu.RLock()
	ls := l.m[event]
	l.mu.RUnlock()

	for _, listener := range ls {
		listener(data)
	}
}
