// Package app provides application-wide events and notifications.
package app

import "sync"

// EventType identifies different application events.
type EventType int

const (
	EventPolygonsChanged EventType = iota
	EventLoadingChanged
	EventDraftChanged
	EventNotification
)

// Level indicates the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notification is a transient, user-visible message.
type Notification struct {
	Level   Level
	Message string
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Events is a simple in-process event bus connecting the core components to
// the presentation shell.
type Events struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewEvents creates an empty event bus.
func NewEvents() *Events {
	return &Events{listeners: make(map[EventType][]EventListener)}
}

// On registers an event listener for the specified event type.
func (e *Events) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *Events) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Notify emits a user-visible notification.
func (e *Events) Notify(level Level, message string) {
	e.Emit(EventNotification, Notification{Level: level, Message: message})
}
