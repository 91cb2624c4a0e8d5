package events

import (
	"strings"
	"sync"
)

// SwitchTab asks the rendering layer to reveal a tab. The payload is
// "<container id>.<tab id>".
const SwitchTab = "switch-tab"

// Event is a one-way browser event.
type Event struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}

// Dispatcher delivers browser events. Dispatch is fire-and-forget.
type Dispatcher interface {
	Dispatch(name, payload string)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(name, payload string)

// Dispatch implements Dispatcher.
func (fn DispatcherFunc) Dispatch(name, payload string) { fn(name, payload) }

// Discard drops every event.
var Discard Dispatcher = DispatcherFunc(func(string, string) {})

// TabPayload builds the switch-tab payload for a tab inside container. An
// empty container id yields the tab id alone.
func TabPayload(containerID, tabID string) string {
	containerID = strings.TrimSpace(containerID)
	tabID = strings.TrimSpace(tabID)
	if containerID == "" {
		return tabID
	}
	return containerID + "." + tabID
}

// Recorder keeps dispatched events in order so they can be flushed to the
// client with the response.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Dispatch implements Dispatcher.
func (r *Recorder) Dispatch(name, payload string) {
	r.mu.Lock()
	r.events = append(r.events, Event{Name: name, Payload: payload})
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Flush returns the recorded events and clears the recorder.
func (r *Recorder) Flush() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}
