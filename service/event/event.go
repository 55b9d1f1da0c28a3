// Package event carries lifecycle signals (failed, ready) between units of a
// tree and the handler that reacts to them.
package event

import (
	"time"

	"github.com/viant/modtree/internal/clock"
)

// Type names a lifecycle signal.
type Type string

const (
	// TypeFailed signals that a unit or subtree failed to load.
	TypeFailed Type = "failed"
	// TypeReady signals that the whole tree finished loading.
	TypeReady Type = "ready"
)

// Context describes where and when a signal originated.
type Context struct {
	RunID       string `json:"runID,omitempty"`
	Unit        string `json:"unit"`
	Container   string `json:"container,omitempty"`
	EventType   Type   `json:"eventType"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

// Event is a signal with a typed payload.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// Type returns the signal type or an empty string for a nil context.
func (e *Event[T]) Type() Type {
	if e == nil || e.Context == nil {
		return ""
	}
	return e.Context.EventType
}

// NewEvent creates an event stamped with the current time.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
