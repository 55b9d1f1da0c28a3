package unit

import (
	"sync"

	"github.com/viant/modtree/service/event"
)

// Handler receives lifecycle signals.
type Handler func(e *event.Event[Notice])

// Channel is a single-subscriber signal point owned by a unit.
type Channel struct {
	mux     sync.RWMutex
	handler Handler
}

// Subscribe installs handler, replacing any previous one; nil unsubscribes.
func (c *Channel) Subscribe(handler Handler) {
	c.mux.Lock()
	c.handler = handler
	c.mux.Unlock()
}

// Subscribed reports whether a handler is installed.
func (c *Channel) Subscribed() bool {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.handler != nil
}

// Emit hands e to the subscriber synchronously and reports whether one was
// installed.
func (c *Channel) Emit(e *event.Event[Notice]) bool {
	c.mux.RLock()
	handler := c.handler
	c.mux.RUnlock()
	if handler == nil {
		return false
	}
	handler(e)
	return true
}
