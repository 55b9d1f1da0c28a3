package unit

import "context"

// Unit is a named node of the module tree.
type Unit interface {
	// Name returns the immutable identity of the unit.
	Name() string
	// Container returns the owning composite, nil for roots and detached units.
	Container() Unit
	// SetContainer is called by the composite adding or removing the unit.
	SetContainer(container Unit)
	// IsContainer reports whether the unit can own children.
	IsContainer() bool
	// Init starts the unit and its subtree.
	Init(ctx context.Context) error
	// Kill stops the unit and its subtree; failures are logged, never returned.
	Kill(ctx context.Context)
	// Use returns the direct child called name, or nil.
	Use(name string) Unit
	// Add appends child to the unit's children.
	Add(child Unit) error
	// Remove detaches child from the unit's children.
	Remove(child Unit) error
	// Children returns a snapshot of the direct children.
	Children() []Unit
	// Events returns the unit's signal channel.
	Events() *Channel
	// State returns the current lifecycle state.
	State() State
}

// Hooks are the user supplied load and unload steps of a leaf or composite.
type Hooks interface {
	Load(ctx context.Context) error
	Unload(ctx context.Context) error
}

// HookFuncs adapts plain functions to Hooks; nil functions are no-ops.
type HookFuncs struct {
	OnLoad   func(ctx context.Context) error
	OnUnload func(ctx context.Context) error
}

// Load runs OnLoad.
func (h HookFuncs) Load(ctx context.Context) error {
	if h.OnLoad == nil {
		return nil
	}
	return h.OnLoad(ctx)
}

// Unload runs OnUnload.
func (h HookFuncs) Unload(ctx context.Context) error {
	if h.OnUnload == nil {
		return nil
	}
	return h.OnUnload(ctx)
}

// Notice is the payload of lifecycle signals.
type Notice struct {
	// Source is the unit that emitted the signal.
	Source Unit
	// Err is the load failure for failed signals.
	Err error
	// Children is a snapshot of the root's children for ready signals.
	Children []Unit
}

// State is the lifecycle state of a unit.
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateFailed
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Walk visits u and its descendants depth first, in child order. Returning
// false from fn skips the subtree of the visited unit.
func Walk(u Unit, fn func(depth int, u Unit) bool) {
	walk(u, 0, fn)
}

func walk(u Unit, depth int, fn func(depth int, u Unit) bool) {
	if u == nil || !fn(depth, u) {
		return
	}
	for _, child := range u.Children() {
		walk(child, depth+1, fn)
	}
}
