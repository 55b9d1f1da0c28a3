package unit

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/progress"
	"github.com/viant/modtree/service/event"
	"github.com/viant/modtree/tracing"
)

type runIDKey struct{}

// WithRunID returns a context carrying the run identifier of a tree.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run identifier carried by ctx.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// base holds the state shared by every unit kind.
type base struct {
	name      string
	self      Unit
	log       logger.Sink
	channel   *Channel
	mux       sync.RWMutex
	container Unit
	state     State
}

func (b *base) init(name string, self Unit, opts *options) {
	b.name = name
	b.self = self
	b.log = opts.logger.Named(name)
	b.channel = &Channel{}
}

// Name returns the unit name.
func (b *base) Name() string { return b.name }

// Container returns the owning composite.
func (b *base) Container() Unit {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return b.container
}

// SetContainer sets the owning composite; nil detaches the unit.
func (b *base) SetContainer(container Unit) {
	b.mux.Lock()
	b.container = container
	b.mux.Unlock()
}

// Events returns the signal channel.
func (b *base) Events() *Channel { return b.channel }

// Logger returns the sink tagged with the unit name.
func (b *base) Logger() logger.Sink { return b.log }

// State returns the lifecycle state.
func (b *base) State() State {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return b.state
}

func (b *base) setState(state State) {
	b.mux.Lock()
	b.state = state
	b.mux.Unlock()
}

// beginKill moves the unit to stopping unless it is already stopping or
// stopped.
func (b *base) beginKill() bool {
	b.mux.Lock()
	defer b.mux.Unlock()
	if b.state == StateStopping || b.state == StateStopped {
		return false
	}
	b.state = StateStopping
	return true
}

// finishInit moves the unit out of starting. It reports false, leaving the
// state untouched, when a Kill took over while the unit was loading.
func (b *base) finishInit(state State) bool {
	b.mux.Lock()
	defer b.mux.Unlock()
	if b.state != StateStarting {
		return false
	}
	b.state = state
	return true
}

// emit delivers a signal to the nearest unit, starting with self, whose
// channel has a subscriber.
func (b *base) emit(ctx context.Context, eventType event.Type, notice Notice) bool {
	eventContext := &event.Context{RunID: RunID(ctx), Unit: b.name, EventType: eventType}
	if tracker, ok := progress.FromContext(ctx); ok {
		snapshot := tracker.Snapshot()
		eventContext.TimeTakenMs = snapshot.ElapsedMs()
	}
	if container := b.Container(); container != nil {
		eventContext.Container = container.Name()
	}
	if span, ok := tracing.SpanFromContext(ctx); ok {
		span.AddEvent("signal." + string(eventType))
	}
	e := event.NewEvent(eventContext, notice)
	for u := b.self; u != nil; u = u.Container() {
		if u.Events().Emit(e) {
			return true
		}
	}
	return false
}

func (b *base) startSpan(ctx context.Context, op string) (context.Context, *tracing.Span) {
	ctx, span := tracing.StartSpan(ctx, "unit."+op+" "+b.name)
	kind := "leaf"
	if b.self != nil && b.self.IsContainer() {
		kind = "composite"
	}
	span.WithAttributes(map[string]string{
		"unit.name": b.name,
		"unit.kind": kind,
		"run.id":    RunID(ctx),
	})
	return ctx, span
}

// callHook runs a hook converting panics into errors.
func callHook(ctx context.Context, hook func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panic: %v", r)
		}
	}()
	return hook(ctx)
}

// initUnit runs child.Init converting panics of foreign Unit implementations
// into errors.
func initUnit(ctx context.Context, child Unit) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &LoadError{Unit: child.Name(), Err: fmt.Errorf("init panic: %v", r)}
		}
	}()
	return child.Init(ctx)
}

// killUnit runs child.Kill swallowing panics of foreign Unit implementations.
func killUnit(ctx context.Context, child Unit, log logger.Sink) {
	defer func() {
		if r := recover(); r != nil {
			log.Failed(fmt.Sprintf("module %v panicked while detaching: %v", child.Name(), r))
		}
	}()
	child.Kill(ctx)
}

type nopHooks struct{}

func (nopHooks) Load(context.Context) error   { return nil }
func (nopHooks) Unload(context.Context) error { return nil }
