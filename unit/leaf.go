package unit

import (
	"context"
	"fmt"

	"github.com/viant/modtree/progress"
	"github.com/viant/modtree/service/event"
	"github.com/viant/modtree/tracing"
)

// Leaf is a unit without children delegating its lifecycle to hooks.
type Leaf struct {
	base
	hooks Hooks
}

// NewLeaf creates a leaf; nil hooks behave as no-ops.
func NewLeaf(name string, hooks Hooks, opts ...Option) *Leaf {
	if hooks == nil {
		hooks = nopHooks{}
	}
	ret := &Leaf{hooks: hooks}
	ret.base.init(name, ret, newOptions(opts))
	return ret
}

// IsContainer returns false.
func (l *Leaf) IsContainer() bool { return false }

// Load runs the load hook.
func (l *Leaf) Load(ctx context.Context) error { return callHook(ctx, l.hooks.Load) }

// Unload runs the unload hook.
func (l *Leaf) Unload(ctx context.Context) error { return callHook(ctx, l.hooks.Unload) }

// Init loads the leaf. A failure is logged, signalled once and returned as
// *LoadError.
func (l *Leaf) Init(ctx context.Context) (err error) {
	ctx, span := l.startSpan(ctx, "init")
	defer func() { tracing.EndSpan(span, err) }()
	progress.UpdateCtx(ctx, progress.Started)
	l.setState(StateStarting)

	if loadErr := l.Load(ctx); loadErr != nil {
		err = &LoadError{Unit: l.name, Err: loadErr}
		if !l.finishInit(StateFailed) {
			return err
		}
		progress.UpdateCtx(ctx, progress.Failed)
		l.log.Failed(fmt.Sprintf("Module %v failed to load, aborting: %v", l.name, loadErr))
		l.emit(ctx, event.TypeFailed, Notice{Source: l, Err: err})
		return err
	}
	if !l.finishInit(StateRunning) {
		l.log.Warning(fmt.Sprintf("Module %v loaded after it was detached.", l.name))
		return nil
	}
	progress.UpdateCtx(ctx, progress.Succeeded)
	l.log.Success(fmt.Sprintf("Module %v successfully loaded.", l.name))
	return nil
}

// Kill unloads the leaf. Unload failures are logged and swallowed; a second
// call is a no-op.
func (l *Leaf) Kill(ctx context.Context) {
	if !l.beginKill() {
		return
	}
	ctx, span := l.startSpan(ctx, "kill")
	l.log.System(fmt.Sprintf("[*] Detaching %v.", l.name))
	var unloadErr error
	if err := l.Unload(ctx); err != nil {
		unloadErr = &UnloadError{Unit: l.name, Err: err}
		l.log.Failed(unloadErr.Error())
	}
	l.setState(StateStopped)
	progress.UpdateCtx(ctx, progress.Detached)
	l.log.System(fmt.Sprintf("[*] Module %v detached.", l.name))
	tracing.EndSpan(span, unloadErr)
}

// Use logs a warning and returns nil; leaves have no children.
func (l *Leaf) Use(name string) Unit {
	l.log.Warning(fmt.Sprintf("You are trying to invoke child %q on module %v but it is not a container.", name, l.name))
	return nil
}

// Add fails with *UsageError.
func (l *Leaf) Add(Unit) error { return notContainer(l.name, "add") }

// Remove fails with *UsageError.
func (l *Leaf) Remove(Unit) error { return notContainer(l.name, "remove") }

// Children returns nil.
func (l *Leaf) Children() []Unit { return nil }

var _ Unit = (*Leaf)(nil)
