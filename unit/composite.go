package unit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/modtree/progress"
	"github.com/viant/modtree/service/event"
	"github.com/viant/modtree/tracing"
)

// Composite is a unit owning ordered children and its own hooks.
type Composite struct {
	base
	hooks    Hooks
	childMux sync.RWMutex
	children []Unit
}

// NewComposite creates a composite; nil hooks behave as no-ops.
func NewComposite(name string, hooks Hooks, opts ...Option) *Composite {
	ret := &Composite{}
	ret.init(name, hooks, ret, newOptions(opts))
	return ret
}

func (c *Composite) init(name string, hooks Hooks, self Unit, opts *options) {
	if hooks == nil {
		hooks = nopHooks{}
	}
	c.hooks = hooks
	c.base.init(name, self, opts)
}

// IsContainer returns true.
func (c *Composite) IsContainer() bool { return true }

// Load runs the composite's own load hook.
func (c *Composite) Load(ctx context.Context) error { return callHook(ctx, c.hooks.Load) }

// Unload runs the composite's own unload hook.
func (c *Composite) Unload(ctx context.Context) error { return callHook(ctx, c.hooks.Unload) }

// Add appends child and makes this composite its container. Names are not
// checked for uniqueness.
func (c *Composite) Add(child Unit) error {
	if child == nil {
		return &UsageError{Unit: c.name, Op: "add", Reason: "nil child"}
	}
	if child == c.self {
		return &UsageError{Unit: c.name, Op: "add", Reason: "unit cannot contain itself"}
	}
	c.childMux.Lock()
	c.children = append(c.children, child)
	c.childMux.Unlock()
	child.SetContainer(c.self)
	return nil
}

// Remove detaches the first child identical to child. A unit that is not a
// child leaves the collection untouched and yields ErrChildNotFound.
func (c *Composite) Remove(child Unit) error {
	if child == nil {
		return &UsageError{Unit: c.name, Op: "remove", Reason: "nil child"}
	}
	c.childMux.Lock()
	index := -1
	for i, candidate := range c.children {
		if candidate == child {
			index = i
			break
		}
	}
	if index < 0 {
		c.childMux.Unlock()
		return fmt.Errorf("%w: %v in %v", ErrChildNotFound, child.Name(), c.name)
	}
	c.children = append(c.children[:index:index], c.children[index+1:]...)
	c.childMux.Unlock()
	child.SetContainer(nil)
	return nil
}

// Use returns the first direct child called name, or nil.
func (c *Composite) Use(name string) Unit {
	c.childMux.RLock()
	defer c.childMux.RUnlock()
	for _, child := range c.children {
		if child.Name() == name {
			return child
		}
	}
	return nil
}

// Children returns a snapshot of the direct children.
func (c *Composite) Children() []Unit {
	c.childMux.RLock()
	defer c.childMux.RUnlock()
	if len(c.children) == 0 {
		return nil
	}
	ret := make([]Unit, len(c.children))
	copy(ret, c.children)
	return ret
}

// Len returns the number of direct children.
func (c *Composite) Len() int {
	c.childMux.RLock()
	defer c.childMux.RUnlock()
	return len(c.children)
}

// Init starts every child concurrently alongside the composite's own load
// hook and waits for all of them to settle. Any failure yields a single
// *LoadError naming this composite and wrapping every cause.
func (c *Composite) Init(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, "init")
	defer func() { tracing.EndSpan(span, err) }()
	progress.UpdateCtx(ctx, progress.Started)
	c.setState(StateStarting)

	causes := c.fanOut(ctx, c.Load)
	if len(causes) == 0 {
		if !c.finishInit(StateRunning) {
			c.log.Warning(fmt.Sprintf("Module %v loaded after it was detached.", c.name))
			return nil
		}
		progress.UpdateCtx(ctx, progress.Succeeded)
		c.log.Success(fmt.Sprintf("Module %v successfully loaded.", c.name))
		return nil
	}
	err = &LoadError{Unit: c.name, Err: errors.Join(causes...)}
	if !c.finishInit(StateFailed) {
		return err
	}
	progress.UpdateCtx(ctx, progress.Failed)
	c.log.Failed(fmt.Sprintf("Module %v failed to load, aborting.", c.name))
	c.emit(ctx, event.TypeFailed, Notice{Source: c.self, Err: err})
	return err
}

// fanOut dispatches Init on every child before awaiting any, runs own (when
// set) concurrently and returns the own error followed by child errors in
// child order.
func (c *Composite) fanOut(ctx context.Context, own func(ctx context.Context) error) []error {
	children := c.Children()
	errs := make([]error, len(children))
	var wg sync.WaitGroup
	wg.Add(len(children))
	for i, child := range children {
		go func(i int, child Unit) {
			defer wg.Done()
			errs[i] = initUnit(ctx, child)
		}(i, child)
	}
	var causes []error
	if own != nil {
		if err := own(ctx); err != nil {
			causes = append(causes, err)
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			causes = append(causes, err)
		}
	}
	return causes
}

// Kill tears children down one at a time, removing each, then runs the
// composite's own unload hook. It never fails; a second call is a no-op.
func (c *Composite) Kill(ctx context.Context) {
	if !c.beginKill() {
		return
	}
	ctx, span := c.startSpan(ctx, "kill")
	c.log.System(fmt.Sprintf("[*] Detaching %v.", c.name))
	c.killChildren(ctx)
	var unloadErr error
	if err := c.Unload(ctx); err != nil {
		unloadErr = &UnloadError{Unit: c.name, Err: err}
		c.log.Failed(unloadErr.Error())
	}
	c.setState(StateStopped)
	progress.UpdateCtx(ctx, progress.Detached)
	c.log.System(fmt.Sprintf("[*] Module %v detached.", c.name))
	tracing.EndSpan(span, unloadErr)
}

func (c *Composite) killChildren(ctx context.Context) {
	for _, child := range c.Children() {
		killUnit(ctx, child, c.log)
		_ = c.Remove(child)
	}
}

var _ Unit = (*Composite)(nil)
