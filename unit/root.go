package unit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/viant/modtree/internal/idgen"
	"github.com/viant/modtree/progress"
	"github.com/viant/modtree/service/event"
	"github.com/viant/modtree/service/messaging/memory"
	"github.com/viant/modtree/tracing"
)

// Root is the top of a tree. It owns the shutdown trigger and turns any
// failed signal of its subtree into a teardown of the whole tree followed by
// the exit function.
type Root struct {
	Composite
	opts *options

	mux     sync.Mutex
	started bool
	killing bool
	runID   string
	runCtx  context.Context
	tracker *progress.Tracker

	ready   chan struct{}
	done    chan struct{}
	settled chan struct{}

	readyOnce sync.Once
	abortOnce sync.Once
	killOnce  sync.Once

	queue       *memory.Queue[event.Event[Notice]]
	listener    *event.Listener[Notice]
	listenStop  context.CancelFunc
	stopSignals func()
}

// NewRoot creates a root container.
func NewRoot(opts ...Option) *Root {
	o := newOptions(opts)
	ret := &Root{
		opts:    o,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
		settled: make(chan struct{}),
	}
	ret.Composite.init(o.name, nil, ret, o)
	return ret
}

// Load fails with *UsageError; a root has no content of its own.
func (r *Root) Load(context.Context) error {
	return &UsageError{Unit: r.name, Op: "load", Reason: "root has no content of its own"}
}

// Unload fails with *UsageError; a root has no content of its own.
func (r *Root) Unload(context.Context) error {
	return &UsageError{Unit: r.name, Op: "unload", Reason: "root has no content of its own"}
}

// Ready is closed once every child has loaded.
func (r *Root) Ready() <-chan struct{} { return r.ready }

// Done is closed once Kill has torn the tree down, right before the exit
// function runs.
func (r *Root) Done() <-chan struct{} { return r.done }

// RunID returns the identifier assigned by Init.
func (r *Root) RunID() string {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.runID
}

// Progress returns a snapshot of the startup counters.
func (r *Root) Progress() progress.Progress {
	r.mux.Lock()
	tracker := r.tracker
	r.mux.Unlock()
	if tracker == nil {
		return progress.Progress{Tree: r.name}
	}
	return tracker.Snapshot()
}

// Init wires the shutdown trigger and the failure handler, then starts every
// child concurrently. It returns the aggregated *LoadError when any child
// fails; the failure handler then kills the tree. A Kill that lands while
// children are still loading wins: Init then returns without declaring the
// tree ready. Init runs once.
func (r *Root) Init(ctx context.Context) (err error) {
	r.mux.Lock()
	if r.started {
		r.mux.Unlock()
		return &UsageError{Unit: r.name, Op: "init", Reason: "root already started"}
	}
	r.started = true
	r.runID = idgen.RunID(r.name)
	ctx = WithRunID(ctx, r.runID)
	r.tracker = progress.New(r.runID, r.name, r.opts.onProgress)
	ctx = progress.WithTracker(ctx, r.tracker)
	r.runCtx = context.WithoutCancel(ctx)
	r.mux.Unlock()

	ctx, span := r.startSpan(ctx, "init")
	defer func() { tracing.EndSpan(span, err) }()

	r.watchSignals()
	r.listen()
	r.setState(StateStarting)
	r.log.System("[*] System is starting...")

	causes := r.fanOut(ctx, nil)
	if len(causes) > 0 {
		err = &LoadError{Unit: r.name, Err: errors.Join(causes...)}
		if r.finishInit(StateFailed) {
			r.emit(ctx, event.TypeFailed, Notice{Source: r, Err: err})
		}
		close(r.settled)
		return err
	}
	defer close(r.settled)
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.killing || !r.finishInit(StateRunning) {
		r.log.Warning(fmt.Sprintf("[*] Modules of %v loaded after shutdown began.", r.name))
		return nil
	}
	r.readyOnce.Do(func() { close(r.ready) })
	r.log.Success(fmt.Sprintf("[*] All modules of %v loaded.", r.name))
	r.emit(ctx, event.TypeReady, Notice{Source: r, Children: r.Children()})
	if r.opts.notifier != nil {
		if nErr := r.opts.notifier.Ready(); nErr != nil {
			r.log.Warning(fmt.Sprintf("failed to notify readiness: %v", nErr))
		}
	}
	return nil
}

// listen subscribes the root channel and dispatches delivered signals on a
// listener goroutine so emitters never run the teardown themselves.
func (r *Root) listen() {
	config := memory.DefaultConfig()
	if r.opts.queueBuffer > 0 {
		config.QueueBuffer = r.opts.queueBuffer
	}
	queue := memory.NewQueue[event.Event[Notice]](config)
	publisher := event.NewPublisher[Notice](queue)
	listenCtx, cancel := context.WithCancel(context.Background())
	listener := event.NewListener[Notice](publisher, r.dispatch)

	r.mux.Lock()
	r.queue = queue
	r.listener = listener
	r.listenStop = cancel
	r.mux.Unlock()

	r.Events().Subscribe(func(e *event.Event[Notice]) {
		if err := publisher.Publish(listenCtx, e); err != nil {
			r.log.Warning(fmt.Sprintf("dropped %v signal from %v: %v", e.Type(), e.Context.Unit, err))
		}
	})
	listener.Start()
}

func (r *Root) dispatch(e *event.Event[Notice]) {
	switch e.Type() {
	case event.TypeFailed:
		for _, fn := range r.opts.onFailed {
			fn(e.Data)
		}
		r.abortOnce.Do(func() {
			go r.abort(e)
		})
	case event.TypeReady:
		for _, fn := range r.opts.onReady {
			fn(r)
		}
	}
}

// abort logs the failure, waits for the startup fan-out to settle and kills
// the tree.
func (r *Root) abort(e *event.Event[Notice]) {
	source := e.Context.Unit
	if e.Data.Err != nil {
		r.log.Failed(fmt.Sprintf("[*] Module %v failed: %v. Aborting.", source, e.Data.Err))
	} else {
		r.log.Failed(fmt.Sprintf("[*] Module %v failed. Aborting.", source))
	}
	<-r.settled
	r.Kill(r.killContext(context.Background()))
}

func (r *Root) watchSignals() {
	if len(r.opts.signals) == 0 {
		return
	}
	signals := make(chan os.Signal, 1)
	stop := make(chan struct{})
	signal.Notify(signals, r.opts.signals...)
	var once sync.Once
	r.mux.Lock()
	r.stopSignals = func() {
		once.Do(func() {
			signal.Stop(signals)
			close(stop)
		})
	}
	r.mux.Unlock()
	go func() {
		select {
		case sig := <-signals:
			r.log.System(fmt.Sprintf("[*] Received %v.", sig))
			r.Kill(r.killContext(context.Background()))
		case <-stop:
		}
	}()
}

func (r *Root) killContext(ctx context.Context) context.Context {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.runCtx != nil {
		return r.runCtx
	}
	return ctx
}

// Kill tears down every child sequentially, removing each, then calls the
// exit function. Only the first call has an effect.
func (r *Root) Kill(ctx context.Context) {
	r.killOnce.Do(func() {
		r.kill(r.killContext(ctx))
	})
}

func (r *Root) kill(ctx context.Context) {
	r.mux.Lock()
	r.started = true
	r.killing = true
	stopSignals, listener, listenStop, queue := r.stopSignals, r.listener, r.listenStop, r.queue
	r.mux.Unlock()
	if stopSignals != nil {
		stopSignals()
	}
	if listenStop != nil {
		listenStop()
	}
	if listener != nil {
		listener.Stop()
	}
	r.Events().Subscribe(nil)
	if queue != nil {
		for _, err := range queue.DeadLetters() {
			r.log.Warning(fmt.Sprintf("signal handler failed: %v", err))
		}
	}

	ctx, span := r.startSpan(ctx, "kill")
	r.setState(StateStopping)
	if r.opts.notifier != nil {
		if err := r.opts.notifier.Stopping(); err != nil {
			r.log.Warning(fmt.Sprintf("failed to notify stopping: %v", err))
		}
	}
	r.killChildren(ctx)
	r.setState(StateStopped)
	r.log.System("[*] Modules detached. The system is exiting now! Cya!")
	tracing.EndSpan(span, nil)
	close(r.done)
	if r.opts.exit != nil {
		r.opts.exit(r.opts.exitCode)
	}
}

var _ Unit = (*Root)(nil)
