package unit

import (
	"os"
	"syscall"

	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/progress"
)

// Notifier is told when the tree becomes ready and when it starts stopping.
type Notifier interface {
	Ready() error
	Stopping() error
}

// DefaultRootName names a root created without WithName.
const DefaultRootName = "container"

type options struct {
	name        string
	logger      logger.Sink
	signals     []os.Signal
	exit        func(code int)
	exitCode    int
	notifier    Notifier
	onReady     []func(root *Root)
	onFailed    []func(notice Notice)
	onProgress  func(progress.Progress)
	queueBuffer int
}

func newOptions(opts []Option) *options {
	ret := &options{
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		name:    DefaultRootName,
		exit:    os.Exit,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	return ret
}

// Option configures a unit. Root only options are ignored by leaves and
// composites.
type Option func(o *options)

// WithName sets the root name.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the sink; the unit tags it with its own name.
func WithLogger(sink logger.Sink) Option {
	return func(o *options) {
		o.logger = sink
	}
}

// WithSignals sets the OS signals that trigger Root.Kill. Calling it without
// arguments disables signal handling.
func WithSignals(signals ...os.Signal) Option {
	return func(o *options) {
		o.signals = signals
	}
}

// WithExit replaces the process termination performed at the end of
// Root.Kill; hosts embedding the tree pass a callback keeping the process up.
func WithExit(exit func(code int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}

// WithExitCode sets the status passed to the exit function.
func WithExitCode(code int) Option {
	return func(o *options) {
		o.exitCode = code
	}
}

// WithNotifier sets the readiness notifier of the root.
func WithNotifier(notifier Notifier) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

// WithReadyHandler registers a callback invoked once the whole tree is up.
func WithReadyHandler(fn func(root *Root)) Option {
	return func(o *options) {
		o.onReady = append(o.onReady, fn)
	}
}

// WithFailureHandler registers a callback invoked for every failed signal
// reaching the root.
func WithFailureHandler(fn func(notice Notice)) Option {
	return func(o *options) {
		o.onFailed = append(o.onFailed, fn)
	}
}

// WithProgress registers a callback receiving startup counters.
func WithProgress(fn func(progress.Progress)) Option {
	return func(o *options) {
		o.onProgress = fn
	}
}

// WithQueueBuffer sets the capacity of the root's signal queue.
func WithQueueBuffer(size int) Option {
	return func(o *options) {
		o.queueBuffer = size
	}
}
