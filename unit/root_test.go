package unit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/progress"
)

type recordingNotifier struct {
	mux   sync.Mutex
	calls []string
}

func (n *recordingNotifier) Ready() error    { n.record("ready"); return nil }
func (n *recordingNotifier) Stopping() error { n.record("stopping"); return nil }
func (n *recordingNotifier) record(call string) {
	n.mux.Lock()
	n.calls = append(n.calls, call)
	n.mux.Unlock()
}
func (n *recordingNotifier) list() []string {
	n.mux.Lock()
	defer n.mux.Unlock()
	return append([]string{}, n.calls...)
}

type exitRecorder struct {
	codes chan int
}

func newExitRecorder() *exitRecorder { return &exitRecorder{codes: make(chan int, 4)} }

func (e *exitRecorder) exit(code int) { e.codes <- code }

func (e *exitRecorder) wait(t *testing.T) int {
	t.Helper()
	select {
	case code := <-e.codes:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("exit was not called")
	}
	return -1
}

func TestRoot_AbortOnFailure(t *testing.T) {
	j := &journal{}
	sink := newRecorder()
	exit := newExitRecorder()
	var readyCalls int
	var mux sync.Mutex
	var failures []string
	root := NewRoot(
		WithLogger(sink),
		WithSignals(),
		WithExit(exit.exit),
		WithReadyHandler(func(*Root) { readyCalls++ }),
		WithFailureHandler(func(notice Notice) {
			mux.Lock()
			failures = append(failures, notice.Source.Name())
			mux.Unlock()
		}),
	)
	opt := WithLogger(sink)
	p := NewComposite("P", j.hooks("P", nil, nil), opt)
	require.NoError(t, p.Add(NewLeaf("Q", j.hooks("Q", errors.New("cannot connect"), nil), opt)))
	require.NoError(t, root.Add(p))
	require.NoError(t, root.Add(NewLeaf("R", j.hooks("R", nil, nil), opt)))

	err := root.Init(context.Background())
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, DefaultRootName, loadErr.Unit)

	assert.Equal(t, 0, exit.wait(t))
	waitClosed(t, root.Done(), "teardown")

	var unloads []string
	for _, e := range j.list() {
		if strings.HasPrefix(e, "unload:") {
			unloads = append(unloads, strings.TrimPrefix(e, "unload:"))
		}
	}
	assert.Equal(t, []string{"Q", "P", "R"}, unloads)
	assert.Empty(t, root.Children())
	assert.Equal(t, StateStopped, root.State())
	assert.Equal(t, 0, readyCalls)
	select {
	case <-root.Ready():
		t.Fatal("ready must not be signalled after a failure")
	default:
	}
	mux.Lock()
	require.NotEmpty(t, failures)
	assert.Equal(t, "Q", failures[0])
	mux.Unlock()
	assert.NotEmpty(t, sink.kinds(DefaultRootName, logger.KindFailed))

	root.Kill(context.Background())
	select {
	case <-exit.codes:
		t.Fatal("exit must run once")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRoot_Ready(t *testing.T) {
	exit := newExitRecorder()
	notifier := &recordingNotifier{}
	readyCh := make(chan *Root, 1)
	var snapshots []progress.Progress
	var mux sync.Mutex
	root := NewRoot(
		WithName("app"),
		WithLogger(logger.Nop()),
		WithSignals(),
		WithExit(exit.exit),
		WithExitCode(3),
		WithNotifier(notifier),
		WithReadyHandler(func(r *Root) { readyCh <- r }),
		WithProgress(func(p progress.Progress) {
			mux.Lock()
			snapshots = append(snapshots, p)
			mux.Unlock()
		}),
	)
	opt := WithLogger(logger.Nop())
	p := NewComposite("P", nil, opt)
	require.NoError(t, p.Add(NewLeaf("Q", nil, opt)))
	require.NoError(t, root.Add(p))
	require.NoError(t, root.Add(NewLeaf("R", nil, opt)))

	require.NoError(t, root.Init(context.Background()))
	waitClosed(t, root.Ready(), "ready")
	select {
	case r := <-readyCh:
		assert.Same(t, root, r)
	case <-time.After(2 * time.Second):
		t.Fatal("ready handler not called")
	}
	assert.Equal(t, StateRunning, root.State())
	assert.True(t, strings.HasPrefix(root.RunID(), "app/"))
	state := root.Progress()
	assert.Equal(t, 3, state.TotalUnits)
	assert.Equal(t, 3, state.CompletedUnits)
	assert.True(t, state.Settled())
	mux.Lock()
	assert.NotEmpty(t, snapshots)
	mux.Unlock()

	root.Kill(context.Background())
	assert.Equal(t, 3, exit.wait(t))
	waitClosed(t, root.Done(), "done")
	assert.Equal(t, []string{"ready", "stopping"}, notifier.list())
	assert.Empty(t, root.Children())
	assert.Equal(t, 3, root.Progress().StoppedUnits)
}

func TestRoot_UsageErrors(t *testing.T) {
	root := NewRoot(WithLogger(logger.Nop()), WithSignals(), WithExit(func(int) {}))
	assert.ErrorIs(t, root.Load(context.Background()), ErrUsage)
	assert.ErrorIs(t, root.Unload(context.Background()), ErrUsage)
	assert.True(t, root.IsContainer())
	assert.Equal(t, DefaultRootName, root.Name())

	require.NoError(t, root.Init(context.Background()))
	assert.ErrorIs(t, root.Init(context.Background()), ErrUsage)
	root.Kill(context.Background())
	waitClosed(t, root.Done(), "done")
}

func TestRoot_KillBeforeInit(t *testing.T) {
	exit := newExitRecorder()
	root := NewRoot(WithLogger(logger.Nop()), WithSignals(), WithExit(exit.exit))
	require.NoError(t, root.Add(NewLeaf("a", nil, WithLogger(logger.Nop()))))
	root.Kill(context.Background())
	assert.Equal(t, 0, exit.wait(t))
	assert.Empty(t, root.Children())
}

func TestRoot_InitAfterKill(t *testing.T) {
	root := NewRoot(WithLogger(logger.Nop()), WithSignals(), WithExit(func(int) {}))
	root.Kill(context.Background())
	assert.ErrorIs(t, root.Init(context.Background()), ErrUsage)
}

func TestRoot_KillDuringInit(t *testing.T) {
	j := &journal{}
	exit := newExitRecorder()
	notifier := &recordingNotifier{}
	root := NewRoot(
		WithLogger(logger.Nop()),
		WithSignals(),
		WithExit(exit.exit),
		WithNotifier(notifier),
	)
	slow := NewLeaf("slow", HookFuncs{
		OnLoad: func(ctx context.Context) error {
			time.Sleep(200 * time.Millisecond)
			j.add("load:slow")
			return nil
		},
		OnUnload: func(ctx context.Context) error {
			j.add("unload:slow")
			return nil
		},
	}, WithLogger(logger.Nop()))
	require.NoError(t, root.Add(slow))

	go func() {
		time.Sleep(50 * time.Millisecond)
		root.Kill(context.Background())
	}()
	require.NoError(t, root.Init(context.Background()))

	assert.Equal(t, 0, exit.wait(t))
	waitClosed(t, root.Done(), "done")
	assert.Equal(t, []string{"stopping"}, notifier.list())
	select {
	case <-root.Ready():
		t.Fatal("ready must not be signalled once shutdown began")
	default:
	}
	assert.NotEqual(t, StateRunning, root.State())
	assert.Equal(t, StateStopped, slow.State())
	assert.Equal(t, 1, j.count("unload:slow"))
	assert.Equal(t, 1, j.count("load:slow"))
}

func TestRoot_ReadyHandlerPanic(t *testing.T) {
	sink := newRecorder()
	handled := make(chan struct{})
	root := NewRoot(
		WithLogger(sink),
		WithSignals(),
		WithExit(func(int) {}),
		WithReadyHandler(func(*Root) {
			close(handled)
			panic("dashboard unavailable")
		}),
	)
	require.NoError(t, root.Add(NewLeaf("a", nil, WithLogger(logger.Nop()))))
	require.NoError(t, root.Init(context.Background()))
	waitClosed(t, handled, "ready handler")
	assert.Eventually(t, func() bool {
		root.mux.Lock()
		queue := root.queue
		root.mux.Unlock()
		return queue.DLQSize() == 1
	}, time.Second, 5*time.Millisecond)

	root.Kill(context.Background())
	waitClosed(t, root.Done(), "done")
	assert.Equal(t, []string{"signal handler failed: ready handler panic: dashboard unavailable"}, sink.kinds(DefaultRootName, logger.KindWarning))
}
