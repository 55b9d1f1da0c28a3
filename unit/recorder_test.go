package unit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/viant/modtree/logger"
)

type entry struct {
	Kind string
	Unit string
	Msg  string
}

type recordStore struct {
	mux     sync.Mutex
	entries []entry
}

// recorder is a logger.Sink keeping every entry in memory.
type recorder struct {
	name  string
	store *recordStore
}

func newRecorder() *recorder { return &recorder{store: &recordStore{}} }

func (r *recorder) add(kind, msg string) {
	r.store.mux.Lock()
	r.store.entries = append(r.store.entries, entry{Kind: kind, Unit: r.name, Msg: msg})
	r.store.mux.Unlock()
}

func (r *recorder) Info(msg string)    { r.add(logger.KindInfo, msg) }
func (r *recorder) Success(msg string) { r.add(logger.KindSuccess, msg) }
func (r *recorder) Failed(msg string)  { r.add(logger.KindFailed, msg) }
func (r *recorder) Warning(msg string) { r.add(logger.KindWarning, msg) }
func (r *recorder) System(msg string)  { r.add(logger.KindSystem, msg) }
func (r *recorder) Object(data interface{}) {
	r.add(logger.KindObject, fmt.Sprintf("%v", data))
}
func (r *recorder) Named(name string) logger.Sink {
	return &recorder{name: name, store: r.store}
}

func (r *recorder) kinds(unit, kind string) []string {
	r.store.mux.Lock()
	defer r.store.mux.Unlock()
	var ret []string
	for _, e := range r.store.entries {
		if e.Unit == unit && e.Kind == kind {
			ret = append(ret, e.Msg)
		}
	}
	return ret
}

// journal records hook invocations in call order.
type journal struct {
	mux     sync.Mutex
	entries []string
}

func (j *journal) add(item string) {
	j.mux.Lock()
	j.entries = append(j.entries, item)
	j.mux.Unlock()
}

func (j *journal) list() []string {
	j.mux.Lock()
	defer j.mux.Unlock()
	return append([]string{}, j.entries...)
}

func (j *journal) count(item string) int {
	ret := 0
	for _, e := range j.list() {
		if e == item {
			ret++
		}
	}
	return ret
}

func (j *journal) hooks(name string, loadErr, unloadErr error) Hooks {
	return HookFuncs{
		OnLoad: func(ctx context.Context) error {
			j.add("load:" + name)
			return loadErr
		},
		OnUnload: func(ctx context.Context) error {
			j.add("unload:" + name)
			return unloadErr
		},
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %v", what)
	}
}
