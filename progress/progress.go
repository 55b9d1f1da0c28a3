package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/modtree/internal/clock"
)

// Delta is a signed counter change reported by a unit.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
	Stopped   int
}

// Started is reported when a unit begins Init.
var Started = Delta{Total: 1, Running: 1}

// Succeeded is reported when a unit finishes Init successfully.
var Succeeded = Delta{Running: -1, Completed: 1}

// Failed is reported when a unit's Init fails.
var Failed = Delta{Running: -1, Failed: 1}

// Detached is reported when a unit finishes Kill.
var Detached = Delta{Stopped: 1}

// Progress is a point in time copy of the counters of one run.
type Progress struct {
	RunID     string
	Tree      string
	StartedAt time.Time

	TotalUnits     int
	CompletedUnits int
	FailedUnits    int
	RunningUnits   int
	StoppedUnits   int
}

// ElapsedMs returns milliseconds since the run started.
func (p *Progress) ElapsedMs() int {
	return clock.SinceMs(p.StartedAt)
}

// Settled reports whether no unit is still starting.
func (p *Progress) Settled() bool {
	return p.RunningUnits == 0
}

func (p *Progress) apply(d Delta) {
	p.TotalUnits += d.Total
	p.CompletedUnits += d.Completed
	p.FailedUnits += d.Failed
	p.RunningUnits += d.Running
	p.StoppedUnits += d.Stopped
}

// Tracker keeps counters for one run. It is safe for concurrent use.
type Tracker struct {
	mux      sync.Mutex
	state    Progress
	onChange func(Progress)
}

// New creates a tracker for the named tree.
func New(runID, tree string, onChange func(Progress)) *Tracker {
	return &Tracker{
		state:    Progress{RunID: runID, Tree: tree, StartedAt: clock.Now()},
		onChange: onChange,
	}
}

// Update applies d. The change callback receives a copy and runs outside the
// lock.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mux.Lock()
	t.state.apply(d)
	snapshot := t.state
	cb := t.onChange
	t.mux.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (t *Tracker) Snapshot() Progress {
	if t == nil {
		return Progress{}
	}
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.state
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker returns a context carrying tracker.
func WithTracker(ctx context.Context, tracker *Tracker) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tracker)
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Tracker, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Tracker)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
