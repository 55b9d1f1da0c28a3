package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/modtree/internal/clock"
)

func TestProgress_Update(t *testing.T) {
	var mux sync.Mutex
	var seen []Progress
	tracker := New("run-1", "root", func(p Progress) {
		mux.Lock()
		seen = append(seen, p)
		mux.Unlock()
	})
	ctx := WithTracker(context.Background(), tracker)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			UpdateCtx(ctx, Started)
			if i%2 == 0 {
				UpdateCtx(ctx, Succeeded)
				return
			}
			UpdateCtx(ctx, Failed)
		}(i)
	}
	wg.Wait()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 10, snapshot.TotalUnits)
	assert.Equal(t, 5, snapshot.CompletedUnits)
	assert.Equal(t, 5, snapshot.FailedUnits)
	assert.True(t, snapshot.Settled())
	assert.Equal(t, "run-1", snapshot.RunID)
	assert.Len(t, seen, 20)
}

func TestProgress_NoTracker(t *testing.T) {
	UpdateCtx(context.Background(), Started)
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	var tracker *Tracker
	tracker.Update(Started)
	assert.Equal(t, Progress{}, tracker.Snapshot())
}

func TestProgress_ElapsedMs(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := started
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	tracker := New("run-2", "root", nil)
	now = started.Add(1500 * time.Millisecond)
	snapshot := tracker.Snapshot()
	assert.Equal(t, 1500, snapshot.ElapsedMs())
	assert.Equal(t, started, snapshot.StartedAt)
}
