package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// SinceMs returns milliseconds elapsed since started, measured with NowFunc.
func SinceMs(started time.Time) int {
	return int(Now().Sub(started).Milliseconds())
}
