package unit

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is matched by every *UsageError.
	ErrUsage = errors.New("usage error")
	// ErrChildNotFound is returned by Remove for a unit that is not a child.
	ErrChildNotFound = errors.New("child not found")
)

// LoadError reports that a unit, or a unit of its subtree, failed to load.
type LoadError struct {
	Unit string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("module %v failed to load, aborting", e.Unit)
	}
	return fmt.Sprintf("module %v failed to load, aborting: %v", e.Unit, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnloadError reports a failed unload hook. It is logged, never returned.
type UnloadError struct {
	Unit string
	Err  error
}

func (e *UnloadError) Error() string {
	return fmt.Sprintf("module %v failed to unload: %v", e.Unit, e.Err)
}

func (e *UnloadError) Unwrap() error { return e.Err }

// UsageError reports an operation the unit does not support.
type UsageError struct {
	Unit   string
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %v on %v: %v", e.Op, e.Unit, e.Reason)
}

// Is matches ErrUsage.
func (e *UsageError) Is(target error) bool { return target == ErrUsage }

func notContainer(name, op string) error {
	return &UsageError{Unit: name, Op: op, Reason: "unit is not a container"}
}
