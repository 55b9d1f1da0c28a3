package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/modtree/unit"
)

// Builtin hook names.
const (
	HookNop   = "nop"
	HookDelay = "delay"
	HookFail  = "fail"
	HookLog   = "log"
)

func registerBuiltins(r *Registry) {
	r.Register(HookNop, func(*Definition) (unit.Hooks, error) {
		return unit.HookFuncs{}, nil
	})
	r.Register(HookDelay, newDelay)
	r.Register(HookFail, newFail)
	r.Register(HookLog, newLog)
}

// newDelay sleeps params.duration on load and params.unload (if set) on
// unload, honoring ctx.
func newDelay(def *Definition) (unit.Hooks, error) {
	load, err := durationParam(def.Params, "duration")
	if err != nil {
		return nil, err
	}
	unload, err := durationParam(def.Params, "unload")
	if err != nil {
		return nil, err
	}
	return unit.HookFuncs{
		OnLoad:   func(ctx context.Context) error { return sleep(ctx, load) },
		OnUnload: func(ctx context.Context) error { return sleep(ctx, unload) },
	}, nil
}

// newFail fails the load with params.message after params.after.
func newFail(def *Definition) (unit.Hooks, error) {
	after, err := durationParam(def.Params, "after")
	if err != nil {
		return nil, err
	}
	message, _ := def.Params["message"].(string)
	if message == "" {
		message = "failed on purpose"
	}
	return unit.HookFuncs{
		OnLoad: func(ctx context.Context) error {
			if err := sleep(ctx, after); err != nil {
				return err
			}
			return errors.New(message)
		},
	}, nil
}

func newLog(def *Definition) (unit.Hooks, error) {
	sink := def.Logger.Named(def.Unit)
	return unit.HookFuncs{
		OnLoad: func(ctx context.Context) error {
			sink.Info(fmt.Sprintf("loading %v", def.Unit))
			if len(def.Params) > 0 {
				sink.Object(def.Params)
			}
			return nil
		},
		OnUnload: func(ctx context.Context) error {
			sink.Info(fmt.Sprintf("unloading %v", def.Unit))
			return nil
		},
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// durationParam accepts Go duration strings or numbers of milliseconds.
func durationParam(params map[string]interface{}, key string) (time.Duration, error) {
	value, ok := params[key]
	if !ok || value == nil {
		return 0, nil
	}
	switch actual := value.(type) {
	case string:
		d, err := time.ParseDuration(actual)
		if err != nil {
			return 0, fmt.Errorf("invalid %v: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(actual) * time.Millisecond, nil
	case int64:
		return time.Duration(actual) * time.Millisecond, nil
	case float64:
		return time.Duration(actual * float64(time.Millisecond)), nil
	default:
		return 0, fmt.Errorf("invalid %v: unsupported type %T", key, value)
	}
}
