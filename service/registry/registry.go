// Package registry maps hook names used in manifests to factories creating
// unit hooks.
package registry

import (
	"fmt"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/unit"
)

// Definition describes the unit a factory builds hooks for.
type Definition struct {
	Unit   string
	Params map[string]interface{}
	Logger logger.Sink
}

// Factory creates hooks for a unit.
type Factory func(def *Definition) (unit.Hooks, error)

// Registry holds named hook factories. It is safe for concurrent use.
type Registry struct {
	factories cmap.ConcurrentMap[string, Factory]
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, factory Factory) {
	r.factories.Set(name, factory)
}

// Lookup returns a factory by name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	return r.factories.Get(name)
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	ret := r.factories.Keys()
	sort.Strings(ret)
	return ret
}

// Hooks builds the hooks named name for def.
func (r *Registry) Hooks(name string, def *Definition) (unit.Hooks, error) {
	factory, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown hook %q for unit %v", name, def.Unit)
	}
	if def.Logger == nil {
		def.Logger = logger.Nop()
	}
	hooks, err := factory(def)
	if err != nil {
		return nil, fmt.Errorf("failed to create hook %q for unit %v: %w", name, def.Unit, err)
	}
	return hooks, nil
}

// New creates a registry with the builtin hooks registered.
func New() *Registry {
	ret := &Registry{factories: cmap.New[Factory]()}
	registerBuiltins(ret)
	return ret
}
