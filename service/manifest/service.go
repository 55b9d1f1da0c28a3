package manifest

import (
	"context"
	"fmt"

	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/service/meta"
	"github.com/viant/modtree/service/registry"
	"github.com/viant/modtree/unit"
)

// Service loads manifests and builds the units they describe.
type Service struct {
	meta     *meta.Service
	registry *registry.Registry
	logger   logger.Sink
	options  []unit.Option
}

// Option configures the service.
type Option func(s *Service)

// WithMetaService sets the document loader.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.meta = service
	}
}

// WithRegistry sets the hook registry.
func WithRegistry(registry *registry.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithLogger sets the sink used by built units and hooks.
func WithLogger(sink logger.Sink) Option {
	return func(s *Service) {
		s.logger = sink
	}
}

// WithUnitOptions adds options passed to every built unit.
func WithUnitOptions(options ...unit.Option) Option {
	return func(s *Service) {
		s.options = append(s.options, options...)
	}
}

// Load reads and validates a manifest.
func (s *Service) Load(ctx context.Context, URL string) (*Manifest, error) {
	ret := &Manifest{}
	if err := s.meta.Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %v: %w", URL, err)
	}
	return ret, nil
}

// Build creates the units of nodes and adds them to parent in order.
func (s *Service) Build(parent unit.Unit, nodes []*Node) error {
	for _, node := range nodes {
		child, err := s.build(node)
		if err != nil {
			return err
		}
		if err = parent.Add(child); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) build(node *Node) (unit.Unit, error) {
	hook := node.Hook
	if hook == "" {
		hook = registry.HookNop
	}
	hooks, err := s.registry.Hooks(hook, &registry.Definition{Unit: node.Name, Params: node.Params, Logger: s.logger})
	if err != nil {
		return nil, err
	}
	options := append([]unit.Option{unit.WithLogger(s.logger)}, s.options...)
	if !node.IsComposite() {
		return unit.NewLeaf(node.Name, hooks, options...), nil
	}
	composite := unit.NewComposite(node.Name, hooks, options...)
	if err = s.Build(composite, node.Children); err != nil {
		return nil, err
	}
	return composite, nil
}

// New creates a service.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, opt := range options {
		opt(ret)
	}
	if ret.meta == nil {
		ret.meta = meta.New(nil, "")
	}
	if ret.registry == nil {
		ret.registry = registry.New()
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	return ret
}
