package modtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/service/manifest"
	"github.com/viant/modtree/service/meta"
	"github.com/viant/modtree/service/notify"
	"github.com/viant/modtree/service/registry"
	"github.com/viant/modtree/tracing"
	"github.com/viant/modtree/unit"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type namedFactory struct {
	name    string
	factory registry.Factory
}

type tracerSetup struct {
	service  string
	version  string
	exporter sdktrace.SpanExporter
}

// Service assembles a module tree from a manifest and runs it.
type Service struct {
	config        *Config
	logger        logger.Sink
	logOutput     io.Writer
	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option
	registry      *registry.Registry
	hooks         []namedFactory
	manifests     *manifest.Service
	notifiers     []notify.Notifier
	exit          func(code int)
	rootOptions   []unit.Option
	tracer        *tracerSetup
	root          *unit.Root
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.tracer != nil {
		if err := tracing.InitWithExporter(s.tracer.service, s.tracer.version, s.tracer.exporter); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	} else if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.Service, s.config.Tracing.Version, s.config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	s.ensureBaseSetup()
	for _, hook := range s.hooks {
		s.registry.Register(hook.name, hook.factory)
	}
	s.manifests = manifest.New(
		manifest.WithMetaService(s.metaService),
		manifest.WithRegistry(s.registry),
		manifest.WithLogger(s.logger),
	)
	signals, _ := s.config.OSSignals()
	rootOptions := []unit.Option{
		unit.WithName(s.config.Name),
		unit.WithLogger(s.logger),
		unit.WithSignals(signals...),
		unit.WithExitCode(s.config.ExitCode),
		unit.WithQueueBuffer(s.config.Events.QueueBuffer),
	}
	if s.config.Notify.Systemd {
		s.notifiers = append(s.notifiers, notify.NewSystemd(s.logger))
	}
	if len(s.notifiers) > 0 {
		rootOptions = append(rootOptions, unit.WithNotifier(notify.Multi(s.notifiers)))
	}
	if s.exit != nil {
		rootOptions = append(rootOptions, unit.WithExit(s.exit))
	}
	s.root = unit.NewRoot(append(rootOptions, s.rootOptions...)...)
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.logger == nil {
		output := s.logOutput
		if output == nil {
			output = os.Stdout
		}
		s.logger = logger.New(s.config.Logging, output)
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
}

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Root returns the root container.
func (s *Service) Root() *unit.Root { return s.root }

// Registry returns the hook registry.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Logger returns the service sink.
func (s *Service) Logger() logger.Sink { return s.logger }

// Assemble loads the manifest at URL and adds its units to the root.
func (s *Service) Assemble(ctx context.Context, URL string) (*manifest.Manifest, error) {
	tree, err := s.manifests.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	if err = s.manifests.Build(s.root, tree.Children); err != nil {
		return nil, fmt.Errorf("failed to assemble %v: %w", URL, err)
	}
	s.logger.Info(fmt.Sprintf("assembled %v from %v", tree.Name, URL))
	return tree, nil
}

// Run starts the tree and blocks until it is killed, either by a failure, a
// configured OS signal or ctx cancellation. It returns the startup error, if
// any, once teardown completed.
func (s *Service) Run(ctx context.Context) error {
	if err := s.root.Init(ctx); err != nil {
		if errors.Is(err, unit.ErrUsage) {
			return err
		}
		<-s.root.Done()
		return err
	}
	select {
	case <-s.root.Done():
	case <-ctx.Done():
		s.root.Kill(context.WithoutCancel(ctx))
		<-s.root.Done()
	}
	return nil
}

// Shutdown kills the tree.
func (s *Service) Shutdown(ctx context.Context) {
	s.root.Kill(ctx)
}

// New creates a service.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
