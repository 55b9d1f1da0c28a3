package modtree

import (
	"io"

	"github.com/viant/afs/storage"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/service/meta"
	"github.com/viant/modtree/service/notify"
	"github.com/viant/modtree/service/registry"
	"github.com/viant/modtree/unit"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the service.
type Option func(s *Service)

// WithConfig sets the configuration; nil keeps DefaultConfig.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the sink, bypassing Config.Logging.
func WithLogger(sink logger.Sink) Option {
	return func(s *Service) {
		s.logger = sink
	}
}

// WithLogOutput sets where the configured logger writes, stdout by default.
func WithLogOutput(w io.Writer) Option {
	return func(s *Service) {
		s.logOutput = w
	}
}

// WithMetaService sets the document loader used for manifests.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithRegistry sets the hook registry.
func WithRegistry(registry *registry.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithHook registers an additional hook factory under name.
func WithHook(name string, factory registry.Factory) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, namedFactory{name: name, factory: factory})
	}
}

// WithNotifier adds a readiness notifier.
func WithNotifier(notifier notify.Notifier) Option {
	return func(s *Service) {
		s.notifiers = append(s.notifiers, notifier)
	}
}

// WithExit replaces the process exit performed once the tree is killed.
func WithExit(exit func(code int)) Option {
	return func(s *Service) {
		s.exit = exit
	}
}

// WithRootOptions adds options passed to the root container.
func WithRootOptions(options ...unit.Option) Option {
	return func(s *Service) {
		s.rootOptions = append(s.rootOptions, options...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if s.config == nil {
			s.config = DefaultConfig()
		}
		s.config.Tracing = TracingConfig{Enabled: true, Service: serviceName, Version: serviceVersion, Output: outputFile}
	}
}

// WithTracingExporter configures tracing with a custom SpanExporter such as
// OTLP or Zipkin, taking precedence over Config.Tracing. The first
// successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracer = &tracerSetup{service: serviceName, version: serviceVersion, exporter: exporter}
	}
}
