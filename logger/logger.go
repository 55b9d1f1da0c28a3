package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	colorRed     = 91
	colorGreen   = 92
	colorYellow  = 93
	colorMagenta = 95
	colorCyan    = 96
)

var kindColors = map[string]int{
	KindInfo:    colorCyan,
	KindSuccess: colorGreen,
	KindWarning: colorYellow,
	KindFailed:  colorRed,
	KindSystem:  colorMagenta,
	KindObject:  colorCyan,
}

// Logger is the zerolog backed Sink.
type Logger struct {
	base zerolog.Logger
	zl   zerolog.Logger
	name string
}

// New creates a logger writing to out (os.Stdout when nil).
func New(cfg Config, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	level, ok := parseLevel(cfg.Level)
	if !ok {
		level = zerolog.InfoLevel
	}
	writer := out
	if cfg.Format != FormatJSON {
		writer = consoleWriter(cfg, out)
	}
	ctx := zerolog.New(writer).Level(level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	base := ctx.Logger()
	return &Logger{base: base, zl: base}
}

func consoleWriter(cfg Config, out io.Writer) zerolog.ConsoleWriter {
	parts := []string{KindFieldName, UnitFieldName, zerolog.MessageFieldName}
	if cfg.Timestamp {
		parts = append([]string{zerolog.TimestampFieldName}, parts...)
	}
	noColor := cfg.NoColor
	return zerolog.ConsoleWriter{
		Out:           out,
		NoColor:       noColor,
		TimeFormat:    time.RFC3339,
		PartsOrder:    parts,
		FieldsExclude: []string{KindFieldName, UnitFieldName},
		FormatFieldValue: func(i interface{}) string {
			value := fmt.Sprintf("%s", i)
			color, ok := kindColors[value]
			if !ok {
				return value
			}
			return colorize("("+value+")", color, noColor)
		},
	}
}

func colorize(s string, color int, disabled bool) string {
	if disabled {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", color, s)
}

// Name returns the emitter identity, empty for the untagged logger.
func (l *Logger) Name() string { return l.name }

// Named returns a logger tagging entries with name.
func (l *Logger) Named(name string) Sink {
	return &Logger{
		base: l.base,
		zl:   l.base.With().Str(UnitFieldName, name).Logger(),
		name: name,
	}
}

func (l *Logger) Info(msg string)    { write(l.zl.Info(), KindInfo, msg) }
func (l *Logger) Success(msg string) { write(l.zl.Info(), KindSuccess, msg) }
func (l *Logger) System(msg string)  { write(l.zl.Info(), KindSystem, msg) }
func (l *Logger) Warning(msg string) { write(l.zl.Warn(), KindWarning, msg) }
func (l *Logger) Failed(msg string)  { write(l.zl.Error(), KindFailed, msg) }

// Object logs data serialized as JSON.
func (l *Logger) Object(data interface{}) {
	defer func() {
		if r := recover(); r != nil {
			l.Failed(fmt.Sprintf("failed to log object data: %v", r))
		}
	}()
	encoded, err := json.Marshal(data)
	if err != nil {
		l.Failed(fmt.Sprintf("failed to log object data: %v", err))
		return
	}
	l.zl.Info().Str(KindFieldName, KindObject).RawJSON(ObjectFieldName, encoded).Msg("")
}

func write(event *zerolog.Event, kind, msg string) {
	if event == nil {
		return
	}
	event.Str(KindFieldName, kind).Msg(msg)
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error", "failed":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

var (
	defaultMu   sync.RWMutex
	defaultSink Sink
)

// Default returns the process wide sink, configured from the runtime profile
// and MODTREE_LOG_* overrides on first use.
func Default() Sink {
	defaultMu.RLock()
	sink := defaultSink
	defaultMu.RUnlock()
	if sink != nil {
		return sink
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSink == nil {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		defaultSink = New(cfg, os.Stdout)
	}
	return defaultSink
}

// SetDefault replaces the process wide sink; nil restores lazy configuration.
func SetDefault(sink Sink) {
	defaultMu.Lock()
	defaultSink = sink
	defaultMu.Unlock()
}
