package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kdschlosser/angry-debugger/debugger/level"
)

var (
	// ErrUnknownBackend is returned by Configure for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown sink backend")
	// ErrUnknownFormat is returned by Configure for an unsupported format name.
	ErrUnknownFormat = errors.New("unknown sink format")
)

// LogrusBackend writes entries through a logrus logger. The trace level name
// and logger name travel as the "trace_level" and "logger" fields.
type LogrusBackend struct {
	logger *logrus.Logger
	level  logrus.Level
}

// NewLogrusBackend returns a backend writing to l at logrus.InfoLevel.
func NewLogrusBackend(l *logrus.Logger) *LogrusBackend {
	return &LogrusBackend{logger: l, level: logrus.InfoLevel}
}

// WithLevel returns a copy of b that writes at lvl.
func (b *LogrusBackend) WithLevel(lvl logrus.Level) *LogrusBackend {
	return &LogrusBackend{logger: b.logger, level: lvl}
}

// Write implements Backend.
func (b *LogrusBackend) Write(e Entry) {
	b.logger.WithFields(logrus.Fields{
		"logger":      e.Logger,
		"trace_level": e.LevelName,
	}).WithTime(e.Time).Log(b.level, e.Message)
}

// ZapBackend writes entries through a zap logger at info level.
type ZapBackend struct {
	logger *zap.Logger
}

// NewZapBackend returns a backend writing to l.
func NewZapBackend(l *zap.Logger) *ZapBackend {
	return &ZapBackend{logger: l}
}

// Write implements Backend.
func (b *ZapBackend) Write(e Entry) {
	b.logger.Info(e.Message,
		zap.String("logger", e.Logger),
		zap.String("trace_level", e.LevelName),
		zap.Int("level", int(e.Level)),
	)
}

// TextFormatter renders "2006-01-02 15:04:05,000 - message", the layout trace
// records are designed to be read in.
type TextFormatter struct {
	color  bool
	stamp  *color.Color
	banner *color.Color
}

// NewTextFormatter returns a formatter; colour adds ANSI colour to the
// timestamp and to logging-run banner lines.
func NewTextFormatter(colour bool) *TextFormatter {
	f := &TextFormatter{color: colour}
	if colour {
		f.stamp = color.New(color.FgHiBlack)
		f.stamp.EnableColor()
		f.banner = color.New(color.FgYellow, color.Bold)
		f.banner.EnableColor()
	}
	return f
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(e *logrus.Entry) ([]byte, error) {
	stamp := e.Time.Format("2006-01-02 15:04:05") + fmt.Sprintf(",%03d", e.Time.Nanosecond()/1e6)
	msg := e.Message
	if f.color {
		stamp = f.stamp.Sprint(stamp)
		msg = f.colorBanners(msg)
	}
	return []byte(stamp + " - " + msg + "\n"), nil
}

func (f *TextFormatter) colorBanners(msg string) string {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "********************") {
			lines[i] = f.banner.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

var (
	defaultOnce sync.Once
	defaultB    Backend
)

func defaultBackend() Backend {
	defaultOnce.Do(func() {
		defaultB = NewLogrusBackend(newLogrus(os.Stderr, NewTextFormatter(false)))
	})
	return defaultB
}

func newLogrus(w io.Writer, f logrus.Formatter) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(f)
	l.SetLevel(logrus.TraceLevel)
	return l
}

// Options configures the root logger.
type Options struct {
	Level   level.Level // root level; NotSet leaves it unchanged
	Output  io.Writer   // defaults to os.Stderr
	Format  string      // "text" (default) or "json"
	Color   bool        // text format only
	Backend string      // "logrus" (default) or "zap"
}

// Configure installs a root backend built from opts and sets the root level.
func Configure(opts Options) error {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	format := strings.ToLower(opts.Format)
	if format != "" && format != "text" && format != "json" {
		return fmt.Errorf("configure sink: %w: %q", ErrUnknownFormat, opts.Format)
	}

	var b Backend
	switch strings.ToLower(opts.Backend) {
	case "", "logrus":
		var f logrus.Formatter = NewTextFormatter(opts.Color)
		if format == "json" {
			f = &logrus.JSONFormatter{}
		}
		b = NewLogrusBackend(newLogrus(opts.Output, f))
	case "zap":
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if format == "json" {
			enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), zapcore.DebugLevel)
		b = NewZapBackend(zap.New(core))
	default:
		return fmt.Errorf("configure sink: %w: %q", ErrUnknownBackend, opts.Backend)
	}

	if opts.Level != level.NotSet {
		root.SetLevel(opts.Level)
	}
	root.SetBackend(b)
	return nil
}

// Reset restores the registry to its initial state: root at level.Warning
// with the default backend, every other logger unset.
func Reset() {
	root.SetLevel(level.Warning)
	root.SetBackend(nil)

	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, l := range registry.loggers {
		l.SetLevel(level.NotSet)
		l.backend.Store(nil)
	}
}
