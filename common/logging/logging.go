// Package logging implements leveled, per-module structured logging on
// top of go-kit/log.
//
// Package level loggers may be obtained with GetLogger before Initialize
// runs. They discard output until then and are attached to the
// configured backend, with their module level resolved, by Initialize.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/pflag"
)

var (
	backend = logBackend{
		baseLogger:   log.NewNopLogger(),
		defaultLevel: LevelError,
	}

	_ pflag.Value = (*Level)(nil)
	_ pflag.Value = (*Format)(nil)
)

// Format is a logging format.
type Format uint

const (
	// FmtLogfmt is the "logfmt" logging format.
	FmtLogfmt Format = iota
	// FmtJSON is the JSON logging format.
	FmtJSON
)

var formatNames = []string{
	FmtLogfmt: "logfmt",
	FmtJSON:   "JSON",
}

// String returns the string representation of a Format.
func (f *Format) String() string {
	return formatNames[*f]
}

// Set parses a Format name, case-insensitively.
func (f *Format) Set(s string) error {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			*f = Format(i)
			return nil
		}
	}
	return fmt.Errorf("logging: invalid log format: '%s'", s)
}

// Type returns the list of supported Formats.
func (f *Format) Type() string {
	return "[" + strings.Join(formatNames, ",") + "]"
}

// Level is a log level.
type Level uint

const (
	// LevelDebug is the log level for debug messages.
	LevelDebug Level = iota
	// LevelInfo is the log level for informative messages.
	LevelInfo
	// LevelWarn is the log level for warning messages.
	LevelWarn
	// LevelError is the log level for error messages.
	LevelError
)

var levels = []struct {
	name  string
	allow func() level.Option
	with  func(log.Logger) log.Logger
}{
	LevelDebug: {"DEBUG", level.AllowDebug, level.Debug},
	LevelInfo:  {"INFO", level.AllowInfo, level.Info},
	LevelWarn:  {"WARN", level.AllowWarn, level.Warn},
	LevelError: {"ERROR", level.AllowError, level.Error},
}

// ParseLevel parses a Level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, l := range levels {
		if strings.EqualFold(s, l.name) {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("logging: invalid log level: '%s'", s)
}

// String returns the string representation of a Level.
func (l *Level) String() string {
	return levels[*l].name
}

// Set sets the Level to the value specified by the provided string.
func (l *Level) Set(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Type returns the list of supported Levels.
func (l *Level) Type() string {
	return "[DEBUG,INFO,WARN,ERROR]"
}

// Logger is a logger instance.
type Logger struct {
	logger log.Logger
	module string

	// level is shared with every clone made by With.
	level *atomic.Uint32
}

func newLevel(lvl Level) *atomic.Uint32 {
	var v atomic.Uint32
	v.Store(uint32(lvl))
	return &v
}

// Level returns the minimum level the logger emits.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// Debug logs the message and key value pairs at the Debug log level.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.log(LevelDebug, msg, keyvals)
}

// Info logs the message and key value pairs at the Info log level.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.log(LevelInfo, msg, keyvals)
}

// Warn logs the message and key value pairs at the Warn log level.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.log(LevelWarn, msg, keyvals)
}

// Error logs the message and key value pairs at the Error log level.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.log(LevelError, msg, keyvals)
}

func (l *Logger) log(lvl Level, msg string, keyvals []interface{}) {
	if lvl < l.Level() {
		return
	}
	keyvals = append([]interface{}{"msg", msg}, keyvals...)
	_ = levels[lvl].with(l.logger).Log(keyvals...)
}

// With returns a logger that adds the given key/value pairs to every
// entry. It follows the level of its parent.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{
		logger: log.With(l.logger, keyvals...),
		module: l.module,
		level:  l.level,
	}
}

// GetLogger returns a logger for the given module. It may be called at
// any time, including from package initialization.
func GetLogger(module string) *Logger {
	return backend.getLogger(module)
}

// Initialize attaches all loggers to w, encoded in the given format.
// Each module logs at the level of its longest matching prefix in
// moduleLvls, or at defaultLvl. A nil w discards all output.
func Initialize(w io.Writer, format Format, defaultLvl Level, moduleLvls map[string]Level) error {
	backend.Lock()
	defer backend.Unlock()

	if backend.initialized {
		return fmt.Errorf("logging: already initialized")
	}

	logger := backend.baseLogger
	if w != nil {
		w = log.NewSyncWriter(w)
		switch format {
		case FmtLogfmt:
			logger = log.NewLogfmtLogger(w)
		case FmtJSON:
			logger = log.NewJSONLogger(w)
		default:
			return fmt.Errorf("logging: unsupported log format: %v", format)
		}
	}

	// Per-module levels are enforced by Logger, the base filter only
	// has to admit the most verbose of them.
	minLvl := defaultLvl
	for _, lvl := range moduleLvls {
		if lvl < minLvl {
			minLvl = lvl
		}
	}
	logger = level.NewFilter(logger, levels[minLvl].allow())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	backend.baseLogger = logger
	backend.moduleLevels = moduleLvls
	backend.defaultLevel = defaultLvl
	backend.initialized = true

	for _, l := range backend.earlyLoggers {
		l.swap.Swap(logger)
		l.logger.level.Store(uint32(backend.levelForLocked(l.logger.module)))
	}
	backend.earlyLoggers = nil

	return nil
}

type earlyLogger struct {
	swap   *log.SwapLogger
	logger *Logger
}

type logBackend struct {
	sync.Mutex

	baseLogger   log.Logger
	earlyLoggers []*earlyLogger
	defaultLevel Level
	moduleLevels map[string]Level

	initialized bool
}

// levelForLocked resolves the level of a module: the longest matching
// module prefix wins, otherwise the default level applies.
func (b *logBackend) levelForLocked(module string) Level {
	prefixes := make([]string, 0, len(b.moduleLevels))
	for k := range b.moduleLevels {
		prefixes = append(prefixes, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(prefixes)))

	for _, k := range prefixes {
		if strings.HasPrefix(module, k) {
			return b.moduleLevels[k]
		}
	}
	return b.defaultLevel
}

func (b *logBackend) getLogger(module string) *Logger {
	// log.DefaultCaller depth plus Logger.log and the exported level
	// method.
	const callerDepth = 5

	b.Lock()
	defer b.Unlock()

	var swap *log.SwapLogger
	logger := b.baseLogger
	if !b.initialized {
		swap = &log.SwapLogger{}
		logger = swap
	}

	keyvals := []interface{}{"caller", log.Caller(callerDepth)}
	if module != "" {
		keyvals = append([]interface{}{"module", module}, keyvals...)
	}
	l := &Logger{
		logger: log.WithPrefix(logger, keyvals...),
		module: module,
		level:  newLevel(b.levelForLocked(module)),
	}

	if swap != nil {
		b.earlyLoggers = append(b.earlyLoggers, &earlyLogger{swap: swap, logger: l})
	}
	return l
}
