// Package logging constructs the named logrus loggers used across the
// service. Loggers are held in a process-wide registry so log levels can be
// adjusted per name or globally at runtime, and can optionally copy their
// output into a size-rotated file.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control logger construction.
type Options struct {
	Level  string // trace, debug, info, warn, error
	Format string // text or json
	File   FileOptions
}

// FileOptions enable rotating file output alongside stdout.
type FileOptions struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*logrus.Logger{}
	defaults   = Options{Level: "info", Format: "text"}
)

// Configure sets the options applied to loggers created afterwards, and
// re-levels every already-registered logger.
func Configure(opts Options) {
	registryMu.Lock()
	defaults = opts
	registryMu.Unlock()

	SetAllLevels(ParseLevel(opts.Level))
}

// NewLogger returns the registered logger for name, creating it on first
// use with the configured options.
func NewLogger(name string) *logrus.Logger {
	registryMu.RLock()
	l, ok := registry[name]
	opts := defaults
	registryMu.RUnlock()
	if ok {
		return l
	}

	l = logrus.New()
	l.SetLevel(ParseLevel(opts.Level))
	l.SetReportCaller(true)

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(jsonFormatter())
	} else {
		l.SetFormatter(&TextFormatter{LoggerName: name})
	}

	var out io.Writer = os.Stdout
	if opts.File.Enabled && opts.File.Path != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
		})
	}
	l.SetOutput(out)

	registryMu.Lock()
	if existing, ok := registry[name]; ok {
		l = existing
	} else {
		registry[name] = l
	}
	registryMu.Unlock()
	return l
}

// ParseLevel maps a level string to a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel adjusts one named logger. Returns false if the name is unknown.
func SetLevel(name string, level logrus.Level) bool {
	registryMu.RLock()
	l, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return false
	}
	l.SetLevel(level)
	return true
}

// SetAllLevels adjusts every registered logger.
func SetAllLevels(level logrus.Level) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, l := range registry {
		l.SetLevel(level)
	}
}
