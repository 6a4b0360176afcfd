package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const header = "${time_rfc3339} ${level} ${prefix} ${short_file}:${line}"

// Config controls where and how much the simulator logs.
type Config struct {
	Level string // debug, info, warn, error, off
	File  string // optional rotated log file, in addition to stderr

	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	level            = log.INFO
)

// ParseLevel maps a level name to a gommon level.
func ParseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return log.INFO, fmt.Errorf("%s: invalid log level", s)
}

// Configure applies cfg to the global gommon logger and to every logger
// subsequently returned by New. The returned closer releases the log file,
// if any.
func Configure(cfg Config) (io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	w := io.Writer(os.Stderr)
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // MB
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}
		if lj.MaxSize == 0 {
			lj.MaxSize = 32
		}
		w = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	mu.Lock()
	output, level = w, lvl
	mu.Unlock()

	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetHeader(header)
	return closer, nil
}

// New returns a logger tagged with prefix that follows the current
// configuration.
func New(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	l := log.New(prefix)
	l.SetOutput(output)
	l.SetLevel(level)
	l.SetHeader(header)
	return l
}

// Discard returns a logger that drops everything; tests use it to keep
// their output quiet.
func Discard() *log.Logger {
	l := log.New("discard")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
