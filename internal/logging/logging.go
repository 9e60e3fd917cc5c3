package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lydakis/cadmcp/internal/paths"
)

// Environment overrides, applied after config and flags.
const (
	EnvLogLevel   = "CADMCP_LOG_LEVEL"
	EnvLogNoColor = "CADMCP_LOG_NOCOLOR"
)

// Options selects where and how verbosely cadmcp logs. Stdout is reserved
// for MCP frames and command output, so console logs always go to Stderr.
type Options struct {
	Level   string
	File    string
	Verbose bool
	Stderr  io.Writer
}

// New builds the process logger. The returned closer releases the log file,
// if one was opened, and is never nil.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if lvl, ok := parseLevel(opts.Level); ok {
		level = lvl
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	noColor := true
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		noColor = v
	}
	console := zerolog.ConsoleWriter{Out: stderr, NoColor: noColor, TimeFormat: time.RFC3339}

	var closer io.Closer = nopCloser{}
	var out io.Writer = console
	if opts.File != "" {
		if err := paths.EnsureDir(filepath.Dir(opts.File)); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("opening log file %s: %w", opts.File, err)
		}
		closer = f
		out = zerolog.MultiLevelWriter(console, f)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// ValidLevel reports whether raw names a level New understands.
func ValidLevel(raw string) bool {
	_, ok := parseLevel(raw)
	return ok
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
