package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/ansi"
)

// FromEnvOption customizes FromEnv.
type FromEnvOption func(*fromEnvConfig)

type fromEnvConfig struct {
	prefix  string
	options Options
	writer  io.Writer
}

// WithEnvPrefix overrides the "LOG_" variable prefix.
func WithEnvPrefix(prefix string) FromEnvOption {
	return func(cfg *fromEnvConfig) {
		cfg.prefix = prefix
	}
}

// WithEnvOptions seeds FromEnv with explicit Options. Environment values
// override them.
func WithEnvOptions(opts Options) FromEnvOption {
	return func(cfg *fromEnvConfig) {
		cfg.options = opts
	}
}

// WithEnvWriter sets the default destination. It defaults to os.Stdout.
func WithEnvWriter(w io.Writer) FromEnvOption {
	return func(cfg *fromEnvConfig) {
		cfg.writer = w
	}
}

// FromEnv builds a Logger from environment variables.
//
// Recognised variables, all under the prefix: LEVEL, MODE
// (console|structured|json), TIME_FORMAT, DISABLE_TIMESTAMP, NO_COLOR,
// FORCE_COLOR, PALETTE, UTC, VERBOSE_FIELDS and OUTPUT. OUTPUT accepts
// stdout, stderr, default, a file path, or stdout+/stderr+/default+<path> to
// tee into a file. A file opened for OUTPUT is released by Close.
func FromEnv(opts ...FromEnvOption) Logger {
	cfg := fromEnvConfig{prefix: "LOG_"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	resolved := cfg.options
	base := cfg.writer
	if base == nil {
		base = os.Stdout
	}
	prefix := cfg.prefix
	if value, ok := lookupEnv(prefix, "LEVEL"); ok {
		if level, ok := bpflog.ParseLevel(value); ok {
			resolved.MinLevel = level
		}
	}
	if value, ok := lookupEnv(prefix, "MODE"); ok {
		if mode, ok := parseEnvMode(value); ok {
			resolved.Mode = mode
		}
	}
	if value, ok := lookupEnv(prefix, "TIME_FORMAT"); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			resolved.TimeFormat = trimmed
		}
	}
	envBool(prefix, "DISABLE_TIMESTAMP", &resolved.DisableTimestamp)
	envBool(prefix, "NO_COLOR", &resolved.NoColor)
	envBool(prefix, "FORCE_COLOR", &resolved.ForceColor)
	envBool(prefix, "UTC", &resolved.UTC)
	envBool(prefix, "VERBOSE_FIELDS", &resolved.VerboseFields)
	if value, ok := lookupEnv(prefix, "PALETTE"); ok {
		resolved.Palette = ansi.PaletteByName(value)
	}

	writer := base
	outputValue, hasOutput := lookupEnv(prefix, "OUTPUT")
	var outputErr error
	if hasOutput {
		writer, outputErr = writerFromEnvOutput(outputValue, base)
	}
	logger := NewWithOptions(writer, resolved)
	if outputErr != nil {
		logger.Error("logger.output.open.failed", "output", strings.TrimSpace(outputValue), outputErr)
	}
	if owned, ok := writer.(*ownedOutput); ok {
		return &closingLogger{Logger: logger, output: owned}
	}
	return logger
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}

func envBool(prefix, key string, dst *bool) {
	value, ok := lookupEnv(prefix, key)
	if !ok {
		return
	}
	if parsed, ok := parseEnvBool(value); ok {
		*dst = parsed
	}
}

func parseEnvBool(value string) (bool, bool) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, false
	}
	return parsed, true
}

func parseEnvMode(value string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "console":
		return ModeConsole, true
	case "structured", "json":
		return ModeStructured, true
	default:
		return ModeConsole, false
	}
}

func writerFromEnvOutput(value string, base io.Writer) (io.Writer, error) {
	trimmed := strings.TrimSpace(value)
	lowered := strings.ToLower(trimmed)
	switch lowered {
	case "", "default":
		return base, nil
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	for _, tee := range []struct {
		prefix string
		w      io.Writer
	}{
		{"stdout+", os.Stdout},
		{"stderr+", os.Stderr},
		{"default+", base},
	} {
		if !strings.HasPrefix(lowered, tee.prefix) {
			continue
		}
		path := strings.TrimSpace(trimmed[len(tee.prefix):])
		if path == "" {
			return tee.w, nil
		}
		file, err := openLogOutputFile(path)
		if err != nil {
			return base, err
		}
		return &ownedOutput{writer: io.MultiWriter(tee.w, file), closer: file}, nil
	}
	file, err := openLogOutputFile(trimmed)
	if err != nil {
		return base, err
	}
	return &ownedOutput{writer: file, closer: file}, nil
}

func openLogOutputFile(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log output %q: %w", path, err)
	}
	return file, nil
}

// ownedOutput is a destination the logger opened itself and must close.
type ownedOutput struct {
	writer   io.Writer
	closer   io.Closer
	once     sync.Once
	closeErr error
}

func (o *ownedOutput) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

func (o *ownedOutput) Close() error {
	o.once.Do(func() {
		o.closeErr = o.closer.Close()
	})
	return o.closeErr
}

type closingLogger struct {
	Logger
	output *ownedOutput
}

func (c *closingLogger) Close() error {
	return c.output.Close()
}

// Close releases an output FromEnv opened for logger, which must be the
// logger FromEnv returned. It is a no-op for every other logger.
func Close(logger Logger) error {
	if c, ok := logger.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
