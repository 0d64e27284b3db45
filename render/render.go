// Package render prints decoded records and the tool's own diagnostics as
// console lines or compact JSON. Lines are assembled in pooled buffers and
// written with a single Write call, so a Logger may be shared between
// goroutines as long as the destination tolerates concurrent writes.
package render

import (
	"context"
	"io"
	"time"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/ansi"
)

// Logger is the line logger used throughout the module.
type Logger interface {
	// Trace logs msg at TraceLevel.
	Trace(msg string, keyvals ...any)
	// Debug logs msg at DebugLevel.
	Debug(msg string, keyvals ...any)
	// Info logs msg at InfoLevel.
	Info(msg string, keyvals ...any)
	// Warn logs msg at WarnLevel.
	Warn(msg string, keyvals ...any)
	// Error logs msg at ErrorLevel.
	Error(msg string, keyvals ...any)
	// Log emits msg at level.
	Log(level bpflog.Level, msg string, keyvals ...any)

	// With returns a logger that adds keyvals to every entry. The receiver
	// is not modified.
	With(keyvals ...any) Logger

	// LogLevel returns a logger whose minimum level is level.
	LogLevel(level bpflog.Level) Logger
}

// Mode selects the line format.
type Mode int

const (
	// ModeConsole emits human-oriented key=value lines, coloured on a TTY.
	ModeConsole Mode = iota
	// ModeStructured emits one compact JSON object per line.
	ModeStructured
)

// DTGTimeFormat is the default Date Time Group format (DDHHMM) for console
// lines.
var DTGTimeFormat = "021504"

// Options controls formatting and filtering.
type Options struct {
	// Mode selects console (default) or structured JSON rendering.
	Mode Mode

	// TimeFormat overrides the timestamp layout. When empty, DTGTimeFormat is
	// used for console output and time.RFC3339 for JSON.
	TimeFormat string

	// DisableTimestamp drops the timestamp entirely.
	DisableTimestamp bool

	// NoColor turns colour off regardless of terminal detection.
	NoColor bool

	// ForceColor emits colour even when the destination is not a TTY.
	ForceColor bool

	// Palette overrides the colours of console output. When nil the active
	// ansi palette is captured at construction.
	Palette *ansi.Palette

	// MinLevel drops entries below this level.
	MinLevel bpflog.Level

	// VerboseFields switches JSON keys from ts/lvl/msg to time/level/message.
	VerboseFields bool

	// UTC renders timestamps in UTC.
	UTC bool
}

// New returns a console logger writing to w.
func New(w io.Writer) Logger {
	return NewWithOptions(w, Options{Mode: ModeConsole})
}

// NewStructured returns a JSON logger writing to w.
func NewStructured(w io.Writer) Logger {
	return NewWithOptions(w, Options{Mode: ModeStructured})
}

// NewWithOptions returns a logger with explicit settings.
func NewWithOptions(w io.Writer, opts Options) Logger {
	if w == nil {
		w = io.Discard
	}
	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		if opts.Mode == ModeStructured {
			timeFormat = time.RFC3339
		} else {
			timeFormat = DTGTimeFormat
		}
	}
	cfg := coreConfig{
		writer:           w,
		minLevel:         opts.MinLevel,
		includeTimestamp: !opts.DisableTimestamp,
		timeLayout:       timeFormat,
		useUTC:           opts.UTC,
	}
	if opts.Mode == ModeStructured {
		return newJSONLogger(cfg, opts.VerboseFields)
	}
	var palette *ansi.Palette
	if !opts.NoColor && (opts.ForceColor || isTerminal(w)) {
		palette = resolvePalette(opts.Palette)
	}
	return newConsoleLogger(cfg, palette)
}

func resolvePalette(p *ansi.Palette) *ansi.Palette {
	active := ansi.Snapshot()
	if p == nil {
		return &active
	}
	merged := p.Merge(active)
	return &merged
}

type loggerContextKey struct{}

// ContextWithLogger returns a child context carrying logger.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// Ctx returns the logger carried by ctx, or a logger that discards
// everything.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return noopLogger{}
	}
	if logger, ok := ctx.Value(loggerContextKey{}).(Logger); ok && logger != nil {
		return logger
	}
	return noopLogger{}
}
