package render

import "pkt.systems/bpflog"

type noopLogger struct{}

// Noop returns a Logger that discards everything.
func Noop() Logger { return noopLogger{} }

func (noopLogger) Trace(string, ...any)             {}
func (noopLogger) Debug(string, ...any)             {}
func (noopLogger) Info(string, ...any)              {}
func (noopLogger) Warn(string, ...any)              {}
func (noopLogger) Error(string, ...any)             {}
func (noopLogger) Log(bpflog.Level, string, ...any) {}
func (n noopLogger) With(...any) Logger             { return n }
func (n noopLogger) LogLevel(bpflog.Level) Logger   { return n }
