package render

import (
	"pkt.systems/bpflog"
	"pkt.systems/bpflog/ansi"
)

// consoleLogger writes "TS LVL message key=value ..." lines. A nil palette
// means plain output.
type consoleLogger struct {
	base      loggerBase
	palette   *ansi.Palette
	baseBytes []byte
}

func newConsoleLogger(cfg coreConfig, palette *ansi.Palette) *consoleLogger {
	l := &consoleLogger{base: loggerBase{cfg: cfg}, palette: palette}
	l.rebuildBaseBytes()
	return l
}

func (l *consoleLogger) Trace(msg string, keyvals ...any) { l.log(bpflog.TraceLevel, msg, keyvals) }
func (l *consoleLogger) Debug(msg string, keyvals ...any) { l.log(bpflog.DebugLevel, msg, keyvals) }
func (l *consoleLogger) Info(msg string, keyvals ...any)  { l.log(bpflog.InfoLevel, msg, keyvals) }
func (l *consoleLogger) Warn(msg string, keyvals ...any)  { l.log(bpflog.WarnLevel, msg, keyvals) }
func (l *consoleLogger) Error(msg string, keyvals ...any) { l.log(bpflog.ErrorLevel, msg, keyvals) }

func (l *consoleLogger) Log(level bpflog.Level, msg string, keyvals ...any) {
	l.log(level, msg, keyvals)
}

func (l *consoleLogger) log(level bpflog.Level, msg string, keyvals []any) {
	if !l.base.cfg.shouldLog(level) {
		return
	}
	lw := acquireLineWriter(l.base.cfg.writer)
	var tsColor, msgColor string
	if l.palette != nil {
		tsColor, msgColor = l.palette.Timestamp, l.palette.Message
	}
	if l.base.cfg.includeTimestamp {
		lw.beginColor(tsColor)
		lw.buf = l.base.cfg.appendTimestamp(lw.buf)
		lw.endColor(tsColor)
		lw.writeByte(' ')
	}
	levelColor := l.levelColor(level)
	lw.beginColor(levelColor)
	lw.writeString(consoleLevelLabel(level))
	lw.endColor(levelColor)
	if msg != "" {
		lw.writeByte(' ')
		lw.beginColor(msgColor)
		lw.buf = appendConsoleMessage(lw.buf, msg)
		lw.endColor(msgColor)
	}
	lw.writeBytes(l.baseBytes)
	for i := 0; i < len(keyvals); i += 2 {
		key, value := pairAt(keyvals, i)
		lw.buf = l.appendField(lw.buf, key, value)
	}
	lw.commit()
	releaseLineWriter(lw)
}

func (l *consoleLogger) levelColor(level bpflog.Level) string {
	if l.palette == nil {
		return ""
	}
	switch level {
	case bpflog.TraceLevel:
		return l.palette.Trace
	case bpflog.DebugLevel:
		return l.palette.Debug
	case bpflog.WarnLevel:
		return l.palette.Warn
	case bpflog.ErrorLevel:
		return l.palette.Error
	default:
		return l.palette.Info
	}
}

// keyColor gives the record's identifying fields their own colours so a
// forwarded record reads apart from ordinary key/value pairs.
func (l *consoleLogger) keyColor(key string) (string, bool) {
	if l.palette == nil {
		return "", false
	}
	switch key {
	case TargetKey:
		return l.palette.Target, true
	case ModuleKey, FileKey, LineKey:
		return l.palette.Source, true
	}
	return l.palette.Key, false
}

func (l *consoleLogger) appendField(dst []byte, key string, value any) []byte {
	if key == "" {
		return dst
	}
	dst = append(dst, ' ')
	keyColor, whole := l.keyColor(key)
	dst = append(dst, keyColor...)
	dst = append(dst, key...)
	dst = append(dst, '=')
	if whole {
		dst = appendConsoleValue(dst, value)
		return append(dst, ansi.Reset...)
	}
	if keyColor != "" {
		dst = append(dst, ansi.Reset...)
	}
	valueColor := kindColor(l.palette, kindOf(value))
	dst = append(dst, valueColor...)
	dst = appendConsoleValue(dst, value)
	if valueColor != "" {
		dst = append(dst, ansi.Reset...)
	}
	return dst
}

func (l *consoleLogger) With(keyvals ...any) Logger {
	fields := collectFields(keyvals)
	if len(fields) == 0 {
		return l
	}
	clone := *l
	clone.base = l.base.withFields(fields)
	clone.rebuildBaseBytes()
	return &clone
}

func (l *consoleLogger) LogLevel(level bpflog.Level) Logger {
	clone := *l
	clone.base = l.base.withMinLevel(level)
	return &clone
}

func (l *consoleLogger) rebuildBaseBytes() {
	var buf []byte
	for _, f := range l.base.fields {
		buf = l.appendField(buf, f.key, f.value)
	}
	l.baseBytes = buf
}

func consoleLevelLabel(level bpflog.Level) string {
	switch level {
	case bpflog.TraceLevel:
		return "TRC"
	case bpflog.DebugLevel:
		return "DBG"
	case bpflog.InfoLevel:
		return "INF"
	case bpflog.WarnLevel:
		return "WRN"
	case bpflog.ErrorLevel:
		return "ERR"
	default:
		return "???"
	}
}
