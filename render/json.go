package render

import (
	"pkt.systems/bpflog"
)

// jsonLogger writes one compact JSON object per line. Key order is
// timestamp, level, message, static fields, call fields.
type jsonLogger struct {
	base        loggerBase
	tsKeyData   []byte
	lvlKeyData  []byte
	msgKeyData  []byte
	basePayload []byte
}

func newJSONLogger(cfg coreConfig, verbose bool) *jsonLogger {
	tsKey, lvlKey, msgKey := "ts", "lvl", "msg"
	if verbose {
		tsKey, lvlKey, msgKey = "time", "level", "message"
	}
	l := &jsonLogger{
		base:       loggerBase{cfg: cfg},
		tsKeyData:  makeKeyData(tsKey),
		lvlKeyData: makeKeyData(lvlKey),
		msgKeyData: makeKeyData(msgKey),
	}
	l.rebuildBasePayload()
	return l
}

// makeKeyData pre-encodes `,"key":`.
func makeKeyData(key string) []byte {
	buf := make([]byte, 0, len(key)+4)
	buf = append(buf, ',')
	buf = appendJSONString(buf, key)
	return append(buf, ':')
}

func (l *jsonLogger) Trace(msg string, keyvals ...any) { l.log(bpflog.TraceLevel, msg, keyvals) }
func (l *jsonLogger) Debug(msg string, keyvals ...any) { l.log(bpflog.DebugLevel, msg, keyvals) }
func (l *jsonLogger) Info(msg string, keyvals ...any)  { l.log(bpflog.InfoLevel, msg, keyvals) }
func (l *jsonLogger) Warn(msg string, keyvals ...any)  { l.log(bpflog.WarnLevel, msg, keyvals) }
func (l *jsonLogger) Error(msg string, keyvals ...any) { l.log(bpflog.ErrorLevel, msg, keyvals) }

func (l *jsonLogger) Log(level bpflog.Level, msg string, keyvals ...any) {
	l.log(level, msg, keyvals)
}

func (l *jsonLogger) log(level bpflog.Level, msg string, keyvals []any) {
	if !l.base.cfg.shouldLog(level) {
		return
	}
	lw := acquireLineWriter(l.base.cfg.writer)
	lw.writeByte('{')
	first := true
	if l.base.cfg.includeTimestamp {
		lw.writeKeyData(&first, l.tsKeyData)
		lw.writeByte('"')
		lw.buf = l.base.cfg.appendTimestamp(lw.buf)
		lw.writeByte('"')
	}
	lw.writeKeyData(&first, l.lvlKeyData)
	lw.writeByte('"')
	lw.writeString(level.String())
	lw.writeByte('"')
	if msg != "" {
		lw.writeKeyData(&first, l.msgKeyData)
		lw.buf = appendJSONString(lw.buf, msg)
	}
	lw.writeBytes(l.basePayload)
	for i := 0; i < len(keyvals); i += 2 {
		key, value := pairAt(keyvals, i)
		lw.buf = appendJSONField(lw.buf, key, value)
	}
	lw.writeByte('}')
	lw.commit()
	releaseLineWriter(lw)
}

// writeKeyData writes pre-encoded key data, dropping the leading comma for
// the first key of the object.
func (lw *lineWriter) writeKeyData(first *bool, keyData []byte) {
	if *first {
		*first = false
		lw.writeBytes(keyData[1:])
		return
	}
	lw.writeBytes(keyData)
}

func appendJSONField(dst []byte, key string, value any) []byte {
	if key == "" {
		return dst
	}
	dst = append(dst, ',')
	dst = appendJSONString(dst, key)
	dst = append(dst, ':')
	return appendJSONValue(dst, value)
}

func (l *jsonLogger) With(keyvals ...any) Logger {
	fields := collectFields(keyvals)
	if len(fields) == 0 {
		return l
	}
	clone := *l
	clone.base = l.base.withFields(fields)
	clone.rebuildBasePayload()
	return &clone
}

func (l *jsonLogger) LogLevel(level bpflog.Level) Logger {
	clone := *l
	clone.base = l.base.withMinLevel(level)
	return &clone
}

func (l *jsonLogger) rebuildBasePayload() {
	var buf []byte
	for _, f := range l.base.fields {
		buf = appendJSONField(buf, f.key, f.value)
	}
	l.basePayload = buf
}
