package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"pkt.systems/bpflog"
)

type field struct {
	key   string
	value any
}

func collectFields(keyvals []any) []field {
	if len(keyvals) == 0 {
		return nil
	}
	fields := make([]field, 0, (len(keyvals)+1)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, value := pairAt(keyvals, i)
		fields = append(fields, field{key: key, value: value})
	}
	return fields
}

// pairAt returns the key and value starting at keyvals[i]. A trailing value
// without a key is stored under "error" when it is one, and under a
// positional "argN" key otherwise.
func pairAt(keyvals []any, i int) (string, any) {
	if i+1 < len(keyvals) {
		return keyFromValue(keyvals[i], i/2), keyvals[i+1]
	}
	if _, ok := keyvals[i].(error); ok {
		return ErrorKey, keyvals[i]
	}
	return argKeyName(i / 2), keyvals[i]
}

func keyFromValue(v any, pair int) string {
	switch k := v.(type) {
	case string:
		return k
	case nil:
		return argKeyName(pair)
	case fmt.Stringer:
		return k.String()
	case error:
		return k.Error()
	default:
		return fmt.Sprint(v)
	}
}

var argKeys = [...]string{"arg0", "arg1", "arg2", "arg3", "arg4", "arg5", "arg6", "arg7"}

func argKeyName(pair int) string {
	if pair >= 0 && pair < len(argKeys) {
		return argKeys[pair]
	}
	return "arg" + strconv.Itoa(pair)
}

type coreConfig struct {
	writer           io.Writer
	minLevel         bpflog.Level
	includeTimestamp bool
	timeLayout       string
	useUTC           bool
}

func (c coreConfig) shouldLog(level bpflog.Level) bool {
	return c.writer != nil && level.Valid() && level >= c.minLevel
}

func (c coreConfig) appendTimestamp(dst []byte) []byte {
	now := time.Now()
	if c.useUTC {
		now = now.UTC()
	}
	return now.AppendFormat(dst, c.timeLayout)
}

type loggerBase struct {
	cfg    coreConfig
	fields []field
}

func (b loggerBase) withFields(additional []field) loggerBase {
	if len(additional) == 0 {
		return b
	}
	fields := make([]field, 0, len(b.fields)+len(additional))
	fields = append(fields, b.fields...)
	fields = append(fields, additional...)
	b.fields = fields
	return b
}

func (b loggerBase) withMinLevel(level bpflog.Level) loggerBase {
	b.cfg.minLevel = level
	return b
}
