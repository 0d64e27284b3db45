package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/segmentio/encoding/json"

	"pkt.systems/bpflog/ansi"
)

// valueKind groups values by the palette role they are printed with.
type valueKind uint8

const (
	kindString valueKind = iota
	kindNum
	kindBool
	kindNil
)

func kindColor(p *ansi.Palette, kind valueKind) string {
	if p == nil {
		return ""
	}
	switch kind {
	case kindNum:
		return p.Num
	case kindBool:
		return p.Bool
	case kindNil:
		return p.Nil
	default:
		return p.String
	}
}

func kindOf(value any) valueKind {
	switch value.(type) {
	case bool:
		return kindBool
	case nil:
		return kindNil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr, float32, float64:
		return kindNum
	default:
		return kindString
	}
}

// appendConsoleValue appends value in key=value form.
func appendConsoleValue(dst []byte, value any) []byte {
	switch v := value.(type) {
	case string:
		return appendConsoleString(dst, v)
	case []byte:
		return appendConsoleString(dst, string(v))
	case bool:
		return strconv.AppendBool(dst, v)
	case int:
		return strconv.AppendInt(dst, int64(v), 10)
	case int8:
		return strconv.AppendInt(dst, int64(v), 10)
	case int16:
		return strconv.AppendInt(dst, int64(v), 10)
	case int32:
		return strconv.AppendInt(dst, int64(v), 10)
	case int64:
		return strconv.AppendInt(dst, v, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(dst, v, 10)
	case uintptr:
		return strconv.AppendUint(dst, uint64(v), 10)
	case float32:
		return strconv.AppendFloat(dst, float64(v), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, v, 'f', -1, 64)
	case time.Time:
		return appendConsoleString(dst, v.Format(time.RFC3339Nano))
	case time.Duration:
		return appendConsoleString(dst, v.String())
	case error:
		return appendConsoleString(dst, v.Error())
	case fmt.Stringer:
		return appendConsoleString(dst, v.String())
	case nil:
		return append(dst, "nil"...)
	default:
		return appendConsoleString(dst, fmt.Sprint(v))
	}
}

// appendJSONValue appends value as a JSON value.
func appendJSONValue(dst []byte, value any) []byte {
	switch v := value.(type) {
	case string:
		return appendJSONString(dst, v)
	case []byte:
		return appendJSONString(dst, string(v))
	case bool:
		return strconv.AppendBool(dst, v)
	case int:
		return strconv.AppendInt(dst, int64(v), 10)
	case int8:
		return strconv.AppendInt(dst, int64(v), 10)
	case int16:
		return strconv.AppendInt(dst, int64(v), 10)
	case int32:
		return strconv.AppendInt(dst, int64(v), 10)
	case int64:
		return strconv.AppendInt(dst, v, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(dst, v, 10)
	case uintptr:
		return strconv.AppendUint(dst, uint64(v), 10)
	case float32:
		return appendJSONFloat(dst, float64(v), 32)
	case float64:
		return appendJSONFloat(dst, v, 64)
	case time.Time:
		return appendJSONString(dst, v.Format(time.RFC3339Nano))
	case time.Duration:
		return appendJSONString(dst, v.String())
	case json.Marshaler:
		b, err := v.MarshalJSON()
		if err != nil {
			return appendJSONString(dst, err.Error())
		}
		return append(dst, b...)
	case error:
		return appendJSONString(dst, v.Error())
	case fmt.Stringer:
		return appendJSONString(dst, v.String())
	case nil:
		return append(dst, "null"...)
	default:
		out, err := json.Append(dst, v, json.EscapeHTML)
		if err != nil {
			return appendJSONString(dst, err.Error())
		}
		return out
	}
}

// appendJSONFloat writes NaN and infinities as strings since JSON has no
// literal for them.
func appendJSONFloat(dst []byte, f float64, bitSize int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, `"NaN"`...)
	case math.IsInf(f, 1):
		return append(dst, `"+Inf"`...)
	case math.IsInf(f, -1):
		return append(dst, `"-Inf"`...)
	}
	return strconv.AppendFloat(dst, f, 'f', -1, bitSize)
}
