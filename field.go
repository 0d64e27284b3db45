package bpflog

import (
	"encoding/binary"
	"math/bits"
)

// Field identifies the semantic kind of a TLV entry.
type Field uint8

const (
	// TargetField carries the logging target.
	TargetField Field = iota + 1
	// LevelField carries the severity ordinal.
	LevelField
	// ModuleField carries the source module.
	ModuleField
	// FileField carries the source file.
	FileField
	// LineField carries the source line.
	LineField
	// LogField carries the message payload.
	LogField
)

const (
	// TagSize is the encoded width of a Field.
	TagSize = 1
	// LenSize is the encoded width of a length prefix: the platform's
	// pointer-sized unsigned integer.
	LenSize = bits.UintSize / 8
	// LineSize is the encoded width of a Line value regardless of platform.
	LineSize = 4
	// Capacity is the size of one record buffer. Readers must agree on it.
	Capacity = 8192
)

// byteOrder is the order used for every fixed-width integer on the wire.
var byteOrder = binary.NativeEndian

// String returns a short lower-case name for the field.
func (f Field) String() string {
	switch f {
	case TargetField:
		return "target"
	case LevelField:
		return "level"
	case ModuleField:
		return "module"
	case FileField:
		return "file"
	case LineField:
		return "line"
	case LogField:
		return "log"
	default:
		return "unknown"
	}
}

func (f Field) valid() bool {
	return f >= TargetField && f <= LogField
}

// FieldSize returns the number of bytes a TLV entry with an n-byte value
// occupies.
func FieldSize(n int) int {
	return TagSize + LenSize + n
}

func putLen(dst []byte, n int) {
	if LenSize == 8 {
		byteOrder.PutUint64(dst, uint64(n))
		return
	}
	byteOrder.PutUint32(dst, uint32(n))
}

func readLen(src []byte) uint64 {
	if LenSize == 8 {
		return byteOrder.Uint64(src)
	}
	return uint64(byteOrder.Uint32(src))
}
