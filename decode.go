package bpflog

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every decoding error.
var ErrMalformed = errors.New("bpflog: malformed record")

// Record is the decoded form of one record.
type Record struct {
	Target  string
	Level   Level
	Module  string
	File    string
	Line    uint32
	Message string
}

// NextField splits the first TLV entry off buf. It returns the tag, the value
// (aliasing buf) and the bytes after the entry.
func NextField(buf []byte) (Field, []byte, []byte, error) {
	if len(buf) < TagSize+LenSize {
		return 0, nil, nil, fmt.Errorf("%w: %d bytes left, need %d for tag and length", ErrMalformed, len(buf), TagSize+LenSize)
	}
	tag := Field(buf[0])
	if !tag.valid() {
		return 0, nil, nil, fmt.Errorf("%w: unknown tag %d", ErrMalformed, buf[0])
	}
	n := readLen(buf[TagSize:])
	rest := buf[TagSize+LenSize:]
	if n > uint64(len(rest)) {
		return 0, nil, nil, fmt.Errorf("%w: %s length %d exceeds remaining %d bytes", ErrMalformed, tag, n, len(rest))
	}
	return tag, rest[:n], rest[n:], nil
}

// Decode parses a record produced by WriteHeader followed by a finished
// Writer. Header fields may be absent; the Log field is required. Bytes after
// the Log field are ignored, since the length prefix is authoritative.
func Decode(buf []byte) (Record, error) {
	var rec Record
	for len(buf) > 0 {
		tag, value, rest, err := NextField(buf)
		if err != nil {
			return Record{}, err
		}
		switch tag {
		case TargetField:
			rec.Target = string(value)
		case LevelField:
			if len(value) != LenSize {
				return Record{}, fmt.Errorf("%w: level is %d bytes, want %d", ErrMalformed, len(value), LenSize)
			}
			rec.Level = Level(readLen(value))
			if !rec.Level.Valid() {
				return Record{}, fmt.Errorf("%w: unknown level %d", ErrMalformed, rec.Level)
			}
		case ModuleField:
			rec.Module = string(value)
		case FileField:
			rec.File = string(value)
		case LineField:
			if len(value) != LineSize {
				return Record{}, fmt.Errorf("%w: line is %d bytes, want %d", ErrMalformed, len(value), LineSize)
			}
			rec.Line = byteOrder.Uint32(value)
		case LogField:
			rec.Message = string(value)
			return rec, nil
		}
		buf = rest
	}
	return Record{}, fmt.Errorf("%w: missing log field", ErrMalformed)
}
