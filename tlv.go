package bpflog

import "errors"

// ErrCapacityExceeded is returned when a write does not fit the destination.
// Nothing is written when it is returned.
var ErrCapacityExceeded = errors.New("bpflog: capacity exceeded")

// EncodeField writes tag, len(value) and value into dst and returns the
// number of bytes written.
func EncodeField(tag Field, value []byte, dst []byte) (int, error) {
	return encodeTLV(tag, value, dst)
}

// EncodeString is EncodeField for string values. It does not convert value to
// a byte slice.
func EncodeString(tag Field, value string, dst []byte) (int, error) {
	return encodeTLV(tag, value, dst)
}

func encodeTLV[T ~string | ~[]byte](tag Field, value T, dst []byte) (int, error) {
	size := FieldSize(len(value))
	if len(dst) < size {
		return 0, ErrCapacityExceeded
	}
	dst[0] = byte(tag)
	putLen(dst[TagSize:], len(value))
	rest := dst[TagSize+LenSize:]
	// Clamp again even though size was checked above.
	n := min(len(rest), len(value))
	copy(rest[:n], value)
	return size, nil
}
