package bpflog

import "strconv"

const reservedSize = TagSize + LenSize

// Writer streams a record's message into a fixed buffer. The first
// TagSize+LenSize bytes of the buffer are reserved for the Log tag and length,
// which Finish fills in. A Writer must not be shared between goroutines.
type Writer struct {
	pos int
	buf []byte
}

// NewWriter returns a Writer over buf, which is usually the tail of a record
// buffer following the header. It fails when buf cannot even hold the
// reserved tag and length.
func NewWriter(buf []byte) (Writer, error) {
	if len(buf) < reservedSize {
		return Writer{}, ErrCapacityExceeded
	}
	return Writer{pos: reservedSize, buf: buf}, nil
}

// Len returns the number of message bytes written so far.
func (w *Writer) Len() int {
	if w.buf == nil {
		return 0
	}
	return w.pos - reservedSize
}

// Available returns the number of message bytes that still fit.
func (w *Writer) Available() int {
	return len(w.buf) - w.pos
}

// WriteString appends s to the message. Either all of s is written or, when
// it does not fit, nothing is and ErrCapacityExceeded is returned.
func (w *Writer) WriteString(s string) error {
	if len(s) > w.Available() {
		return ErrCapacityExceeded
	}
	w.pos += copy(w.buf[w.pos:], s)
	return nil
}

// Write implements io.Writer with the same all-or-nothing semantics as
// WriteString.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) > w.Available() {
		return 0, ErrCapacityExceeded
	}
	w.pos += copy(w.buf[w.pos:], p)
	return len(p), nil
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(c byte) error {
	if w.Available() < 1 {
		return ErrCapacityExceeded
	}
	w.buf[w.pos] = c
	w.pos++
	return nil
}

// AppendInt appends the base-10 form of n.
func (w *Writer) AppendInt(n int64) error {
	var scratch [20]byte
	return w.appendScratch(strconv.AppendInt(scratch[:0], n, 10))
}

// AppendUint appends the base-10 form of n.
func (w *Writer) AppendUint(n uint64) error {
	var scratch [20]byte
	return w.appendScratch(strconv.AppendUint(scratch[:0], n, 10))
}

// AppendBool appends "true" or "false".
func (w *Writer) AppendBool(v bool) error {
	if v {
		return w.WriteString("true")
	}
	return w.WriteString("false")
}

func (w *Writer) appendScratch(b []byte) error {
	_, err := w.Write(b)
	return err
}

// Finish writes the Log tag and the message length into the reserved prefix
// and returns the number of bytes the message section occupies. The Writer
// gives up its buffer: later appends fail and a second Finish returns 0.
func (w *Writer) Finish() int {
	if w.buf == nil {
		return 0
	}
	w.buf[0] = byte(LogField)
	putLen(w.buf[TagSize:], w.pos-reservedSize)
	n := w.pos
	w.buf = nil
	w.pos = 0
	return n
}
