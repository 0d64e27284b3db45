package render

import (
	"io"
	"sync"

	"pkt.systems/bpflog/ansi"
)

const (
	lineWriterDefaultCap = 1024
	lineWriterMaxCap     = 64 << 10
)

// lineWriter accumulates one line and hands it to dst in a single Write.
type lineWriter struct {
	dst io.Writer
	buf []byte
}

var lineWriterPool = sync.Pool{
	New: func() any {
		return &lineWriter{buf: make([]byte, 0, lineWriterDefaultCap)}
	},
}

func acquireLineWriter(dst io.Writer) *lineWriter {
	lw := lineWriterPool.Get().(*lineWriter)
	lw.dst = dst
	lw.buf = lw.buf[:0]
	return lw
}

func releaseLineWriter(lw *lineWriter) {
	lw.dst = nil
	if cap(lw.buf) > lineWriterMaxCap {
		lw.buf = make([]byte, 0, lineWriterDefaultCap)
	} else {
		lw.buf = lw.buf[:0]
	}
	lineWriterPool.Put(lw)
}

func (lw *lineWriter) writeByte(b byte) {
	lw.buf = append(lw.buf, b)
}

func (lw *lineWriter) writeString(s string) {
	lw.buf = append(lw.buf, s...)
}

func (lw *lineWriter) writeBytes(b []byte) {
	lw.buf = append(lw.buf, b...)
}

// beginColor and endColor bracket a coloured span. An empty color leaves
// the output plain.
func (lw *lineWriter) beginColor(color string) {
	lw.buf = append(lw.buf, color...)
}

func (lw *lineWriter) endColor(color string) {
	if color != "" {
		lw.buf = append(lw.buf, ansi.Reset...)
	}
}

// commit terminates the line and writes it out.
func (lw *lineWriter) commit() {
	lw.buf = append(lw.buf, '\n')
	if lw.dst != nil {
		_, _ = lw.dst.Write(lw.buf)
	}
	lw.buf = lw.buf[:0]
}
