// Package transport carries bpflog records between processes as
// length-prefixed frames. A frame is a 4-byte big-endian length followed by
// one record as produced by the encoding pipeline.
package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"pkt.systems/bpflog"
)

// FrameHeaderSize is the size of the length prefix in front of each record.
const FrameHeaderSize = 4

// ErrFrameTooLarge is returned by FrameReader.Next when a frame announces more
// than bpflog.Capacity bytes. The stream cannot be resynchronised after it.
var ErrFrameTooLarge = errors.New("transport: frame exceeds record capacity")

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// StreamSender implements bpflog.Sender over a byte stream. Frames from
// concurrent senders are serialised. Failures are reported as negative errno
// values: the errno carried by the write error when there is one, -EIO
// otherwise, and -EMSGSIZE for records larger than bpflog.Capacity. A failed
// write leaves the stream unusable and every later Send returns -EPIPE.
type StreamSender struct {
	mu     sync.Mutex
	w      io.Writer
	hdr    [FrameHeaderSize]byte
	broken bool
}

// NewStreamSender returns a StreamSender writing frames to w. When w supports
// write deadlines, a deadline on the Send context is applied to the write.
func NewStreamSender(w io.Writer) *StreamSender {
	return &StreamSender{w: w}
}

// Send writes buf as one frame.
func (s *StreamSender) Send(ctx context.Context, buf []byte) int64 {
	if len(buf) > bpflog.Capacity {
		return -int64(syscall.EMSGSIZE)
	}
	if ctx.Err() != nil {
		return -int64(syscall.ECANCELED)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken || s.w == nil {
		return -int64(syscall.EPIPE)
	}
	if d, ok := s.w.(writeDeadliner); ok {
		if deadline, has := ctx.Deadline(); has {
			_ = d.SetWriteDeadline(deadline)
			defer func() { _ = d.SetWriteDeadline(time.Time{}) }()
		}
	}
	binary.BigEndian.PutUint32(s.hdr[:], uint32(len(buf)))
	if _, err := s.w.Write(s.hdr[:]); err != nil {
		s.broken = true
		return errnoStatus(err)
	}
	if _, err := s.w.Write(buf); err != nil {
		s.broken = true
		return errnoStatus(err)
	}
	return 0
}

func errnoStatus(err error) int64 {
	var errno syscall.Errno
	switch {
	case errors.As(err, &errno) && errno != 0:
		return -int64(errno)
	case errors.Is(err, os.ErrDeadlineExceeded):
		return -int64(syscall.ETIMEDOUT)
	case errors.Is(err, io.ErrClosedPipe), errors.Is(err, os.ErrClosed):
		return -int64(syscall.EPIPE)
	default:
		return -int64(syscall.EIO)
	}
}

// FrameReader splits a byte stream into records.
type FrameReader struct {
	r   io.Reader
	hdr [FrameHeaderSize]byte
	buf bpflog.Buffer
}

// NewFrameReader returns a FrameReader reading from r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// Next returns the next record. The slice is only valid until the following
// call. It returns io.EOF when the stream ends on a frame boundary and
// io.ErrUnexpectedEOF when it ends inside a frame.
func (fr *FrameReader) Next() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(fr.hdr[:])
	if uint64(n) > uint64(len(fr.buf)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	if _, err := io.ReadFull(fr.r, fr.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return fr.buf[:n], nil
}
