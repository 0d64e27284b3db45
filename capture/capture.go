// Package capture stores bpflog records in zstd-compressed files so a
// session can be replayed later.
//
// A capture file starts with the 8-byte magic "BPFLOGC1" and the 16-byte
// session id. A zstd stream follows, holding records as
// [uint32 little-endian length][record bytes].
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"pkt.systems/bpflog"
)

// Magic opens every capture file.
var Magic = [8]byte{'B', 'P', 'F', 'L', 'O', 'G', 'C', '1'}

const (
	headerSize = len(Magic) + len(uuid.UUID{})
	lenSize    = 4
)

var (
	// ErrBadMagic is returned when a file is not a capture file.
	ErrBadMagic = errors.New("capture: not a capture file")
	// ErrRecordTooLarge is returned for records larger than bpflog.Capacity.
	ErrRecordTooLarge = errors.New("capture: record exceeds capacity")
	// ErrClosed is returned by Append after Close.
	ErrClosed = errors.New("capture: writer closed")
)

// Writer appends records to a capture stream. It is safe for concurrent
// use.
type Writer struct {
	mu      sync.Mutex
	enc     *zstd.Encoder
	closer  io.Closer
	session uuid.UUID
	hdr     [lenSize]byte
	count   uint64
	closed  bool
}

// Create creates (or truncates) path and writes the capture header. A nil
// session gets a fresh random id.
func Create(path string, session uuid.UUID) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture: %w", err)
	}
	w, err := NewWriter(f, session)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWriter writes the capture header to dst and returns a Writer for the
// records. Closing the Writer does not close dst.
func NewWriter(dst io.Writer, session uuid.UUID) (*Writer, error) {
	if session == uuid.Nil {
		session = uuid.New()
	}
	var hdr [headerSize]byte
	copy(hdr[:], Magic[:])
	copy(hdr[len(Magic):], session[:])
	if _, err := dst.Write(hdr[:]); err != nil {
		return nil, fmt.Errorf("write capture header: %w", err)
	}
	enc, err := zstd.NewWriter(dst)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Writer{enc: enc, session: session}, nil
}

// Session returns the capture's session id.
func (w *Writer) Session() uuid.UUID {
	return w.session
}

// Count returns the number of records appended.
func (w *Writer) Count() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Append stores one record.
func (w *Writer) Append(record []byte) error {
	if len(record) > bpflog.Capacity {
		return fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(record))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	binary.LittleEndian.PutUint32(w.hdr[:], uint32(len(record)))
	if _, err := w.enc.Write(w.hdr[:]); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if _, err := w.enc.Write(record); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	w.count++
	return nil
}

// Flush compresses buffered records and writes them out.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.enc.Flush()
}

// Close ends the zstd stream and closes the file opened by Create. Closing
// twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.enc.Close()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader reads records back from a capture stream.
type Reader struct {
	dec     *zstd.Decoder
	closer  io.Closer
	session uuid.UUID
	hdr     [lenSize]byte
	buf     bpflog.Buffer
}

// Open opens a capture file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader checks the capture header on src and returns a Reader for the
// records.
func NewReader(src io.Reader) (*Reader, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(src, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, fmt.Errorf("read capture header: %w", err)
	}
	if [8]byte(hdr[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	session, err := uuid.FromBytes(hdr[len(Magic):])
	if err != nil {
		return nil, fmt.Errorf("capture session id: %w", err)
	}
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return &Reader{dec: dec, session: session}, nil
}

// Session returns the capture's session id.
func (r *Reader) Session() uuid.UUID {
	return r.session
}

// Next returns the next record, valid until the following call. It returns
// io.EOF after the last record and io.ErrUnexpectedEOF for a truncated one.
func (r *Reader) Next() ([]byte, error) {
	if _, err := io.ReadFull(r.dec, r.hdr[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(r.hdr[:])
	if uint64(n) > uint64(len(r.buf)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, n)
	}
	if _, err := io.ReadFull(r.dec, r.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return r.buf[:n], nil
}

// Close releases the decoder and the file opened by Open.
func (r *Reader) Close() error {
	r.dec.Close()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
