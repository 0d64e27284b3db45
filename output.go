package bpflog

import (
	"context"
	"math"
	"strconv"
	"syscall"
)

// Sender is the one-shot, non-blocking transmission primitive a record is
// handed to. A negative return value is a failure status, anything else is
// success. The meaning of the number belongs to the transport.
type Sender interface {
	Send(ctx context.Context, buf []byte) int64
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, buf []byte) int64

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, buf []byte) int64 {
	return f(ctx, buf)
}

// TransmitError carries the negative status a Sender returned.
type TransmitError int64

// Status returns the raw status code.
func (e TransmitError) Status() int64 {
	return int64(e)
}

func (e TransmitError) Error() string {
	return "bpflog: transmit failed: status " + strconv.FormatInt(int64(e), 10)
}

// Unwrap exposes the status as an errno so callers can match it with
// errors.Is. Statuses with no errno form unwrap to nil.
func (e TransmitError) Unwrap() error {
	if e >= 0 || e == math.MinInt64 {
		return nil
	}
	return syscall.Errno(-int64(e))
}

// Output hands the first n bytes of buf to s. It makes exactly one attempt and
// returns a TransmitError when s reports a negative status.
func Output(ctx context.Context, s Sender, buf []byte, n int) error {
	if n < 0 || n > len(buf) {
		return ErrCapacityExceeded
	}
	if status := s.Send(ctx, buf[:n]); status < 0 {
		return TransmitError(status)
	}
	return nil
}
