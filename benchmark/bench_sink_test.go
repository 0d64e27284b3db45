package benchmark_test

import (
	"context"
	"sync"
	"testing"
)

// countingSink drops everything but counts bytes, serialised like a real
// destination would be.
type countingSink struct {
	mu  sync.Mutex
	sum int64
}

func (s *countingSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.sum += int64(len(p))
	s.mu.Unlock()
	return len(p), nil
}

// Sync lets the sink stand in for a zapcore.WriteSyncer.
func (s *countingSink) Sync() error {
	return nil
}

// Send lets the sink stand in for a bpflog.Sender.
func (s *countingSink) Send(_ context.Context, buf []byte) int64 {
	_, _ = s.Write(buf)
	return 0
}

func (s *countingSink) reset() {
	s.mu.Lock()
	s.sum = 0
	s.mu.Unlock()
}

func (s *countingSink) bytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}

func reportBytesPerOp(b *testing.B, sink *countingSink) {
	b.Helper()
	if sink.bytesWritten() == 0 {
		b.Fatal("benchmark wrote zero bytes")
	}
	if b.N > 0 {
		b.ReportMetric(float64(sink.bytesWritten())/float64(b.N), "bytes/op")
	}
}
