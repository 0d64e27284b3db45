package transport_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/transport"
)

func encodeRecord(t *testing.T, msg string) []byte {
	t.Helper()
	var buf bpflog.Buffer
	n, err := bpflog.WriteHeader(buf[:], "app", bpflog.InfoLevel, "app::main", "main.rs", 7)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	w, err := bpflog.NewWriter(buf[n:])
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := w.WriteString(msg); err != nil {
		t.Fatalf("message: %v", err)
	}
	return append([]byte(nil), buf[:n+w.Finish()]...)
}

func TestStreamSenderFraming(t *testing.T) {
	var stream bytes.Buffer
	sender := transport.NewStreamSender(&stream)
	first := encodeRecord(t, "one")
	second := encodeRecord(t, "two")
	for _, rec := range [][]byte{first, second} {
		if status := sender.Send(context.Background(), rec); status != 0 {
			t.Fatalf("unexpected status %d", status)
		}
	}
	if got := binary.BigEndian.Uint32(stream.Bytes()[:4]); got != uint32(len(first)) {
		t.Fatalf("frame length %d, want %d", got, len(first))
	}

	fr := transport.NewFrameReader(&stream)
	for i, want := range []string{"one", "two"} {
		frame, err := fr.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		rec, err := bpflog.Decode(frame)
		if err != nil {
			t.Fatalf("decode frame %d: %v", i, err)
		}
		if rec.Message != want || rec.Target != "app" || rec.Line != 7 {
			t.Fatalf("frame %d decoded to %+v", i, rec)
		}
	}
	if _, err := fr.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestStreamSenderRejectsOversize(t *testing.T) {
	var stream bytes.Buffer
	sender := transport.NewStreamSender(&stream)
	status := sender.Send(context.Background(), make([]byte, bpflog.Capacity+1))
	if status != -int64(syscall.EMSGSIZE) {
		t.Fatalf("status %d, want -EMSGSIZE", status)
	}
	if stream.Len() != 0 {
		t.Fatalf("oversize record wrote %d bytes", stream.Len())
	}
	if status := sender.Send(context.Background(), []byte{1}); status != 0 {
		t.Fatalf("sender unusable after rejected record: %d", status)
	}
}

type failingWriter struct {
	err    error
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, w.err
}

func TestStreamSenderWriteFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want syscall.Errno
	}{
		{"errno", &net.OpError{Op: "write", Err: syscall.ECONNRESET}, syscall.ECONNRESET},
		{"closed", io.ErrClosedPipe, syscall.EPIPE},
		{"opaque", errors.New("boom"), syscall.EIO},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &failingWriter{err: tc.err}
			sender := transport.NewStreamSender(w)
			status := sender.Send(context.Background(), []byte("x"))
			if status != -int64(tc.want) {
				t.Fatalf("status %d, want %d", status, -int64(tc.want))
			}
			err := bpflog.Output(context.Background(), sender, []byte("x"), 1)
			if !errors.Is(err, syscall.EPIPE) {
				t.Fatalf("expected EPIPE on a broken stream, got %v", err)
			}
			if w.writes != 1 {
				t.Fatalf("broken stream was written again: %d writes", w.writes)
			}
		})
	}
}

func TestStreamSenderCanceledContext(t *testing.T) {
	var stream bytes.Buffer
	sender := transport.NewStreamSender(&stream)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if status := sender.Send(ctx, []byte("x")); status != -int64(syscall.ECANCELED) {
		t.Fatalf("status %d, want -ECANCELED", status)
	}
	if stream.Len() != 0 {
		t.Fatalf("canceled send wrote %d bytes", stream.Len())
	}
}

func TestFrameReaderErrors(t *testing.T) {
	var hdr [transport.FrameHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], bpflog.Capacity+1)
	if _, err := transport.NewFrameReader(bytes.NewReader(hdr[:])).Next(); !errors.Is(err, transport.ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}

	binary.BigEndian.PutUint32(hdr[:], 10)
	truncated := append(hdr[:], 1, 2, 3)
	if _, err := transport.NewFrameReader(bytes.NewReader(truncated)).Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF for short body, got %v", err)
	}
	if _, err := transport.NewFrameReader(bytes.NewReader(hdr[:2])).Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF for short header, got %v", err)
	}
}

func TestFrameReaderEmptyFrame(t *testing.T) {
	var stream bytes.Buffer
	sender := transport.NewStreamSender(&stream)
	if status := sender.Send(context.Background(), nil); status != 0 {
		t.Fatalf("unexpected status %d", status)
	}
	frame, err := transport.NewFrameReader(&stream).Next()
	if err != nil || len(frame) != 0 {
		t.Fatalf("expected empty frame, got %q, %v", frame, err)
	}
}

func TestParseAddr(t *testing.T) {
	cases := []struct {
		in   string
		want transport.Addr
	}{
		{"unix:///run/bpflog.sock", transport.Addr{Network: "unix", Address: "/run/bpflog.sock"}},
		{"/tmp/b.sock", transport.Addr{Network: "unix", Address: "/tmp/b.sock"}},
		{"tcp://127.0.0.1:7000", transport.Addr{Network: "tcp", Address: "127.0.0.1:7000"}},
		{"VSOCK://3:9999", transport.Addr{Network: "vsock", CID: 3, Port: 9999}},
	}
	for _, tc := range cases {
		got, err := transport.ParseAddr(tc.in)
		if err != nil {
			t.Fatalf("ParseAddr(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAddr(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if got := (transport.Addr{Network: "vsock", CID: 2, Port: 1}).String(); got != "vsock://2:1" {
		t.Fatalf("unexpected vsock string %q", got)
	}
	for _, bad := range []string{"", "unix://", "tcp://nohost", "vsock://3", "vsock://x:1", "vsock://1:99999999999", "udp://h:1"} {
		if _, err := transport.ParseAddr(bad); !errors.Is(err, transport.ErrInvalidAddr) {
			t.Fatalf("ParseAddr(%q) error = %v, want ErrInvalidAddr", bad, err)
		}
	}
}

func TestDialListenRoundTrip(t *testing.T) {
	addrs := []string{
		"unix://" + filepath.Join(t.TempDir(), "bpflog.sock"),
		"tcp://127.0.0.1:0",
	}
	for _, raw := range addrs {
		t.Run(strings.SplitN(raw, ":", 2)[0], func(t *testing.T) {
			ln, err := transport.Listen(raw)
			if err != nil {
				t.Skipf("listen %s: %v", raw, err)
			}
			defer ln.Close()

			received := make(chan string, 1)
			go func() {
				conn, err := ln.Accept()
				if err != nil {
					received <- err.Error()
					return
				}
				defer conn.Close()
				frame, err := transport.NewFrameReader(conn).Next()
				if err != nil {
					received <- err.Error()
					return
				}
				rec, err := bpflog.Decode(frame)
				if err != nil {
					received <- err.Error()
					return
				}
				received <- rec.Message
			}()

			dialAddr := fmt.Sprintf("%s://%s", ln.Addr().Network(), ln.Addr().String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			conn, err := transport.Dial(ctx, dialAddr)
			if err != nil {
				t.Fatalf("dial %s: %v", dialAddr, err)
			}
			defer conn.Close()
			logger := bpflog.NewLogger(transport.NewStreamSender(conn), bpflog.WithSlots(bpflog.NewSlots(1)))
			if err := logger.Log(ctx, 0, bpflog.InfoLevel, "over the wire"); err != nil {
				t.Fatalf("log: %v", err)
			}
			select {
			case got := <-received:
				if got != "over the wire" {
					t.Fatalf("received %q", got)
				}
			case <-ctx.Done():
				t.Fatal("timed out waiting for frame")
			}
		})
	}
}
