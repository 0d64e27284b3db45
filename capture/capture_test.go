package capture_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/capture"
)

func record(t *testing.T, level bpflog.Level, msg string) []byte {
	t.Helper()
	var buf bpflog.Buffer
	n, err := bpflog.WriteHeader(buf[:], "cap", level, "cap::mod", "cap.rs", 1)
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

func TestCaptureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bpfcap")
	session := uuid.New()
	w, err := capture.Create(path, session)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := []string{"first", "second", ""}
	for i, msg := range want {
		if err := w.Append(record(t, bpflog.Level(i), msg)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if w.Count() != uint64(len(want)) {
		t.Fatalf("count %d, want %d", w.Count(), len(want))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := w.Append(record(t, bpflog.InfoLevel, "late")); !errors.Is(err, capture.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	r, err := capture.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	if r.Session() != session {
		t.Fatalf("session %s, want %s", r.Session(), session)
	}
	for i, msg := range want {
		frame, err := r.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		rec, err := bpflog.Decode(frame)
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if rec.Message != msg || rec.Level != bpflog.Level(i) {
			t.Fatalf("record %d = %+v", i, rec)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestCaptureHeaderLayout(t *testing.T) {
	var out bytes.Buffer
	session := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	w, err := capture.NewWriter(&out, session)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data := out.Bytes()
	if !bytes.Equal(data[:8], []byte("BPFLOGC1")) {
		t.Fatalf("magic %q", data[:8])
	}
	if !bytes.Equal(data[8:24], session[:]) {
		t.Fatalf("session bytes %x", data[8:24])
	}
	r, err := capture.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	defer r.Close()
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("empty capture should end with io.EOF, got %v", err)
	}
}

func TestCaptureNilSessionGetsRandomID(t *testing.T) {
	var out bytes.Buffer
	w, err := capture.NewWriter(&out, uuid.Nil)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()
	if w.Session() == uuid.Nil {
		t.Fatal("expected a generated session id")
	}
}

func TestCaptureRejects(t *testing.T) {
	if _, err := capture.NewReader(bytes.NewReader([]byte("NOTACAPTUREFILE_________"))); !errors.Is(err, capture.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if _, err := capture.NewReader(bytes.NewReader([]byte("BPF"))); !errors.Is(err, capture.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic for short file, got %v", err)
	}
	if _, err := capture.Open(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}

	var out bytes.Buffer
	w, err := capture.NewWriter(&out, uuid.Nil)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()
	if err := w.Append(make([]byte, bpflog.Capacity+1)); !errors.Is(err, capture.ErrRecordTooLarge) {
		t.Fatalf("expected ErrRecordTooLarge, got %v", err)
	}
}

func TestCaptureFlushMakesRecordsReadable(t *testing.T) {
	var out bytes.Buffer
	w, err := capture.NewWriter(&out, uuid.Nil)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()
	rec := record(t, bpflog.WarnLevel, "flushed")
	if err := w.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	r, err := capture.NewReader(bytes.NewReader(append([]byte(nil), out.Bytes()...)))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	defer r.Close()
	got, err := r.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !bytes.Equal(got, rec) {
		t.Fatalf("record mismatch")
	}
}
