package bpflog

import (
	"context"
	"testing"
)

func TestSlotsBufferPerUnit(t *testing.T) {
	slots := NewSlots(3)
	if slots.Len() != 3 {
		t.Fatalf("unexpected unit count %d", slots.Len())
	}
	a, ok := slots.Buffer(0)
	if !ok || len(a) != Capacity {
		t.Fatalf("unit 0: ok=%v len=%d", ok, len(a))
	}
	b, _ := slots.Buffer(1)
	a[0] = 0x7F
	if b[0] != 0 {
		t.Fatalf("units share storage")
	}
	again, _ := slots.Buffer(0)
	if &again[0] != &a[0] {
		t.Fatalf("unit 0 returned a different buffer")
	}
	for _, unit := range []int{-1, 3} {
		if _, ok := slots.Buffer(unit); ok {
			t.Fatalf("unit %d should not have a buffer", unit)
		}
	}
	var nilSlots *Slots
	if _, ok := nilSlots.Buffer(0); ok || nilSlots.Len() != 0 {
		t.Fatalf("nil slots should be empty")
	}
}

func TestNewSlotsDefaultsToSchedulableUnits(t *testing.T) {
	if got := NewSlots(0).Len(); got != DefaultUnits() {
		t.Fatalf("got %d units, want %d", got, DefaultUnits())
	}
	if DefaultUnits() < 1 {
		t.Fatalf("DefaultUnits must be positive")
	}
	if SharedSlots() != SharedSlots() {
		t.Fatalf("SharedSlots must return the same set")
	}
}

// A record written over the leftovers of a longer one must decode to exactly
// what the second record carried.
func TestSlotReuseIsIndependentOfPreviousRecord(t *testing.T) {
	slots := NewSlots(1)
	var sent [][]byte
	s := SenderFunc(func(_ context.Context, buf []byte) int64 {
		sent = append(sent, append([]byte(nil), buf...))
		return 0
	})

	write := func(target, msg string) {
		buf, _ := slots.Buffer(0)
		n, err := WriteHeader(buf, target, InfoLevel, "mod", "file.go", 1)
		if err != nil {
			t.Fatalf("header: %v", err)
		}
		w, err := NewWriter(buf[n:])
		if err != nil {
			t.Fatalf("writer: %v", err)
		}
		if err := w.WriteString(msg); err != nil {
			t.Fatalf("message: %v", err)
		}
		if err := Output(context.Background(), s, buf, n+w.Finish()); err != nil {
			t.Fatalf("output: %v", err)
		}
	}

	write("a-much-longer-target", "first message that is long")
	write("b", "second")

	if len(sent) != 2 {
		t.Fatalf("expected two records, got %d", len(sent))
	}
	rec, err := Decode(sent[1])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Target != "b" || rec.Message != "second" {
		t.Fatalf("stale bytes leaked into record: %+v", rec)
	}
	if len(sent[1]) >= len(sent[0]) {
		t.Fatalf("second record should be shorter: %d vs %d", len(sent[1]), len(sent[0]))
	}
}
