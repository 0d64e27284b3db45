package bpflog

import (
	"runtime"
	"sync"
)

// Buffer is one record buffer.
type Buffer [Capacity]byte

// Slots is a fixed set of record buffers, one per execution unit. Callers
// pick the buffer of the unit they run on and must not use one unit from two
// flows at once; Slots itself does no synchronisation. The set is sized at
// construction and never grows.
type Slots struct {
	bufs []Buffer
}

// NewSlots allocates units zeroed buffers. A non-positive units uses
// DefaultUnits.
func NewSlots(units int) *Slots {
	if units <= 0 {
		units = DefaultUnits()
	}
	return &Slots{bufs: make([]Buffer, units)}
}

// Len returns the number of units.
func (s *Slots) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bufs)
}

// Buffer returns the buffer owned by unit. The contents are whatever the
// previous record on that unit left behind.
func (s *Slots) Buffer(unit int) ([]byte, bool) {
	if s == nil || unit < 0 || unit >= len(s.bufs) {
		return nil, false
	}
	return s.bufs[unit][:], true
}

var sharedSlots = sync.OnceValue(func() *Slots {
	return NewSlots(0)
})

// SharedSlots returns the process-wide Slots, created on first use with
// DefaultUnits buffers.
func SharedSlots() *Slots {
	return sharedSlots()
}

// DefaultUnits returns the number of CPUs the process may run on.
func DefaultUnits() int {
	if n := schedulableCPUs(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
