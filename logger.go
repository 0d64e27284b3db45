package bpflog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrDisabled is returned by Begin when the level is below the logger's
	// minimum. Log and Logf treat it as success.
	ErrDisabled = errors.New("bpflog: level disabled")
	// ErrNoSlot is returned when the unit has no buffer.
	ErrNoSlot = errors.New("bpflog: no buffer for unit")
	// ErrEntrySent is returned by Send on an entry that was already sent.
	ErrEntrySent = errors.New("bpflog: entry already sent")
)

// LoggerOption customizes NewLogger.
type LoggerOption func(*Logger)

// WithTarget sets the target written into every record.
func WithTarget(target string) LoggerOption {
	return func(l *Logger) {
		l.target = target
	}
}

// WithSlots makes the logger draw buffers from slots instead of
// SharedSlots.
func WithSlots(slots *Slots) LoggerOption {
	return func(l *Logger) {
		if slots != nil {
			l.slots = slots
		}
	}
}

// WithMinLevel drops records below level.
func WithMinLevel(level Level) LoggerOption {
	return func(l *Logger) {
		l.minLevel = level
	}
}

// LoggerStats captures cumulative outcome counters for a Logger.
type LoggerStats struct {
	Sent             uint64
	Overflows        uint64
	TransmitFailures uint64
}

// Logger is a producer front end over the encoding pipeline: it picks the
// unit's buffer, writes the header, hands out the message writer and sends
// the finished record. A Logger may be shared; a unit may not.
type Logger struct {
	sender   Sender
	slots    *Slots
	target   string
	minLevel Level

	entries  []Entry

	sent      atomic.Uint64
	overflows atomic.Uint64
	failures  atomic.Uint64
}

// NewLogger returns a Logger sending records to sender.
func NewLogger(sender Sender, opts ...LoggerOption) *Logger {
	l := &Logger{sender: sender, minLevel: TraceLevel}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.slots == nil {
		l.slots = SharedSlots()
	}
	l.entries = make([]Entry, l.slots.Len())
	return l
}

// Enabled reports whether records at level are sent.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.minLevel
}

// Stats returns cumulative counters.
func (l *Logger) Stats() LoggerStats {
	return LoggerStats{
		Sent:             l.sent.Load(),
		Overflows:        l.overflows.Load(),
		TransmitFailures: l.failures.Load(),
	}
}

// Begin starts a record on unit with the caller's package, file and line.
// The returned Entry belongs to the unit and is valid until Send.
func (l *Logger) Begin(unit int, level Level) (*Entry, error) {
	return l.begin(unit, level, callerSite(1))
}

// BeginAt starts a record with an explicit source location. Unlike Begin it
// does not consult the runtime and never allocates.
func (l *Logger) BeginAt(unit int, level Level, module, file string, line uint32) (*Entry, error) {
	return l.begin(unit, level, callsite{module: module, file: file, line: line})
}

func (l *Logger) begin(unit int, level Level, site callsite) (*Entry, error) {
	if !l.Enabled(level) {
		return nil, ErrDisabled
	}
	buf, ok := l.slots.Buffer(unit)
	if !ok || unit >= len(l.entries) {
		return nil, ErrNoSlot
	}
	e := &l.entries[unit]
	*e = Entry{}
	n, err := WriteHeader(buf, l.target, level, site.module, site.file, site.line)
	if err != nil {
		l.overflows.Add(1)
		return nil, err
	}
	w, err := NewWriter(buf[n:])
	if err != nil {
		l.overflows.Add(1)
		return nil, err
	}
	*e = Entry{w: w, logger: l, buf: buf, header: n}
	return e, nil
}

// Log sends msg as a single record.
func (l *Logger) Log(ctx context.Context, unit int, level Level, msg string) error {
	if !l.Enabled(level) {
		return nil
	}
	entry, err := l.begin(unit, level, callerSite(1))
	if err != nil {
		return err
	}
	_ = entry.WriteString(msg)
	return entry.Send(ctx)
}

// Logf formats a message with fmt and sends it. Formatting allocates; use
// Begin and the Append methods on hot paths.
func (l *Logger) Logf(ctx context.Context, unit int, level Level, format string, args ...any) error {
	if !l.Enabled(level) {
		return nil
	}
	entry, err := l.begin(unit, level, callerSite(1))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(entry, format, args...)
	return entry.Send(ctx)
}

// Entry is a record in progress on one unit. The first failed append is
// kept and the record is never sent after it: Send reports that error
// instead of transmitting a cut-short message. Entries are handed out by
// pointer and reused for the unit's next record.
type Entry struct {
	w      Writer
	logger *Logger
	buf    []byte
	header int
	err    error
}

func (e *Entry) latch(err error) error {
	if err != nil && e.err == nil {
		e.err = err
	}
	return err
}

// WriteString appends s to the message.
func (e *Entry) WriteString(s string) error {
	if e.err != nil {
		return e.err
	}
	return e.latch(e.w.WriteString(s))
}

// Write implements io.Writer for fmt.Fprintf and friends.
func (e *Entry) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	return n, e.latch(err)
}

// WriteByte appends c to the message.
func (e *Entry) WriteByte(c byte) error {
	if e.err != nil {
		return e.err
	}
	return e.latch(e.w.WriteByte(c))
}

// AppendInt appends the decimal form of n.
func (e *Entry) AppendInt(n int64) error {
	if e.err != nil {
		return e.err
	}
	return e.latch(e.w.AppendInt(n))
}

// AppendUint appends the decimal form of n.
func (e *Entry) AppendUint(n uint64) error {
	if e.err != nil {
		return e.err
	}
	return e.latch(e.w.AppendUint(n))
}

// AppendBool appends "true" or "false".
func (e *Entry) AppendBool(v bool) error {
	if e.err != nil {
		return e.err
	}
	return e.latch(e.w.AppendBool(v))
}

// Len returns the message bytes written so far.
func (e *Entry) Len() int {
	return e.w.Len()
}

// Available returns how many more message bytes fit.
func (e *Entry) Available() int {
	return e.w.Available()
}

// Err returns the first append error, if any.
func (e *Entry) Err() error {
	return e.err
}

// Send finishes the message and hands the record to the logger's sender.
// When an append failed the record is dropped, counted as an overflow, and
// the append error is returned.
func (e *Entry) Send(ctx context.Context) error {
	if e == nil || e.logger == nil || e.buf == nil {
		return ErrEntrySent
	}
	buf := e.buf
	e.buf = nil
	if e.err != nil {
		e.logger.overflows.Add(1)
		return e.err
	}
	n := e.header + e.w.Finish()
	err := Output(ctx, e.logger.sender, buf, n)
	if err != nil {
		e.logger.failures.Add(1)
		return err
	}
	e.logger.sent.Add(1)
	return nil
}
