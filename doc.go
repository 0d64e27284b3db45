// Package bpflog packs structured log records into small fixed-size buffers
// so they can leave a constrained execution context (a probe, a sandboxed
// guest, a signal handler) and be decoded by a consumer process. Every write is
// bounds-checked against the destination slice and failures come back as
// errors; nothing in the encoding path allocates, locks or panics.
//
// # Design overview
//
//   - TLV fields: each field is [tag][length][bytes]. The tag is one byte, the
//     length is a native pointer-sized unsigned integer in native byte order,
//     matching the reader running on the same host.
//   - Record header: Target, Level, Module, File and Line are written in that
//     order. Level is pointer-sized, Line is always a 4-byte value.
//   - Message writer: the message is streamed after the header. The writer
//     reserves room for its own tag and length and backfills them on Finish,
//     so interpolated text can be appended piece by piece.
//   - Output: the populated prefix of the buffer is handed to a Sender exactly
//     once. A negative status becomes a TransmitError.
//   - Slots: buffers live in a fixed array indexed by execution unit. Two
//     flows never share a unit, so no synchronisation is needed.
//
// # Usage
//
// The low-level pipeline, as a probe would drive it:
//
//	buf, _ := slots.Buffer(unit)
//	n, err := bpflog.WriteHeader(buf, "app", bpflog.InfoLevel, "main", "main.go", 42)
//	if err != nil {
//		return err
//	}
//	w, err := bpflog.NewWriter(buf[n:])
//	if err != nil {
//		return err
//	}
//	if err := w.WriteString("ready"); err != nil {
//		return err
//	}
//	return bpflog.Output(ctx, sender, buf, n+w.Finish())
//
// Logger wraps the same steps and fills in module, file and line from the
// caller. An Entry remembers its first failed append, and Send then returns
// that error without transmitting anything:
//
//	logger := bpflog.NewLogger(sender, bpflog.WithTarget("checkout"))
//	entry, err := logger.Begin(unit, bpflog.WarnLevel)
//	if err == nil {
//		_ = entry.WriteString("retries=")
//		_ = entry.AppendInt(3)
//		err = entry.Send(ctx)
//	}
//
// # Integration notes
//
//   - Decode is the reader side of the wire format.
//   - The transport subpackage frames records over streams and vsock.
//   - The render subpackage turns decoded records into console or JSON lines.
//   - The capture subpackage stores records in zstd-compressed files.
package bpflog
