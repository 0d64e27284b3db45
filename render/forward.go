package render

import "pkt.systems/bpflog"

// Keys used for the identifying fields of a forwarded record.
const (
	TargetKey = "target"
	ModuleKey = "module"
	FileKey   = "file"
	LineKey   = "line"
	ErrorKey  = "error"
)

// Forward logs rec at its own level with its message and its target, module,
// file and line as fields. Empty string fields and a zero line are omitted.
func Forward(logger Logger, rec bpflog.Record) {
	if logger == nil {
		return
	}
	var kv [8]any
	fields := kv[:0]
	if rec.Target != "" {
		fields = append(fields, TargetKey, rec.Target)
	}
	if rec.Module != "" {
		fields = append(fields, ModuleKey, rec.Module)
	}
	if rec.File != "" {
		fields = append(fields, FileKey, rec.File)
	}
	if rec.Line != 0 {
		fields = append(fields, LineKey, rec.Line)
	}
	logger.Log(rec.Level, rec.Message, fields...)
}
