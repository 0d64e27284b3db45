package render

import (
	"bytes"
	"log"

	"pkt.systems/bpflog"
)

// StdLogger adapts logger to a *log.Logger that emits every line at level,
// for APIs such as http.Server.ErrorLog.
func StdLogger(logger Logger, level bpflog.Level) *log.Logger {
	if logger == nil {
		logger = noopLogger{}
	}
	return log.New(levelPinnedWriter{logger: logger, level: level}, "", 0)
}

type levelPinnedWriter struct {
	logger Logger
	level  bpflog.Level
}

func (w levelPinnedWriter) Write(p []byte) (int, error) {
	for line := range bytes.SplitSeq(p, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		w.logger.Log(w.level, string(line))
	}
	return len(p), nil
}
