package benchmark_test

import (
	"fmt"
	"sync"

	"pkt.systems/bpflog"
)

const recordCorpusSize = 512

var (
	corpusOnce    sync.Once
	corpusRecords []bpflog.Record
	corpusFrames  [][]byte
)

// corpus returns a fixed mix of records shaped like probe output, both
// decoded and encoded.
func corpus() ([]bpflog.Record, [][]byte) {
	corpusOnce.Do(func() {
		targets := []string{"xdp_filter", "tc_egress", "kprobe_open", "uprobe_ssl"}
		files := []string{"src/main.rs", "src/maps.rs", "src/parse.rs"}
		for i := range recordCorpusSize {
			rec := bpflog.Record{
				Target: targets[i%len(targets)],
				Level:  bpflog.Level(i % 5),
				Module: targets[i%len(targets)] + "::probe",
				File:   files[i%len(files)],
				Line:   uint32(20 + i%300),
			}
			switch i % 4 {
			case 0:
				rec.Message = fmt.Sprintf("dropped packet from 10.0.%d.%d proto=%d", i%256, (i*7)%256, 6+i%11)
			case 1:
				rec.Message = fmt.Sprintf("map lookup miss key=%#x", i*2654435761)
			case 2:
				rec.Message = "ring buffer full, record lost"
			default:
				rec.Message = fmt.Sprintf("pid %d opened \"/proc/%d/status\"", 1000+i, 1000+i)
			}
			corpusRecords = append(corpusRecords, rec)
			corpusFrames = append(corpusFrames, encode(rec))
		}
	})
	return corpusRecords, corpusFrames
}

func encode(rec bpflog.Record) []byte {
	var buf bpflog.Buffer
	n, err := bpflog.WriteHeader(buf[:], rec.Target, rec.Level, rec.Module, rec.File, rec.Line)
	if err != nil {
		panic(err)
	}
	w, err := bpflog.NewWriter(buf[n:])
	if err != nil {
		panic(err)
	}
	if err := w.WriteString(rec.Message); err != nil {
		panic(err)
	}
	return append([]byte(nil), buf[:n+w.Finish()]...)
}
