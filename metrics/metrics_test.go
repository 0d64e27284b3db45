package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/metrics"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.RecordDecoded(bpflog.InfoLevel, 40)
	m.RecordDecoded(bpflog.InfoLevel, 2)
	m.RecordDecoded(bpflog.ErrorLevel, 10)
	m.DecodeFailed()
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	if got := testutil.ToFloat64(m.RecordsTotal.WithLabelValues("info")); got != 2 {
		t.Fatalf("info records %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RecordsTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("error records %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RecordBytesTotal); got != 52 {
		t.Fatalf("record bytes %v, want 52", got)
	}
	if got := testutil.ToFloat64(m.DecodeErrorsTotal); got != 1 {
		t.Fatalf("decode errors %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Connections); got != 1 {
		t.Fatalf("connections %v, want 1", got)
	}

	expected := `
# HELP bpflog_decode_errors_total Total number of frames that failed to decode
# TYPE bpflog_decode_errors_total counter
bpflog_decode_errors_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "bpflog_decode_errors_total"); err != nil {
		t.Fatalf("unexpected exposition: %v", err)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.RecordDecoded(bpflog.InfoLevel, 1)
	m.DecodeFailed()
	m.ConnectionOpened()
	m.ConnectionClosed()
}

func TestUnregisteredMetrics(t *testing.T) {
	a := metrics.New(nil)
	b := metrics.New(nil)
	a.RecordDecoded(bpflog.WarnLevel, 1)
	if got := testutil.ToFloat64(b.RecordBytesTotal); got != 0 {
		t.Fatalf("unregistered sets share state: %v", got)
	}
}
