// Package metrics exposes consumer counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pkt.systems/bpflog"
)

const namespace = "bpflog"

var levels = [...]bpflog.Level{
	bpflog.TraceLevel,
	bpflog.DebugLevel,
	bpflog.InfoLevel,
	bpflog.WarnLevel,
	bpflog.ErrorLevel,
}

// Metrics holds the consumer's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// RecordsTotal counts decoded records.
	// Labels: level
	RecordsTotal *prometheus.CounterVec

	// RecordBytesTotal counts the encoded size of decoded records.
	RecordBytesTotal prometheus.Counter

	// DecodeErrorsTotal counts frames that failed to decode.
	DecodeErrorsTotal prometheus.Counter

	// Connections is the number of open producer connections.
	Connections prometheus.Gauge

	byLevel [len(levels)]prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Total number of decoded records",
			},
			[]string{"level"},
		),
		RecordBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_bytes_total",
			Help:      "Total size of decoded records in bytes",
		}),
		DecodeErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of frames that failed to decode",
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of open producer connections",
		}),
	}
	for i, level := range levels {
		m.byLevel[i] = m.RecordsTotal.WithLabelValues(level.String())
	}
	return m
}

// RecordDecoded counts one record of size bytes.
func (m *Metrics) RecordDecoded(level bpflog.Level, size int) {
	if m == nil {
		return
	}
	if level.Valid() {
		m.byLevel[level].Inc()
	} else {
		m.RecordsTotal.WithLabelValues(level.String()).Inc()
	}
	m.RecordBytesTotal.Add(float64(size))
}

// DecodeFailed counts one undecodable frame.
func (m *Metrics) DecodeFailed() {
	if m == nil {
		return
	}
	m.DecodeErrorsTotal.Inc()
}

// ConnectionOpened increments the connection gauge.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.Connections.Inc()
}

// ConnectionClosed decrements the connection gauge.
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.Connections.Dec()
}
