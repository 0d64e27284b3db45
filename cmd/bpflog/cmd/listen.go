package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/capture"
	"pkt.systems/bpflog/internal/consumer"
	"pkt.systems/bpflog/metrics"
	"pkt.systems/bpflog/render"
	"pkt.systems/bpflog/transport"
)

// DefaultAddr is where listen and emit meet when --addr is not given.
const DefaultAddr = "tcp://127.0.0.1:7878"

func (c *cli) listenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Accept producer connections and print their records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.bind(cmd)
			return c.runListen(cmd)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", DefaultAddr, "listen address: unix://path, tcp://host:port or vsock://cid:port")
	flags.String("capture", "", "append received records to this capture file")
	flags.Duration("capture-flush", time.Second, "how often buffered capture data is written out")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this host:port (disabled when empty)")
	return cmd
}

func (c *cli) runListen(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out, diag, release := c.loggers(cmd)
	defer release()

	var opts []consumer.Option
	opts = append(opts, consumer.WithDiagnostics(diag))

	metricsAddr := c.v.GetString("metrics-addr")
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, consumer.WithMetrics(metrics.New(reg)))
		srv := metricsServer(metricsAddr, reg, diag)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				diag.Error("metrics.server.failed", "addr", metricsAddr, err)
			}
		}()
		defer shutdown(srv)
		diag.Info("metrics.listening", "addr", metricsAddr)
	}

	if path := c.v.GetString("capture"); path != "" {
		w, err := capture.Create(path, uuid.Nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				diag.Error("capture.close.failed", "path", path, err)
			}
		}()
		diag.Info("capture.open", "path", path, "session", w.Session().String())
		opts = append(opts, consumer.WithCapture(w))
		go flushCapture(ctx, w, c.v.GetDuration("capture-flush"), diag)
	}

	addr := c.v.GetString("addr")
	ln, err := transport.Listen(addr)
	if err != nil {
		return err
	}
	return consumer.New(out, opts...).Serve(ctx, ln)
}

func metricsServer(addr string, reg *prometheus.Registry, diag render.Logger) *http.Server {
	errorLog := render.StdLogger(diag.With("component", "metrics"), bpflog.WarnLevel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{ErrorLog: errorLog}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ErrorLog:          errorLog,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func flushCapture(ctx context.Context, w *capture.Writer, every time.Duration, diag render.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Flush(); err != nil {
				if !errors.Is(err, capture.ErrClosed) {
					diag.Warn("capture.flush.failed", err)
				}
				return
			}
		}
	}
}
