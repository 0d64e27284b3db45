// Package consumer is the reader side of the record pipeline: it accepts
// producer connections, decodes framed records, counts them, optionally
// captures them and prints them.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/capture"
	"pkt.systems/bpflog/metrics"
	"pkt.systems/bpflog/render"
	"pkt.systems/bpflog/transport"
)

// FrameSource yields one record per call and io.EOF at the end.
// transport.FrameReader and capture.Reader both satisfy it.
type FrameSource interface {
	Next() ([]byte, error)
}

// Option customizes New.
type Option func(*Consumer)

// WithMetrics counts records and connections in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Consumer) {
		c.metrics = m
	}
}

// WithCapture appends every decoded record to w.
func WithCapture(w *capture.Writer) Option {
	return func(c *Consumer) {
		c.capture = w
	}
}

// WithDiagnostics sets the logger for the consumer's own messages. It
// defaults to the record logger.
func WithDiagnostics(logger render.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.diag = logger
		}
	}
}

// Consumer decodes frames and forwards the records to a render.Logger.
type Consumer struct {
	out     render.Logger
	diag    render.Logger
	metrics *metrics.Metrics
	capture *capture.Writer
}

// New returns a Consumer printing records to out.
func New(out render.Logger, opts ...Option) *Consumer {
	if out == nil {
		out = render.Noop()
	}
	c := &Consumer{out: out}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.diag == nil {
		c.diag = out
	}
	return c
}

// Handle decodes one frame and forwards it. A malformed frame is counted and
// logged and its error returned; it never stops the caller.
func (c *Consumer) Handle(frame []byte) error {
	rec, err := bpflog.Decode(frame)
	if err != nil {
		c.metrics.DecodeFailed()
		c.diag.Warn("consumer.decode.failed", "bytes", len(frame), err)
		return err
	}
	c.metrics.RecordDecoded(rec.Level, len(frame))
	if c.capture != nil {
		if err := c.capture.Append(frame); err != nil {
			c.diag.Error("consumer.capture.failed", err)
		}
	}
	render.Forward(c.out, rec)
	return nil
}

// Drain handles frames from src until it is exhausted or ctx is done. It
// returns the number of frames read. Reaching io.EOF is not an error.
func (c *Consumer) Drain(ctx context.Context, src FrameSource) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		frame, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		n++
		_ = c.Handle(frame)
	}
}

// Replay renders every record of a capture.
func (c *Consumer) Replay(ctx context.Context, r *capture.Reader) (int, error) {
	c.diag.Info("consumer.replay.start", "session", r.Session().String())
	n, err := c.Drain(ctx, r)
	if err != nil {
		return n, fmt.Errorf("replay: %w", err)
	}
	c.diag.Info("consumer.replay.done", "records", n)
	return n, nil
}

// Serve accepts producer connections on ln until ctx is done, then closes ln
// and every open connection and waits for their handlers. It returns nil
// after cancellation. An accept error tears down ln and the connections the
// same way and is then returned.
func (c *Consumer) Serve(ctx context.Context, ln net.Listener) error {
	connCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		_ = ln.Close()
		wg.Wait()
	}()
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	c.diag.Info("consumer.listening", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.serveConn(connCtx, conn)
		}()
	}
}

func (c *Consumer) serveConn(ctx context.Context, conn net.Conn) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	c.metrics.ConnectionOpened()
	defer c.metrics.ConnectionClosed()

	peer := "unknown"
	if addr := conn.RemoteAddr(); addr != nil && addr.String() != "" {
		peer = addr.String()
	}
	diag := c.diag.With("peer", peer)
	diag.Debug("consumer.conn.open")
	n, err := c.Drain(ctx, transport.NewFrameReader(conn))
	switch {
	case err == nil:
		diag.Debug("consumer.conn.closed", "records", n)
	case ctx.Err() != nil || errors.Is(err, net.ErrClosed):
		diag.Debug("consumer.conn.shutdown", "records", n)
	case errors.Is(err, transport.ErrFrameTooLarge):
		c.metrics.DecodeFailed()
		diag.Error("consumer.conn.frame_too_large", "records", n, err)
	default:
		diag.Warn("consumer.conn.read.failed", "records", n, err)
	}
}
