package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/bpflog"
	"pkt.systems/bpflog/transport"
)

func (c *cli) emitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit MESSAGE...",
		Short: "Encode one record and send it to a consumer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.bind(cmd)
			return c.runEmit(cmd.Context(), strings.Join(args, " "))
		},
	}
	flags := cmd.Flags()
	flags.String("addr", DefaultAddr, "consumer address: unix://path, tcp://host:port or vsock://cid:port")
	flags.Int("unit", 0, "buffer slot to encode in, one per CPU")
	flags.String("level", "info", "record level: trace, debug, info, warn or error")
	flags.String("target", "bpflog", "record target")
	flags.Duration("timeout", 5*time.Second, "connect and send timeout")
	return cmd
}

func (c *cli) runEmit(ctx context.Context, msg string) error {
	level, err := parseLevel(c.v.GetString("level"))
	if err != nil {
		return err
	}
	if timeout := c.v.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	conn, err := transport.Dial(ctx, c.v.GetString("addr"))
	if err != nil {
		return err
	}
	defer conn.Close()

	logger := bpflog.NewLogger(
		transport.NewStreamSender(conn),
		bpflog.WithTarget(c.v.GetString("target")),
	)
	if err := logger.Log(ctx, c.v.GetInt("unit"), level, msg); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

func parseLevel(value string) (bpflog.Level, error) {
	level, ok := bpflog.ParseLevel(value)
	if !ok {
		return 0, fmt.Errorf("unknown level %q", value)
	}
	return level, nil
}
