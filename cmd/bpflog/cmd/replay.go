package cmd

import (
	"github.com/spf13/cobra"

	"pkt.systems/bpflog/capture"
	"pkt.systems/bpflog/internal/consumer"
)

func (c *cli) replayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Print the records of a capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.bind(cmd)
			out, diag, release := c.loggers(cmd)
			defer release()

			r, err := capture.Open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()
			_, err = consumer.New(out, consumer.WithDiagnostics(diag)).Replay(cmd.Context(), r)
			return err
		},
	}
	return cmd
}
