// Package cmd holds the bpflog command tree.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkt.systems/bpflog/render"
)

// EnvPrefix prefixes environment variables bound to flags, e.g.
// BPFLOG_ADDR for --addr.
const EnvPrefix = "BPFLOG"

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// cli is the state shared by the subcommands.
type cli struct {
	v *viper.Viper
}

// NewRootCommand builds the command tree. Flag values can also come from
// BPFLOG_* variables and from the file named by --config. Log output is
// configured through the LOG_* variables read by render.FromEnv.
func NewRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "bpflog",
		Short: "Receive, record and replay bpflog records",
		Long: `bpflog is the consumer side of the bpflog record format.

Examples:
  # print records sent over a unix socket and keep a capture
  bpflog listen --addr unix:///run/bpflog.sock --capture session.bpfcap

  # render a capture again
  bpflog replay session.bpfcap

  # send one record to a running consumer
  bpflog emit --addr unix:///run/bpflog.sock --level warn "queue full"`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	_ = c.v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return c.readConfig()
	}

	root.AddCommand(c.listenCommand(), c.replayCommand(), c.emitCommand())
	return root
}

func (c *cli) readConfig() error {
	path := c.v.GetString("config")
	if path == "" {
		return nil
	}
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// bind ties the flags of the running command to the viper keys of the same
// name. Subcommands share flag names, so binding happens at run time.
func (c *cli) bind(cmd *cobra.Command) {
	_ = c.v.BindPFlags(cmd.Flags())
}

// loggers returns the record logger, writing to the command's output, and
// the diagnostics logger, writing to its error stream. release closes any
// file either of them opened.
func (c *cli) loggers(cmd *cobra.Command) (out, diag render.Logger, release func()) {
	out = render.FromEnv(render.WithEnvWriter(cmd.OutOrStdout()))
	diag = render.FromEnv(render.WithEnvWriter(cmd.ErrOrStderr()))
	return out, diag, func() {
		_ = render.Close(out)
		_ = render.Close(diag)
	}
}
