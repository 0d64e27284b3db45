// Command bpflog receives, records, replays and emits bpflog records.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pkt.systems/bpflog/cmd/bpflog/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
