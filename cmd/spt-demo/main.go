// Command spt-demo sets and inspects process and thread titles so the
// result can be checked with ps, top or /proc.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/derekg/setproctitle/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := ExecuteWithFang(ctx)
	stop()
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
