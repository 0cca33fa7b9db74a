// Command paywatch opens a FuratPay payment window for an order and polls the
// gateway until the payment resolves.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdin, os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}
