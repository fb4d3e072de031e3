package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/okian/futdash/cmd/commands"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
