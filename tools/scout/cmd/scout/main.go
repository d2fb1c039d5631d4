package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tyler180/football-scout/tools/scout/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.ExecuteContext(ctx)
}
