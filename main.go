package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/scrap-app/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		// ExecuteContext already printed the error
		stop()
		os.Exit(1)
	}
}
