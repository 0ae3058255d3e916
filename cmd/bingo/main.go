package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mcoot/backlogbingo/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.Execute(ctx)
}
