package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contactnorm/internal/cli"
	"contactnorm/pkg/config"
)

func main() {
	config.LoadDotEnvUp(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
