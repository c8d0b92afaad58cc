package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/thushan/ollafree/internal/app"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns instead of exiting so deferred cleanup (log file flush) runs.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewCLI(stdout, stderr)
	defer application.Close()

	if err := application.Run(ctx, args); err != nil {
		if errors.Is(err, app.ErrUsage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}
