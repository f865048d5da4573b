package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runner := NewRunner(RunnerOpts{Logger: logger})
	err := rootCommand(runner).Run(ctx, os.Args)
	stop()

	os.Exit(exitCode(err, logger))
}

// exitCode maps the result of the app to a process exit status. Interrupts are a normal exit.
func exitCode(err error, logger *log.Logger) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrInterrupted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "\nForce Exit. Stay focused! 👋")
		return 0
	default:
		logger.Error("application error", "err", err)
		return 1
	}
}
