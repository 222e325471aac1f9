package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"jvscan/internal/cli"
	"jvscan/internal/discovery"
	"jvscan/internal/theme"
)

// Version is set during build time via ldflags
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, Version); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		// scripts test for a missing runtime by exit status alone
		if !errors.Is(err, discovery.ErrNotFound) || isTerminal() {
			fmt.Fprintln(os.Stderr, theme.ErrorMessage(err.Error()))
		}
		os.Exit(1)
	}
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}
