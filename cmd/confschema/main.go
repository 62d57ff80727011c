// Package main is the entry point for the confschema CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/reoring/confschema/cmd/confschema/app"
)

func main() {
	// Create a context that will be canceled on signal
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := app.NewRootCmd().ExecuteContext(ctx)
	code := app.ExitCode(err)
	if code > 1 {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	cancel()
	os.Exit(code)
}
