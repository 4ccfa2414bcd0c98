// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/floatdock/cmd"
)

// osExit allows mocking os.Exit in tests.
var osExit = os.Exit

// main is the entry point of the floatdock CLI.
func main() {
	// Cancel on SIGINT/SIGTERM so the terminal host can restore the screen.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		osExit(1)
	}
}
