package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelopoggi/PFSH-Parser/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a, closeApp, err := app.New(ctx)
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Failed to start inventory sync: %v\n", err)
		os.Exit(1)
	}

	err = a.Runner.Inventory(ctx)
	closeApp()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inventory sync failed: %v\n", err)
		os.Exit(1)
	}
}
