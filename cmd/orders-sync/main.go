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
		fmt.Fprintf(os.Stderr, "Failed to start orders sync: %v\n", err)
		os.Exit(1)
	}

	err = a.Runner.Orders(ctx, a.Exporter())
	closeApp()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orders sync failed: %v\n", err)
		os.Exit(1)
	}
}
