package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fetchlab/fetchlab/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override fetchlab config path (optional)")
	endpoint := flag.String("endpoint", "", "override the image API endpoint (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, Endpoint: *endpoint}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "fetchlab: %v\n", err)
		return 1
	}
	return 0
}
