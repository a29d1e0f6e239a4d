package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/yungbote/edugen-backend/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 || len(args) > 2 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(os.Stderr, "Usage: edugen <topic> [output_dir]")
		fmt.Fprintln(os.Stderr, "Example: edugen '10 minus 4'")
		fmt.Fprintln(os.Stderr, "Example: edugen '10 minus 4' ./output")
		return 1
	}
	outputDir := ""
	if len(args) == 2 {
		outputDir = args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := app.NewRunner(ctx, outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edugen: %v\n", err)
		return 1
	}
	defer r.Close()

	if err := r.Run(ctx, args[0], os.Stdout); err != nil {
		return 1
	}
	return 0
}
