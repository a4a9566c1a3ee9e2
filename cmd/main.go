package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ostafen/mediadecoder/cmd/cmd"
	"github.com/ostafen/mediadecoder/internal/env"
)

func main() {
	PrintLogo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// PrintLogo writes the banner to stderr, keeping stdout free for reports.
func PrintLogo() {
	w := os.Stderr
	fmt.Fprintln(w, "                  _ _          _                   _")
	fmt.Fprintln(w, " _ __ ___   ___  __| (_) __ _  __| | ___  ___ ___   __| | ___ _ __")
	fmt.Fprintln(w, "| '_ ` _ \\ / _ \\/ _` | |/ _` |/ _` |/ _ \\/ __/ _ \\ / _` |/ _ \\ '__|")
	fmt.Fprintln(w, "| | | | | |  __/ (_| | | (_| | (_| |  __/ (_| (_) | (_| |  __/ |")
	fmt.Fprintln(w, "|_| |_| |_|\\___|\\__,_|_|\\__,_|\\__,_|\\___|\\___\\___/ \\__,_|\\___|_|")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BMP and JPEG header decoder")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Version:   %s\n", env.Version)
	fmt.Fprintf(w, "Commit:    %s\n", env.CommitHash)
	fmt.Fprintf(w, "Build Time: %s\n", env.BuildTime)
	fmt.Fprintln(w, " ")
}
