package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"todolist/internal/cli"
	"todolist/internal/client"
	"todolist/internal/config"
	"todolist/internal/tui"
	"todolist/pkg/logger"
)

func main() {
	cfg := config.Get()

	// Root flags (apply to every subcommand)
	apiURL := flag.String("api", cfg.TodoAPIURL, "todos collection URL")
	groupPending := flag.Bool("group", false, "group ls output by pending/done")
	logFile := flag.String("log", "", "write logs to this file (interactive mode discards them otherwise)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(*apiURL)
	args := flag.Args()

	if len(args) > 0 {
		logger.SetOutput(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		code := cli.Run(ctx, api, args, cli.Options{Group: *groupPending})
		if code != 0 {
			fmt.Fprintln(os.Stderr)
		}
		stop()
		os.Exit(code)
	}

	// The alternate screen owns stdout/stderr while the TUI runs.
	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger.SetOutput(out, cfg.LogLevel, cfg.LogFormat)

	if err := tui.Run(ctx, api); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}
