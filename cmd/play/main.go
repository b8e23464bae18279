// Command play is a terminal client for the landmark quiz.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playperu/landmarks/internal/apiclient"
	"github.com/playperu/landmarks/internal/config"
	"github.com/playperu/landmarks/internal/scoring"
	"github.com/playperu/landmarks/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.LoadPlay()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	client, err := apiclient.New(logger, cfg.APIURL, cfg.APITimeout)
	if err != nil {
		return err
	}
	store, err := session.NewFileStore(cfg.StateDir)
	if err != nil {
		return err
	}

	game := session.NewGame(logger, client, store)
	resumed, err := game.Resume()
	if err != nil {
		return err
	}
	if resumed {
		fmt.Fprintln(stdout, "Resuming your last round.")
	} else if err := game.Start(ctx); err != nil {
		return err
	}

	tiers, err := client.Precisions(ctx)
	if err != nil {
		logger.Warn("fetching precision table, using built-in tiers", "error", err)
		tiers = scoring.Tiers()
	}

	return newConsole(game, tiers, stdout).loop(ctx, stdin)
}
