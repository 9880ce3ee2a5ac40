package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/blinkauth/internal/config"
	"github.com/iudanet/blinkauth/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, opts, err := config.Load(os.Args[1:], os.LookupEnv)
	if err != nil {
		return err
	}

	// Show version and exit if requested
	if opts.ShowVersion {
		printVersion()
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("BlinkAuth Server starting",
		slog.String("version", Version),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("mail", cfg.Mail.Provider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger, server.WithVersion(Version))
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

func printVersion() {
	fmt.Printf("BlinkAuth Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
