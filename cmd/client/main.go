package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/blinkauth/internal/client/api"
	"github.com/iudanet/blinkauth/internal/client/auth"
	"github.com/iudanet/blinkauth/internal/client/cli"
	"github.com/iudanet/blinkauth/internal/client/iocli"
	"github.com/iudanet/blinkauth/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "blinkauth-client.db", "Path to local session database")
	password := flag.String("password", "", "Password (not recommended, use BLINKAUTH_PASSWORD or --password-file)")
	passwordFile := flag.String("password-file", "", "Path to file containing the password")
	verbose := flag.Bool("verbose", false, "Log debug messages to stderr")

	flag.Parse()

	stdio := iocli.NewStdio()

	if *showVersion {
		printVersion()
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(api.NewClient(*serverURL), boltStorage, logger)
	c := cli.New(authService, stdio, cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage(stdio)
		}
		return 1
	}

	return 0
}

func printVersion() {
	fmt.Printf("BlinkAuth Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
