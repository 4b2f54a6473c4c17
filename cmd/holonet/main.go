// ABOUTME: Entry point for the holonet character service
// ABOUTME: Dispatches the serve, init, health and characters subcommands

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/2389/holonet/internal/config"
	"github.com/2389/holonet/internal/gateway"
	"github.com/2389/holonet/internal/telemetry"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
  _           _                  _
 | |__   ___ | | ___  _ __   ___| |_
 | '_ \ / _ \| |/ _ \| '_ \ / _ \ __|
 | | | | (_) | | (_) | | | |  __/ |_
 |_| |_|\___/|_|\___/|_| |_|\___|\__|
`

func usage() {
	fmt.Println("Usage: holonet <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                  Start the server")
	fmt.Println("  init                   Create a new config file interactively")
	fmt.Println("  health [--ready]       Check server health")
	fmt.Println("  characters [filters]   List characters (--name, --faction, --homeland, --species)")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: reading .env: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit(os.Stdin, os.Stdout)
	case "health":
		err = runHealth(ctx, os.Args[2:], os.Stdout)
	case "characters":
		err = runCharacters(ctx, os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := config.DefaultPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stdout)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	if cfg.Server.GRPCAddr != "" {
		green.Print("    ▶ ")
		fmt.Printf("gRPC:      %s\n", cfg.Server.GRPCAddr)
	}
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s", cfg.Database.Driver)
	if cfg.Database.Driver == "sqlite" {
		gray.Printf(" (%s)", cfg.Database.Path)
	}
	fmt.Println()
	if cfg.GraphQL.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("GraphQL:   %s\n", cfg.GraphQL.Path)
	}

	// Tailscale status
	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	}
	if cfg.Telemetry.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tracing:   ")
		yellow.Println(cfg.Telemetry.Endpoint)
	}

	fmt.Println()

	logger.Info("starting holonet",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"grpc_addr", cfg.Server.GRPCAddr,
		"driver", cfg.Database.Driver,
	)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	gw, err := gateway.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}
