// ABOUTME: Interactive holonet init command
// ABOUTME: Prompts for settings and writes a commented YAML config file

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389/holonet/internal/config"
)

// initAnswers holds the values collected by runInit.
type initAnswers struct {
	HTTPAddr string
	GRPCAddr string

	Driver string
	DBPath string
	DSN    string

	TailscaleEnabled   bool
	TailscaleHostname  string
	TailscaleAuthKey   string
	TailscaleEphemeral bool

	LogLevel  string
	LogFormat string
}

func runInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "holonet configuration setup")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out)

	defaults := config.Default()

	outputFile := prompt(reader, out, "Config file path", config.DefaultPath())

	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, out, "File exists. Overwrite?", "no")) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	var a initAnswers

	fmt.Fprintln(out, "\n--- Server Configuration ---")
	a.HTTPAddr = prompt(reader, out, "HTTP address", defaults.Server.HTTPAddr)
	a.GRPCAddr = prompt(reader, out, "gRPC address (empty to disable)", "")

	fmt.Fprintln(out, "\n--- Database Configuration ---")
	a.Driver = prompt(reader, out, "Driver (sqlite/postgres)", defaults.Database.Driver)
	if a.Driver == "postgres" {
		a.DSN = prompt(reader, out, "PostgreSQL DSN", "postgres://localhost:5432/holonet")
	} else {
		a.DBPath = prompt(reader, out, "SQLite database path", defaults.Database.Path)
	}

	fmt.Fprintln(out, "\n--- Tailscale Configuration ---")
	a.TailscaleEnabled = yes(prompt(reader, out, "Enable Tailscale?", "no"))
	if a.TailscaleEnabled {
		a.TailscaleHostname = prompt(reader, out, "Tailscale hostname", defaults.Tailscale.Hostname)
		a.TailscaleAuthKey = prompt(reader, out, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		a.TailscaleEphemeral = yes(prompt(reader, out, "Ephemeral node?", "no"))
	}

	fmt.Fprintln(out, "\n--- Logging Configuration ---")
	a.LogLevel = prompt(reader, out, "Log level (debug/info/warn/error)", defaults.Logging.Level)
	a.LogFormat = prompt(reader, out, "Log format (text/json)", defaults.Logging.Format)

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// The file may carry an auth key.
	if err := os.WriteFile(outputFile, []byte(renderConfig(a)), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", outputFile)
	if a.DBPath != "" && a.DBPath != ":memory:" {
		fmt.Fprintf(out, "Data directory: %s\n", filepath.Dir(a.DBPath))
	}
	fmt.Fprintln(out, "\nTo start the server:")
	fmt.Fprintln(out, "  holonet serve")

	return nil
}

// renderConfig produces a YAML config that config.Load accepts.
func renderConfig(a initAnswers) string {
	var cfg strings.Builder
	cfg.WriteString("# holonet configuration\n")
	cfg.WriteString("# Generated by holonet init\n")
	cfg.WriteString("# Values may reference the environment as ${VAR}.\n\n")

	cfg.WriteString("server:\n")
	fmt.Fprintf(&cfg, "  http_addr: %q\n", a.HTTPAddr)
	cfg.WriteString("  # Empty disables the gRPC listener.\n")
	fmt.Fprintf(&cfg, "  grpc_addr: %q\n", a.GRPCAddr)
	cfg.WriteString("  read_header_timeout: \"10s\"\n")
	cfg.WriteString("  shutdown_timeout: \"5s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	fmt.Fprintf(&cfg, "  driver: %q\n", a.Driver)
	if a.Driver == "postgres" {
		fmt.Fprintf(&cfg, "  dsn: %q\n", a.DSN)
	} else {
		fmt.Fprintf(&cfg, "  path: %q\n", a.DBPath)
	}
	cfg.WriteString("\n")

	cfg.WriteString("tailscale:\n")
	fmt.Fprintf(&cfg, "  enabled: %t\n", a.TailscaleEnabled)
	if a.TailscaleEnabled {
		fmt.Fprintf(&cfg, "  hostname: %q\n", a.TailscaleHostname)
		if a.TailscaleAuthKey != "" {
			fmt.Fprintf(&cfg, "  auth_key: %q\n", a.TailscaleAuthKey)
		}
		fmt.Fprintf(&cfg, "  ephemeral: %t\n", a.TailscaleEphemeral)
	}
	cfg.WriteString("\n")

	cfg.WriteString("graphql:\n")
	cfg.WriteString("  enabled: true\n")
	cfg.WriteString("  path: \"/graphql\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("web:\n")
	cfg.WriteString("  enabled: true\n")
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	fmt.Fprintf(&cfg, "  level: %q\n", a.LogLevel)
	fmt.Fprintf(&cfg, "  format: %q\n", a.LogFormat)
	cfg.WriteString("\n")

	cfg.WriteString("telemetry:\n")
	cfg.WriteString("  enabled: false\n")
	cfg.WriteString("  # endpoint: \"http://localhost:4318\"\n")
	cfg.WriteString("  service_name: \"holonet\"\n")

	return cfg.String()
}

func yes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
