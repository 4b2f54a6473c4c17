// ABOUTME: Configuration loading and parsing for holonet
// ABOUTME: Supports YAML or TOML files, ${VAR} expansion, HOLONET_* overrides and duration parsing

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the complete holonet configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	GraphQL   GraphQLConfig   `yaml:"graphql" toml:"graphql"`
	Web       WebConfig       `yaml:"web" toml:"web"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
}

// ServerConfig holds listener addresses and timeouts
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr" env:"HOLONET_HTTP_ADDR"`
	// GRPCAddr is optional; empty disables the gRPC listener
	GRPCAddr string `yaml:"grpc_addr" toml:"grpc_addr" env:"HOLONET_GRPC_ADDR"`

	ReadHeaderTimeout time.Duration `yaml:"-" toml:"-"`
	ShutdownTimeout   time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	ReadHeaderTimeoutRaw string `yaml:"read_header_timeout" toml:"read_header_timeout" env:"HOLONET_READ_HEADER_TIMEOUT"`
	ShutdownTimeoutRaw   string `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"HOLONET_SHUTDOWN_TIMEOUT"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled" env:"HOLONET_TAILSCALE_ENABLED"`
	Hostname  string `yaml:"hostname" toml:"hostname" env:"HOLONET_TAILSCALE_HOSTNAME"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key" env:"TS_AUTHKEY"`
	StateDir  string `yaml:"state_dir" toml:"state_dir" env:"HOLONET_TAILSCALE_STATE_DIR"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral" env:"HOLONET_TAILSCALE_EPHEMERAL"`
}

// DatabaseConfig selects the storage engine
type DatabaseConfig struct {
	Driver string `yaml:"driver" toml:"driver" env:"HOLONET_DB_DRIVER"`
	// Path is the SQLite file, or ":memory:"
	Path string `yaml:"path" toml:"path" env:"HOLONET_DB_PATH"`
	// DSN is the PostgreSQL connection string
	DSN string `yaml:"dsn" toml:"dsn" env:"HOLONET_DB_DSN"`
}

// GraphQLConfig controls the GraphQL endpoint
type GraphQLConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" env:"HOLONET_GRAPHQL_ENABLED"`
	Path    string `yaml:"path" toml:"path" env:"HOLONET_GRAPHQL_PATH"`
}

// WebConfig controls the browser client
type WebConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" env:"HOLONET_WEB_ENABLED"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" env:"HOLONET_LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" env:"HOLONET_LOG_FORMAT"`
}

// TelemetryConfig holds OpenTelemetry trace export configuration
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" toml:"enabled" env:"HOLONET_OTEL_ENABLED"`
	Endpoint    string `yaml:"endpoint" toml:"endpoint" env:"HOLONET_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name" toml:"service_name" env:"HOLONET_OTEL_SERVICE_NAME"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:             "0.0.0.0:5003",
			ReadHeaderTimeout:    10 * time.Second,
			ShutdownTimeout:      5 * time.Second,
			ReadHeaderTimeoutRaw: "10s",
			ShutdownTimeoutRaw:   "5s",
		},
		Tailscale: TailscaleConfig{
			Hostname: "holonet",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(DefaultDataDir(), "holonet.db"),
		},
		GraphQL: GraphQLConfig{
			Enabled: true,
			Path:    "/graphql",
		},
		Web: WebConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "holonet",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// The format follows the extension: .toml for TOML, anything else for YAML.
// Environment variables in the format ${VAR_NAME} are expanded, then HOLONET_*
// variables override individual fields. Keys missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return finish(cfg)
}

// LoadOrDefault is Load, except that a missing file yields Default with
// environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return cfg, err
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// Parse duration fields
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields whose HOLONET_* variable is set.
func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	// The HTTP address is required unless Tailscale is enabled
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	// Tailscale requires a hostname
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.GraphQL.Enabled && !strings.HasPrefix(c.GraphQL.Path, "/") {
		return fmt.Errorf("graphql.path must start with /, got %q", c.GraphQL.Path)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ReadHeaderTimeoutRaw != "" {
		cfg.Server.ReadHeaderTimeout, err = time.ParseDuration(cfg.Server.ReadHeaderTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing read_header_timeout %q: %w", cfg.Server.ReadHeaderTimeoutRaw, err)
		}
	}

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	return nil
}

// DefaultPath resolves the config file location: HOLONET_CONFIG, then
// $XDG_CONFIG_HOME/holonet/holonet.yaml, then ~/.config/holonet/holonet.yaml.
func DefaultPath() string {
	if p := os.Getenv("HOLONET_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "holonet", "holonet.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "holonet.yaml"
	}
	return filepath.Join(home, ".config", "holonet", "holonet.yaml")
}

// DefaultDataDir is where the SQLite database lives unless configured:
// $XDG_DATA_HOME/holonet, else ~/.local/share/holonet.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "holonet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".local", "share", "holonet")
}
