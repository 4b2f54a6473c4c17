// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, HOLONET_* overrides and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	configPath := writeConfig(t, "holonet.yaml", `
server:
  http_addr: "127.0.0.1:5003"
  grpc_addr: "127.0.0.1:50051"
  read_header_timeout: "3s"
  shutdown_timeout: "15s"

database:
  driver: "sqlite"
  path: "./test.db"

graphql:
  enabled: true
  path: "/api/graphql"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "127.0.0.1:5003" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "127.0.0.1:5003")
	}
	if cfg.Server.GRPCAddr != "127.0.0.1:50051" {
		t.Errorf("Server.GRPCAddr = %q, want %q", cfg.Server.GRPCAddr, "127.0.0.1:50051")
	}
	if cfg.Server.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("Server.ReadHeaderTimeout = %v, want %v", cfg.Server.ReadHeaderTimeout, 3*time.Second)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 15*time.Second)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.GraphQL.Path != "/api/graphql" {
		t.Errorf("GraphQL.Path = %q, want %q", cfg.GraphQL.Path, "/api/graphql")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want debug/json", cfg.Logging)
	}

	// Keys missing from the file keep their defaults
	if !cfg.Web.Enabled {
		t.Error("Web.Enabled should default to true")
	}
	if cfg.Telemetry.ServiceName != "holonet" {
		t.Errorf("Telemetry.ServiceName = %q, want %q", cfg.Telemetry.ServiceName, "holonet")
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	configPath := writeConfig(t, "holonet.toml", `
[server]
http_addr = "0.0.0.0:8080"

[database]
driver = "postgres"
dsn = "postgres://holonet@localhost/holonet"

[telemetry]
enabled = true
endpoint = "http://localhost:4318"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://holonet@localhost/holonet" {
		t.Errorf("Database.DSN = %q", cfg.Database.DSN)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "http://localhost:4318" {
		t.Errorf("Telemetry = %+v", cfg.Telemetry)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want default 5s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_HOLONET_DSN", "postgres://expanded/db")

	configPath := writeConfig(t, "holonet.yaml", `
database:
  driver: "postgres"
  dsn: "${TEST_HOLONET_DSN}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.DSN != "postgres://expanded/db" {
		t.Errorf("Database.DSN = %q, want %q", cfg.Database.DSN, "postgres://expanded/db")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOLONET_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("HOLONET_DB_PATH", ":memory:")
	t.Setenv("HOLONET_LOG_LEVEL", "warn")
	t.Setenv("HOLONET_GRAPHQL_ENABLED", "false")
	t.Setenv("HOLONET_SHUTDOWN_TIMEOUT", "1s")

	configPath := writeConfig(t, "holonet.yaml", `
server:
  http_addr: "0.0.0.0:5003"
database:
  path: "./from-file.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("Server.HTTPAddr = %q, want env override", cfg.Server.HTTPAddr)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.GraphQL.Enabled {
		t.Error("GraphQL.Enabled should be overridden to false")
	}
	if cfg.Server.ShutdownTimeout != time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 1s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/holonet.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file, got nil")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Setenv("HOLONET_DB_PATH", ":memory:")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Server.HTTPAddr != "0.0.0.0:5003" {
		t.Errorf("Server.HTTPAddr = %q, want default", cfg.Server.HTTPAddr)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
}

func TestLoadOrDefault_InvalidFileStillFails(t *testing.T) {
	configPath := writeConfig(t, "holonet.yaml", "server: [unclosed")

	if _, err := LoadOrDefault(configPath); err == nil {
		t.Error("LoadOrDefault() expected parse error, got nil")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, "holonet.yaml", `
server:
  shutdown_timeout: "soon"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "shutdown_timeout") {
		t.Errorf("error should mention shutdown_timeout, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing http addr",
			mutate:  func(c *Config) { c.Server.HTTPAddr = "" },
			wantErr: "server.http_addr",
		},
		{
			name: "tailscale without http addr is fine",
			mutate: func(c *Config) {
				c.Server.HTTPAddr = ""
				c.Tailscale.Enabled = true
			},
		},
		{
			name: "tailscale requires hostname",
			mutate: func(c *Config) {
				c.Tailscale.Enabled = true
				c.Tailscale.Hostname = ""
			},
			wantErr: "tailscale.hostname",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "database.driver",
		},
		{
			name:    "sqlite requires path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "postgres requires dsn",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: "database.dsn",
		},
		{
			name:    "graphql path must be absolute",
			mutate:  func(c *Config) { c.GraphQL.Path = "graphql" },
			wantErr: "graphql.path",
		},
		{
			name: "graphql path ignored when disabled",
			mutate: func(c *Config) {
				c.GraphQL.Enabled = false
				c.GraphQL.Path = ""
			},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "telemetry requires endpoint",
			mutate:  func(c *Config) { c.Telemetry.Enabled = true },
			wantErr: "telemetry.endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HOLONET_TEST_A", "alpha")

	got := expandEnvVars("a=${HOLONET_TEST_A} b=${HOLONET_TEST_UNSET_B} c=$PLAIN")
	want := "a=alpha b= c=$PLAIN"
	if got != want {
		t.Errorf("expandEnvVars() = %q, want %q", got, want)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOLONET_CONFIG", "/etc/holonet/custom.yaml")
	if got := DefaultPath(); got != "/etc/holonet/custom.yaml" {
		t.Errorf("DefaultPath() = %q, want HOLONET_CONFIG value", got)
	}

	t.Setenv("HOLONET_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != filepath.Join("/tmp/xdg", "holonet", "holonet.yaml") {
		t.Errorf("DefaultPath() = %q, want XDG path", got)
	}
}
