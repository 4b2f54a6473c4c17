// Package config handles configuration loading for holonet.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file, chosen by extension,
// with environment variable expansion and HOLONET_* overrides. Keys the
// file leaves out keep the values from Default.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from HOLONET_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/holonet/holonet.yaml
//  3. ~/.config/holonet/holonet.yaml
//
// LoadOrDefault falls back to Default when the file does not exist.
//
// # Environment Variables
//
// ${VAR_NAME} inside the file is replaced before parsing:
//
//	database:
//	  dsn: "${DATABASE_URL}"
//
// After parsing, individual fields are overridden by environment variables
// such as HOLONET_HTTP_ADDR, HOLONET_DB_DRIVER, HOLONET_DB_PATH,
// HOLONET_DB_DSN and HOLONET_LOG_LEVEL. The Tailscale auth key is read
// from TS_AUTHKEY.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:5003"    # REST, GraphQL, browser client
//	  grpc_addr: ""                # empty disables gRPC
//	  read_header_timeout: "10s"
//	  shutdown_timeout: "5s"
//
//	database:
//	  driver: "sqlite"             # sqlite, postgres
//	  path: "~/.local/share/holonet/holonet.db"
//	  dsn: ""
//
//	graphql:
//	  enabled: true
//	  path: "/graphql"
//
//	web:
//	  enabled: true
//
//	tailscale:
//	  enabled: false
//	  hostname: "holonet"
//	  ephemeral: false
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
//	telemetry:
//	  enabled: false
//	  endpoint: "http://localhost:4318"
//	  service_name: "holonet"
//
// # Validation
//
// Validate returns the first failure it finds: a missing HTTP address
// without Tailscale, an unknown driver, a driver without its path or DSN,
// a relative GraphQL path, or unknown logging values. Bad durations fail
// Load before validation runs.
package config
