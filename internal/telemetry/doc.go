// Package telemetry configures OpenTelemetry tracing.
//
// Setup is opt-in through the telemetry config section. The character
// service and the gRPC server emit spans through the global provider, so
// with tracing off they run against the default no-op tracer.
package telemetry
