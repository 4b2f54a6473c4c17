// Package gateway orchestrates the holonet server components.
//
// # Overview
//
// Gateway owns the store, the character service built on it, the HTTP
// server and the optional gRPC server. New opens the store from config;
// NewWithStore accepts one that is already open.
//
// # HTTP
//
// One mux carries every surface:
//
//	GET  /health              liveness, always "OK"
//	GET  /health/ready        200 when the store answers a ping, else 503
//	     /sw-characters...    REST (package api)
//	     /graphql             GraphQL (package graphql), when enabled
//	GET  /, /guide, /static/  browser client (package web), when enabled
//
// Requests pass through three middlewares, outermost first: request ID
// (X-Request-ID, generated with uuid when absent), access log, panic
// recovery.
//
// # gRPC
//
// The holonet.v1.Characters service (package rpc) is served when
// server.grpc_addr is set or tailscale is enabled. The server carries an
// otelgrpc stats handler and a logging interceptor.
//
// # Listeners
//
// With tailscale disabled the servers listen on server.http_addr and
// server.grpc_addr. With tailscale enabled a tsnet node joins the tailnet
// and serves HTTP on :80 and gRPC on :50051; the TCP addresses are ignored
// with a warning.
//
// # Lifecycle
//
// Run blocks until its context is canceled or a server fails, then calls
// Shutdown with server.shutdown_timeout. Shutdown stops HTTP, stops gRPC
// gracefully (forcing it when the timeout passes), closes the tsnet node
// and closes the store.
package gateway
