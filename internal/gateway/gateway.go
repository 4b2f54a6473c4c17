// ABOUTME: Gateway orchestrator that coordinates the gRPC and HTTP servers
// ABOUTME: Owns the store, character service, listeners, health endpoints and shutdown

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/2389/holonet/internal/api"
	"github.com/2389/holonet/internal/character"
	"github.com/2389/holonet/internal/config"
	"github.com/2389/holonet/internal/graphql"
	"github.com/2389/holonet/internal/rpc"
	"github.com/2389/holonet/internal/store"
	"github.com/2389/holonet/internal/web"
)

// Tailnet ports used when tailscale is enabled.
const (
	tailnetHTTPAddr = ":80"
	tailnetGRPCAddr = ":50051"
)

// readyTimeout bounds the store ping behind /health/ready.
const readyTimeout = 2 * time.Second

// Gateway orchestrates the holonet server components.
type Gateway struct {
	config      *config.Config
	store       store.Store
	grpcServer  *grpc.Server // nil when gRPC is disabled
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	logger      *slog.Logger
}

// New opens the configured store and builds a Gateway over it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := store.Open(ctx, store.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	gw, err := NewWithStore(cfg, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return gw, nil
}

// NewWithStore builds a Gateway over an already open store. The Gateway
// closes s on Shutdown.
func NewWithStore(cfg *config.Config, s store.Store, logger *slog.Logger) (*Gateway, error) {
	svc := character.NewService(s, logger)

	gw := &Gateway{
		config: cfg,
		store:  s,
		logger: logger.With("component", "gateway"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("GET /health/ready", gw.handleReady)

	api.NewHandler(svc, logger).Register(mux)

	var graphqlPath string
	if cfg.GraphQL.Enabled {
		graphqlPath = cfg.GraphQL.Path
		gqlHandler, err := graphql.NewHandler(svc, logger)
		if err != nil {
			return nil, fmt.Errorf("building GraphQL schema: %w", err)
		}
		mux.Handle(graphqlPath, gqlHandler)
		gw.logger.Info("GraphQL endpoint enabled", "path", graphqlPath)
	}

	if cfg.Web.Enabled {
		webHandler, err := web.New(svc, graphqlPath, logger)
		if err != nil {
			return nil, fmt.Errorf("building web client: %w", err)
		}
		webHandler.Register(mux)
	}

	if gw.grpcEnabled() {
		gw.grpcServer = grpc.NewServer(
			grpc.StatsHandler(otelgrpc.NewServerHandler()),
			grpc.KeepaliveParams(keepalive.ServerParameters{
				Time:    15 * time.Second,
				Timeout: 5 * time.Second,
			}),
			grpc.ChainUnaryInterceptor(gw.unaryLogging),
		)
		rpc.RegisterCharactersServer(gw.grpcServer, rpc.NewServer(svc, logger))
	}

	readHeaderTimeout := cfg.Server.ReadHeaderTimeout
	if readHeaderTimeout == 0 {
		readHeaderTimeout = 10 * time.Second
	}
	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           requestID(gw.logRequests(gw.recoverPanics(mux))),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return gw, nil
}

// Handler returns the root HTTP handler with middleware applied.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}

func (g *Gateway) grpcEnabled() bool {
	return g.config.Server.GRPCAddr != "" || g.config.Tailscale.Enabled
}

// Run starts the servers and blocks until ctx is canceled or a server
// fails. It returns nil after a graceful shutdown.
func (g *Gateway) Run(ctx context.Context) error {
	grpcLn, httpLn, err := g.setupListeners(ctx)
	if err != nil {
		return err
	}

	errCh := g.startServers(grpcLn, httpLn)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// setupListeners creates listeners based on configuration (Tailscale or TCP).
func (g *Gateway) setupListeners(ctx context.Context) (grpcLn, httpLn net.Listener, err error) {
	if g.config.Tailscale.Enabled {
		g.warnIgnoredAddresses()
		return g.setupTailscaleListeners(ctx)
	}
	return g.setupTCPListeners()
}

// setupTCPListeners creates TCP listeners. grpcLn is nil when gRPC is off.
func (g *Gateway) setupTCPListeners() (grpcLn, httpLn net.Listener, err error) {
	g.logger.Info("starting gateway",
		"grpc_addr", g.config.Server.GRPCAddr,
		"http_addr", g.config.Server.HTTPAddr,
	)

	if g.grpcServer != nil {
		grpcLn, err = net.Listen("tcp", g.config.Server.GRPCAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("listening on gRPC address: %w", err)
		}
	}

	httpLn, err = net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		if grpcLn != nil {
			_ = grpcLn.Close()
		}
		return nil, nil, fmt.Errorf("listening on HTTP address: %w", err)
	}

	return grpcLn, httpLn, nil
}

// warnIgnoredAddresses logs a warning if server addresses are configured but Tailscale is enabled.
func (g *Gateway) warnIgnoredAddresses() {
	if g.config.Server.GRPCAddr != "" || g.config.Server.HTTPAddr != "" {
		g.logger.Warn("server.grpc_addr and server.http_addr are ignored when tailscale is enabled",
			"grpc_addr", g.config.Server.GRPCAddr,
			"http_addr", g.config.Server.HTTPAddr,
		)
	}
}

// resolveTailscaleStateDir returns the state directory, using default if not configured.
func resolveTailscaleStateDir(configured string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(config.DefaultDataDir(), "tailscale")
}

// resolveTailscaleAuthKey returns the auth key from config or environment.
func resolveTailscaleAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set auth_key in config or TS_AUTHKEY environment variable")
	}
	return authKey, nil
}

// setupTailscaleListeners joins the tailnet and listens on :50051 and :80.
func (g *Gateway) setupTailscaleListeners(ctx context.Context) (grpcLn, httpLn net.Listener, err error) {
	tsCfg := g.config.Tailscale

	stateDir := resolveTailscaleStateDir(tsCfg.StateDir)
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}

	authKey, err := resolveTailscaleAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, nil, err
	}

	g.tsnetServer = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}

	g.logger.Info("starting tailscale node", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := g.tsnetServer.Up(ctx)
	if err != nil {
		_ = g.tsnetServer.Close()
		return nil, nil, fmt.Errorf("starting tailscale: %w", err)
	}
	g.logTailscaleStatus(tsCfg.Hostname, status)

	grpcLn, err = g.tsnetServer.Listen("tcp", tailnetGRPCAddr)
	if err != nil {
		_ = g.tsnetServer.Close()
		return nil, nil, fmt.Errorf("listening on tailscale gRPC port: %w", err)
	}

	httpLn, err = g.tsnetServer.Listen("tcp", tailnetHTTPAddr)
	if err != nil {
		_ = grpcLn.Close()
		_ = g.tsnetServer.Close()
		return nil, nil, fmt.Errorf("listening on tailscale HTTP port: %w", err)
	}
	return grpcLn, httpLn, nil
}

// logTailscaleStatus logs info about the tailscale node status.
func (g *Gateway) logTailscaleStatus(hostname string, status *ipnstate.Status) {
	var tsAddr, dnsName string
	if len(status.TailscaleIPs) > 0 {
		tsAddr = status.TailscaleIPs[0].String()
	} else {
		g.logger.Warn("tailscale node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = status.Self.DNSName
	}
	g.logger.Info("tailscale node ready", "hostname", hostname, "tailscale_ip", tsAddr, "dns_name", dnsName)
}

// startServers starts the servers in goroutines, returning their error channel.
func (g *Gateway) startServers(grpcLn, httpLn net.Listener) chan error {
	errCh := make(chan error, 2)

	if grpcLn != nil {
		go func() {
			g.logger.Info("gRPC server listening", "addr", grpcLn.Addr().String())
			if err := g.grpcServer.Serve(grpcLn); err != nil {
				errCh <- fmt.Errorf("gRPC server: %w", err)
			}
		}()
	}

	go func() {
		g.logger.Info("HTTP server listening", "addr", httpLn.Addr().String())
		if err := g.httpServer.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		g.drainErrors(errCh)
		return err
	}
}

// drainErrors drains any remaining errors from the channel.
func (g *Gateway) drainErrors(errCh chan error) {
	select {
	case additionalErr := <-errCh:
		g.logger.Error("additional server error", "error", additionalErr)
	default:
	}
}

// gracefulShutdown runs Shutdown on a fresh context bounded by
// server.shutdown_timeout, since the Run context is already done.
func (g *Gateway) gracefulShutdown() error {
	timeout := g.config.Server.ShutdownTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// shutdownGRPCServer gracefully stops the gRPC server or force-stops on context cancel.
func (g *Gateway) shutdownGRPCServer(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		g.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		g.grpcServer.Stop()
	}
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the servers and closes the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", g.httpServer.Shutdown(ctx))

	if g.grpcServer != nil {
		g.shutdownGRPCServer(ctx)
	}

	if g.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", g.tsnetServer.Close())
	}
	errs = appendCloseError(errs, "store close", g.store.Close())

	return errors.Join(errs...)
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 when the store answers a ping.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := g.store.Ping(ctx); err != nil {
		g.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
