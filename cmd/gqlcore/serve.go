package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hanpama/gqlcore/internal/config"
	"github.com/hanpama/gqlcore/internal/eventbus"
	"github.com/hanpama/gqlcore/internal/logging"
	"github.com/hanpama/gqlcore/internal/otel"
	"github.com/hanpama/gqlcore/internal/server"
	"github.com/hanpama/gqlcore/internal/starwars"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	config          string
	addr            string
	timeout         time.Duration
	pretty          bool
	maxBodyBytes    int64
	corsOrigins     []string
	metadataHeaders []string
	introspection   bool
	validation      bool
	concurrency     int
	logLevel        string
	logFormat       string
	otelEndpoint    string
	otelService     string
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the example schema over HTTP at /graphql",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			return serve(cmd, cfg)
		},
	}
	f.bind(cmd)
	return cmd
}

// bind registers the flags on cmd with config.Default values.
func (f *serveFlags) bind(cmd *cobra.Command) {
	d := config.Default()
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "Path to a YAML configuration file")
	fl.StringVar(&f.addr, "addr", d.Server.Addr, "HTTP listen address")
	fl.DurationVar(&f.timeout, "timeout", d.Server.Timeout, "Per-request timeout")
	fl.BoolVar(&f.pretty, "pretty", d.Server.Pretty, "Pretty-print JSON responses")
	fl.Int64Var(&f.maxBodyBytes, "max-body-bytes", d.Server.MaxBodyBytes, "Maximum POST body size, 0 for unlimited")
	fl.StringSliceVar(&f.corsOrigins, "cors-origin", nil, "Allowed CORS origin, repeatable; * allows any")
	fl.StringSliceVar(&f.metadataHeaders, "metadata-header", nil, "Forward HTTP header to resolver metadata, repeatable")
	fl.BoolVar(&f.introspection, "introspection", d.GraphQL.Introspection, "Enable __schema and __type")
	fl.BoolVar(&f.validation, "validation", d.GraphQL.Validation, "Validate operations before execution")
	fl.IntVar(&f.concurrency, "concurrency", d.GraphQL.Concurrency, "Sibling fields resolved at once")
	fl.StringVar(&f.logLevel, "log-level", d.Log.Level, "Log level: debug, info, warn, error")
	fl.StringVar(&f.logFormat, "log-format", d.Log.Format, "Log format: text or json")
	fl.StringVar(&f.otelEndpoint, "otel-endpoint", d.Otel.Endpoint, "OTLP/gRPC collector endpoint")
	fl.StringVar(&f.otelService, "otel-service", d.Otel.Service, "OpenTelemetry service name")
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set explicitly on top of it.
func loadConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if fl.Changed("timeout") {
		cfg.Server.Timeout = f.timeout
	}
	if fl.Changed("pretty") {
		cfg.Server.Pretty = f.pretty
	}
	if fl.Changed("max-body-bytes") {
		cfg.Server.MaxBodyBytes = f.maxBodyBytes
	}
	if fl.Changed("cors-origin") {
		cfg.Server.CORSOrigins = f.corsOrigins
	}
	if fl.Changed("metadata-header") {
		cfg.Server.MetadataHeaders = f.metadataHeaders
	}
	if fl.Changed("introspection") {
		cfg.GraphQL.Introspection = f.introspection
	}
	if fl.Changed("validation") {
		cfg.GraphQL.Validation = f.validation
	}
	if fl.Changed("concurrency") {
		cfg.GraphQL.Concurrency = f.concurrency
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if fl.Changed("otel-endpoint") {
		cfg.Otel.Endpoint = f.otelEndpoint
	}
	if fl.Changed("otel-service") {
		cfg.Otel.Service = f.otelService
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serverOptions(cfg *config.Config) []server.Option {
	opts := []server.Option{
		server.WithTimeout(cfg.Server.Timeout),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithValidation(cfg.GraphQL.Validation),
		server.WithIntrospection(cfg.GraphQL.Introspection),
		server.WithConcurrency(cfg.GraphQL.Concurrency),
	}
	if cfg.Server.Pretty {
		opts = append(opts, server.WithPretty())
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		opts = append(opts, server.WithCORS(cfg.Server.CORSOrigins...))
	}
	if len(cfg.Server.MetadataHeaders) > 0 {
		opts = append(opts, server.WithMetadataHeaders(cfg.Server.MetadataHeaders...))
	}
	return opts
}

// serve runs until the command's context is cancelled, then shuts the
// server down gracefully.
func serve(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logCfg := cfg.Logging()
	logCfg.Output = cmd.ErrOrStderr()
	logger := logging.New(logCfg)

	eventbus.Use(eventbus.New())
	shutdownTracing, err := otel.Setup(ctx, cfg.Otel.Endpoint, cfg.Otel.Service)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	h, err := server.New(starwars.NewSchema(), append(serverOptions(cfg), server.WithLogger(logger))...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Info("GraphQL server listening", "addr", ln.Addr().String(), "otel", cfg.Otel.Endpoint != "")

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
