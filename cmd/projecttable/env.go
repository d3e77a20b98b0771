package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"projecttable/internal/config"
	"projecttable/internal/logging"
	"projecttable/internal/metrics"
	"projecttable/internal/store"
	"projecttable/internal/trace"
)

// env holds what every command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	exporter *trace.OTLPExporter
	server   *http.Server
	closeLog func() error
}

// setup loads configuration, applies flag overrides and starts logging,
// tracing and the optional metrics listener.
func setup(ctx context.Context, cmd *cobra.Command, flags rootFlags) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.Store.BaseURL = flags.baseURL
	}
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL = flags.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	rt := &env{cfg: cfg, logger: logger, closeLog: closeLog, metrics: metrics.New()}

	rt.exporter, err = trace.NewOTLPExporter(ctx)
	if err != nil {
		// Tracing is optional; keep going without it.
		logger.Warn("otlp exporter disabled", zap.Error(err))
	}

	if cfg.Metrics.Addr != "" {
		rt.serveMetrics(cfg.Metrics.Addr)
	}
	return rt, nil
}

func (rt *env) serveMetrics(addr string) {
	r := chi.NewRouter()
	r.Handle("/metrics", rt.metrics.Handler())
	rt.server = &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := rt.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Error("metrics listener stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	rt.logger.Info("serving metrics", zap.String("addr", addr))
}

func (rt *env) storeOptions() []store.Option {
	return []store.Option{
		store.WithTimeout(rt.cfg.Store.Timeout),
		store.WithLogger(rt.logger),
		store.WithTracerProvider(rt.exporter.TracerProvider()),
		store.WithMetrics(rt.metrics),
	}
}

func (rt *env) storeClient() (*store.Client, error) {
	return store.NewClient(rt.cfg.Store.BaseURL, rt.storeOptions()...)
}

func (rt *env) collection() (*store.Collection, error) {
	return store.NewCollection(rt.cfg.API.BaseURL, rt.storeOptions()...)
}

func (rt *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if rt.server != nil {
		_ = rt.server.Shutdown(ctx)
	}
	if err := rt.exporter.Shutdown(ctx); err != nil {
		rt.logger.Warn("flush traces failed", zap.Error(err))
	}
	_ = rt.closeLog()
}
