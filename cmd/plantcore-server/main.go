// Command plantcore-server serves the plant sample CRUD API over HTTP.
// All configuration is read from the environment once at startup.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"plantcore/internal/api"
	"plantcore/internal/blob"
	"plantcore/internal/core"
	"plantcore/internal/logging"
)

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := logging.NewZap(zl)

	addr := os.Getenv("PLANTCORE_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	publicDir := os.Getenv("PLANTCORE_PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "./public"
	}
	storageCfg := core.StorageConfigFromEnv()
	blobCfg := blob.ConfigFromEnv()

	store, err := core.OpenSampleStore(storageCfg)
	if err != nil {
		logger.Error("open sample store", "driver", string(storageCfg.Driver), "error", err.Error())
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		logger.Error("register metrics", "error", err.Error())
		os.Exit(1)
	}

	service := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := blob.Open(ctx, blobCfg)
	if err != nil {
		// exports degrade to streaming only; the CRUD surface is unaffected
		logger.Warn("open blob store", "driver", string(blobCfg.Driver), "error", err.Error())
		blobs = nil
	}

	handler := api.NewHandler(service,
		api.WithLogger(logger),
		api.WithExporter(api.NewExporter(service, blobs)),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/samples", handler)
	mux.Handle("/api/samples/", handler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/", http.FileServer(http.Dir(publicDir)))

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LogRequests(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "storage", string(storageCfg.Driver))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err.Error())
		}
		logger.Info("server stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err.Error())
			os.Exit(1)
		}
	}
}
