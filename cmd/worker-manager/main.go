// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"promptstudio-workers/internal/api"
	"promptstudio-workers/internal/common/camunda"
	"promptstudio-workers/internal/common/config"
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/observability"
	"promptstudio-workers/internal/common/promptstudio"

	ld "promptstudio-workers/internal/workers/promptstudio/load-deployments"
	mc "promptstudio-workers/internal/workers/promptstudio/mapping-columns"
	rd "promptstudio-workers/internal/workers/promptstudio/run-deployment"
	sr "promptstudio-workers/internal/workers/promptstudio/search-recipes"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("broker", cfg.Camunda.BrokerAddress),
		zap.String("promptStudio", cfg.PromptStudio.BaseURL),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		Logger:         log,
	})

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientFromConfig(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	psClient := promptstudio.NewClient(cfg.PromptStudio.BaseURL, cfg.PromptStudio.APIKey, cfg.PromptStudio.ClientTimeout())

	// --- Build Workers ---
	searchRecipes, err := sr.NewHandler(sr.HandlerOptions{AppConfig: cfg, Camunda: zeebe, Logger: log, Observability: obs, Client: psClient})
	if err != nil {
		zapLog.Fatal("failed to create search-recipes handler", zap.Error(err))
	}
	loadDeployments, err := ld.NewHandler(ld.HandlerOptions{AppConfig: cfg, Camunda: zeebe, Logger: log, Observability: obs})
	if err != nil {
		zapLog.Fatal("failed to create load-deployments handler", zap.Error(err))
	}
	mappingColumns, err := mc.NewHandler(mc.HandlerOptions{AppConfig: cfg, Camunda: zeebe, Logger: log, Observability: obs})
	if err != nil {
		zapLog.Fatal("failed to create mapping-columns handler", zap.Error(err))
	}
	runDeployment, err := rd.NewHandler(rd.HandlerOptions{AppConfig: cfg, Camunda: zeebe, Logger: log, Observability: obs, Client: psClient})
	if err != nil {
		zapLog.Fatal("failed to create run-deployment handler", zap.Error(err))
	}

	manager := camunda.NewManager(log, searchRecipes, loadDeployments, mappingColumns, runDeployment)
	if err := manager.Start(); err != nil {
		zapLog.Fatal("failed to start workers", zap.Error(err))
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", manager.TaskTypes()))

	// --- Health, Metrics & Options API Server ---
	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := manager.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())
	if cfg.Server.APIToken != "" {
		api.NewServer(psClient, cfg.Server.APIToken, log).RegisterRoutes(router)
	} else {
		zapLog.Warn("OPTIONS_API_TOKEN not set, options API disabled")
	}

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
