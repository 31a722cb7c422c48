package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carprice/internal/common/camunda"
	"carprice/internal/common/config"
	httpclient "carprice/internal/common/http"
	"carprice/internal/common/logger"
	"carprice/internal/common/observability"
	"carprice/internal/prediction"

	pd "carprice/internal/workers/dataset/prepare-dataset"
	pp "carprice/internal/workers/prediction/predict-price"
	"carprice/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// Errors that retryable rejects end the loop early.
func retryWithBackoff(operation func() error, retryable func(error) bool, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if !retryable(err) {
			return fmt.Errorf("%s failed: %w", operationName, err)
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type registrable interface {
	Register(client zbc.Client)
	Close()
	GetTaskType() string
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml)")
	healthAddr := flag.String("health-addr", ":8080", "address of the health and metrics listener")
	registryPath := flag.String("registry", "configs/activity-registry.json", "activity catalogue checked against the registered workers")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("broker", cfg.Camunda.BrokerAddress))

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Workers ---
	var workers []registrable

	dataset, err := pd.NewHandler(pd.HandlerOptions{AppConfig: cfg, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create prepare-dataset handler", zap.Error(err))
	}
	workers = append(workers, dataset)

	if err := cfg.ValidatePlatform(); err != nil {
		zapLog.Warn("prediction endpoint not configured, predict-price worker disabled", zap.Error(err))
	} else {
		predictor, err := newPredictor(ctx, cfg, log, obs)
		if err != nil {
			zapLog.Fatal("failed to create prediction client", zap.Error(err))
		}
		price, err := pp.NewHandler(pp.HandlerOptions{AppConfig: cfg, Predictor: predictor, Logger: log})
		if err != nil {
			zapLog.Fatal("failed to create predict-price handler", zap.Error(err))
		}
		workers = append(workers, price)
	}

	checkRegistry(*registryPath, workers, log)

	// --- Zeebe client with retry ---
	var client *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		client, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, camunda.IsTransient, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	for _, w := range workers {
		w.Register(client.GetClient())
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	var ready atomic.Bool
	ready.Store(true)
	health := &http.Server{Addr: *healthAddr, Handler: healthMux(client, &ready)}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", *healthAddr))
		if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	ready.Store(false)
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := health.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := client.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func newPredictor(ctx context.Context, cfg *config.Config, log logger.Logger, obs *observability.Observability) (*prediction.Handler, error) {
	pcfg := prediction.ConfigFromAppConfig(cfg)

	client := httpclient.NewClient(pcfg.Timeout)
	if pcfg.CredentialsFile != "" {
		var err error
		client, err = httpclient.NewServiceAccountClient(ctx, pcfg.CredentialsFile, pcfg.Timeout)
		if err != nil {
			return nil, err
		}
	}

	return prediction.NewHandler(prediction.HandlerOptions{
		Config:        pcfg,
		Logger:        log,
		Client:        client,
		Observability: obs,
	})
}

// checkRegistry warns about workers the activity catalogue does not describe.
func checkRegistry(path string, workers []registrable, log logger.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	taskTypes := make([]string, 0, len(workers))
	for _, w := range workers {
		taskTypes = append(taskTypes, w.GetTaskType())
	}
	if missing := reg.Missing(taskTypes...); len(missing) > 0 {
		log.Warn("workers missing from activity registry", map[string]interface{}{"taskTypes": missing})
	}
	for _, tt := range taskTypes {
		if a, ok := reg.Find(tt); ok {
			log.Info("activity registered", map[string]interface{}{
				"taskType": tt,
				"name":     a.DisplayName,
				"version":  a.Version,
			})
		}
	}
}

func healthMux(client *camunda.Client, ready *atomic.Bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, "stopping")
			return
		}
		if err := client.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "broker unreachable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
