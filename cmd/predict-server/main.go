// Command predict-server serves the car price form and JSON API in front of
// the hosted prediction endpoint.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carprice/internal/common/config"
	"carprice/internal/common/database"
	httpclient "carprice/internal/common/http"
	"carprice/internal/common/logger"
	"carprice/internal/common/observability"
	"carprice/internal/dataprep"
	"carprice/internal/prediction"
	"carprice/internal/web"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml)")
	dataset := flag.String("dataset", "", "cleaned CSV for the dropdowns (default: derived from dataset.input_path)")
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

	if err := cfg.ValidatePlatform(); err != nil {
		zapLog.Fatal("platform configuration incomplete", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New("predict-server")
	defer obs.Shutdown()

	predictorCfg := prediction.ConfigFromAppConfig(cfg)
	client := httpclient.NewClient(predictorCfg.Timeout)
	if predictorCfg.CredentialsFile != "" {
		client, err = httpclient.NewServiceAccountClient(ctx, predictorCfg.CredentialsFile, predictorCfg.Timeout)
		if err != nil {
			zapLog.Fatal("credentials load failed", zap.Error(err))
		}
	} else {
		zapLog.Warn("no credentials file configured, calling the endpoint unauthenticated")
	}

	predictor, err := prediction.NewHandler(prediction.HandlerOptions{
		Config:        predictorCfg,
		Logger:        log,
		Client:        client,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("prediction client init failed", zap.Error(err))
	}

	choices := loadChoices(ctx, cfg, *dataset, log, zapLog)

	server := web.NewServer(web.Options{
		Predictor: predictor,
		Choices:   choices,
		Logger:    log,
		Mode:      cfg.Server.Mode,
	})
	if err := server.Run(ctx, cfg.Server.Address); err != nil {
		zapLog.Fatal("http server failed", zap.Error(err))
	}
	zapLog.Info("predict-server stopped")
}

// loadChoices reads the dropdown values once at startup. A missing dataset
// leaves the form with free-text inputs.
func loadChoices(ctx context.Context, cfg *config.Config, path string, log logger.Logger, zapLog *zap.Logger) map[string][]string {
	if path == "" && cfg.Dataset.InputPath != "" {
		path = dataprep.OutputPath(cfg.Dataset.InputPath, cfg.Dataset.OutputSuffix)
	}
	if path == "" {
		zapLog.Warn("no dataset configured, dropdowns will be empty")
		return nil
	}

	var cache web.ChoiceCache
	if cfg.Cache.Address != "" {
		redis, err := database.NewRedis(cfg.Cache)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err = redis.Ping(pingCtx)
			cancel()
		}
		if err != nil {
			zapLog.Warn("choice cache unavailable", zap.Error(err))
		} else {
			defer redis.Close()
			cache = redis
		}
	}

	choices, err := web.LoadChoices(ctx, path, cache, time.Duration(cfg.Cache.TTL)*time.Second, log)
	if err != nil {
		zapLog.Warn("choice lists unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return choices
}
