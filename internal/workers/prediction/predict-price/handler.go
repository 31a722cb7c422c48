package predictprice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carprice/internal/common/camunda"
	"carprice/internal/common/config"
	"carprice/internal/common/errors"
	"carprice/internal/common/logger"
	"carprice/internal/common/metrics"
	"carprice/internal/prediction"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const TaskType = "predict-price"

type Handler struct {
	config       *Config
	logger       logger.Logger
	predictor    Predictor
	errorHandler *errors.ErrorHandler
	jobWorker    *camunda.Worker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Predictor    Predictor
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Predictor == nil {
		return nil, fmt.Errorf("%s requires a predictor", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json", "")
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       log,
		predictor:    opts.Predictor,
		errorHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing price prediction", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	fv, err := parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, fv)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output.ToVariables()); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute predicts one vector. Input and transport errors are returned; an
// empty prediction batch is a successful call with Succeeded=false.
func (h *Handler) Execute(ctx context.Context, fv prediction.FeatureVector) (*Output, error) {
	result, err := h.predictor.Execute(ctx, fv)
	if err != nil {
		return nil, err
	}
	return &Output{Result: result}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// parseInput keeps numeric variables as json.Number so identifiers beyond
// float64 precision reach validation unchanged.
func parseInput(job entities.Job) (prediction.FeatureVector, error) {
	variables, err := prediction.DecodeFeatureMap(job.GetVariables())
	if err != nil {
		return prediction.FeatureVector{}, errors.NewValidationError("variables", "Failed to parse job variables: "+err.Error())
	}

	if result := ValidateVariables(variables); !result.Valid {
		return prediction.FeatureVector{}, errors.NewValidationError("variables", "Input validation failed: "+strings.Join(result.GetErrorMessages(), "; "))
	}
	return prediction.FeaturesFromMap(variables)
}

// Register opens the job subscription unless the worker is disabled.
func (h *Handler) Register(client zbc.Client) {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", nil)
		return
	}
	h.jobWorker = camunda.OpenWorker(client, camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}, h, h.logger)
}

func (h *Handler) Close() {
	h.jobWorker.Close()
	h.jobWorker = nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}
