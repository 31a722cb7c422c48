package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"carprice/internal/common/errors"
	"carprice/internal/common/logger"
	"carprice/internal/common/metrics"
	"carprice/internal/common/observability"
)

// Response field names of the first prediction.
const (
	FieldPredictedPrice  = "predicted_price"
	FieldUpperBound      = "upper_bound"
	FieldTimeTaken       = "time_taken"
	FieldPredictionGraph = "prediction_graph"
)

const defaultNoPredictionsDetail = "No predictions found."

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
	obs     *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prediction configuration: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json", "")
	}
	log = log.WithFields(map[string]interface{}{"component": "prediction"})

	obs := opts.Observability
	if obs == nil {
		obs = observability.Noop()
	}

	return &Handler{
		config:  cfg,
		logger:  log,
		service: NewService(ServiceDependencies{Logger: log, Client: opts.Client}, cfg),
		obs:     obs,
	}, nil
}

// Predict runs one request through validation, dispatch and extraction.
// It never returns an error: failures come back as a Result with
// Succeeded=false and a user-facing message.
func (h *Handler) Predict(ctx context.Context, fv FeatureVector) *Result {
	result, _ := h.run(ctx, fv)
	return result
}

// Execute is the job-worker entry. Rejected input and transport failures
// surface as StandardErrors so the workflow can route them; an empty
// prediction batch is a completed job with Succeeded=false.
func (h *Handler) Execute(ctx context.Context, fv FeatureVector) (*Result, error) {
	result, err := h.run(ctx, fv)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Handler) run(ctx context.Context, fv FeatureVector) (*Result, error) {
	start := time.Now()
	h.logger.Debug("prediction state", map[string]interface{}{"state": string(StateValidating)})

	req, err := BuildRequest(fv)
	if err != nil {
		h.logger.Info("prediction input rejected", map[string]interface{}{"error": err})
		return h.finish(ctx, start, &Result{
			State:     StateInvalid,
			Message:   "Error: " + errorDetail(err),
			ErrorCode: string(errors.Normalize(err).Code),
		}), err
	}

	h.logger.Debug("prediction state", map[string]interface{}{"state": string(StateDispatched)})
	resp, err := h.service.Send(ctx, req)
	if err != nil {
		return h.finish(ctx, start, &Result{
			State:     StateFailedTransport,
			Message:   fmt.Sprintf("Prediction error: %s", errorDetail(err)),
			ErrorCode: string(errors.Normalize(err).Code),
		}), err
	}

	result := Extract(resp)
	result.RequestID = resp.RequestID
	return h.finish(ctx, start, result), nil
}

func (h *Handler) finish(ctx context.Context, start time.Time, result *Result) *Result {
	elapsed := time.Since(start)
	outcome := outcomeFor(result.State)

	metrics.PredictionsTotal.WithLabelValues(outcome).Inc()
	if result.State != StateInvalid {
		metrics.PredictionDuration.Observe(elapsed.Seconds())
	}
	h.obs.RecordPrediction(ctx, elapsed, outcome)

	fields := map[string]interface{}{
		"state":      string(result.State),
		"requestId":  result.RequestID,
		"durationMs": elapsed.Milliseconds(),
	}
	if result.Succeeded {
		if result.PredictedPrice != nil {
			fields["predictedPrice"] = *result.PredictedPrice
		}
		h.logger.Info("prediction completed", fields)
	} else {
		fields["message"] = result.Message
		h.logger.Warn("prediction failed", fields)
	}
	h.logger.Debug("prediction state", map[string]interface{}{"state": string(StateIdle)})
	return result
}

// Extract unpacks the first prediction. An empty batch yields a failed
// result carrying the remote error detail. Fields the remote omits stay nil,
// the point estimate included.
func Extract(resp *Response) *Result {
	if resp == nil || len(resp.Predictions) == 0 {
		detail := defaultNoPredictionsDetail
		if resp != nil && resp.Error != "" {
			detail = resp.Error
		}
		empty := errors.NewNoPredictionsError(detail)
		return &Result{
			State:     StateFailedEmpty,
			Message:   fmt.Sprintf("Error: %s. Details: %s", empty.Message, empty.Details),
			ErrorCode: string(empty.Code),
		}
	}

	p := resp.Predictions[0]
	result := &Result{
		State:          StateSucceeded,
		PredictedPrice: toFloat(p[FieldPredictedPrice]),
		UpperBound:     toFloat(p[FieldUpperBound]),
		TimeTaken:      toFloat(p[FieldTimeTaken]),
	}
	if g, ok := p[FieldPredictionGraph].(string); ok && g != "" {
		result.PredictionGraph = &g
	}
	result.Succeeded = true
	return result
}

func toFloat(v interface{}) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// errorDetail is the user-facing part of err.
func errorDetail(err error) string {
	stdErr, ok := errors.AsStandard(err)
	if !ok {
		return err.Error()
	}
	if stdErr.Code == errors.ErrCodeValidation {
		return stdErr.Message
	}
	if stdErr.Details != "" {
		return stdErr.Details
	}
	return stdErr.Message
}

func outcomeFor(state State) string {
	switch state {
	case StateSucceeded:
		return metrics.OutcomeSucceeded
	case StateInvalid:
		return metrics.OutcomeInvalid
	case StateFailedEmpty:
		return metrics.OutcomeFailedEmpty
	default:
		return metrics.OutcomeFailedTransport
	}
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
