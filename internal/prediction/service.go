package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"carprice/internal/common/errors"
	httpclient "carprice/internal/common/http"
	"carprice/internal/common/logger"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response is echoed into the error.
const maxErrorBody = 512

type Service struct {
	config *Config
	logger logger.Logger
	client *httpclient.Client
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	client := deps.Client
	if client == nil {
		client = httpclient.NewClient(cfg.Timeout)
	}
	return &Service{
		config: cfg,
		logger: deps.Logger,
		client: client,
	}
}

// Send posts the batch to the endpoint and decodes the reply. It blocks until
// the response arrives, ctx ends or the transport fails. Non-2xx replies and
// transport failures are RemoteErrors; nothing is retried.
func (s *Service) Send(ctx context.Context, req *Request) (*Response, error) {
	requestID := uuid.New().String()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.PredictURL(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	s.logger.Debug("dispatching prediction request", map[string]interface{}{
		"requestId": requestID,
		"endpoint":  s.config.EndpointName(),
		"instances": req.Instances,
	})

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("prediction transport failure", map[string]interface{}{
			"requestId": requestID,
			"error":     err,
		})
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewRemoteTimeoutError(err)
		}
		return nil, errors.NewRemoteError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.NewRemoteError(fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	var out Response
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, errors.NewRemoteError(fmt.Errorf("decode response: %w", err))
	}

	out.RequestID = requestID
	return &out, nil
}
