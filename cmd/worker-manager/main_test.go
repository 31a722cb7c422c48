package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"carprice/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubWorker string

func (s stubWorker) Register(zbc.Client) {}
func (s stubWorker) Close()              {}
func (s stubWorker) GetTaskType() string { return string(s) }

func always(error) bool { return true }

func TestRetryWithBackoff_EventuallySucceeds(t *testing.T) {
	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, always, 5, time.Millisecond, logger.NewTestLogger(t), "dial")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		return errors.New("unavailable")
	}, always, 3, time.Millisecond, logger.NewNoOpLogger(), "dial")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		return errors.New("gateway address is required")
	}, func(error) bool { return false }, 5, time.Millisecond, logger.NewNoOpLogger(), "dial")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestHealthMux(t *testing.T) {
	var ready atomic.Bool
	mux := healthMux(nil, &ready)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "stopping")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckRegistry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.NewZapAdapter(zap.New(core))

	checkRegistry("../../configs/activity-registry.json",
		[]registrable{stubWorker("prepare-dataset"), stubWorker("train-model")}, log)

	assert.Equal(t, 1, logs.FilterMessage("activity registered").Len())
	missing := logs.FilterMessage("workers missing from activity registry").All()
	require.Len(t, missing, 1)
	assert.Equal(t, []interface{}{"train-model"}, missing[0].ContextMap()["taskTypes"])

	checkRegistry("does-not-exist.json", nil, log)
	assert.Equal(t, 1, logs.FilterMessage("activity registry unavailable").Len())
}
