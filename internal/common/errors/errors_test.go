package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Constructors
// ==========================

func TestFatal(t *testing.T) {
	assert.True(t, NewNotFoundError("cars.csv", nil).Fatal())
	assert.True(t, NewSchemaError("CAR_PRICE", []string{"BRAND"}).Fatal())
	assert.False(t, NewDatasetWriteError("out.csv", assert.AnError).Fatal())
	assert.False(t, NewRemoteError(assert.AnError).Fatal())
}

func TestSchemaErrorListsColumns(t *testing.T) {
	err := NewSchemaError("CAR_PRICE", []string{"CAR_ID", "BRAND"})
	assert.Contains(t, err.Message, "CAR_PRICE")
	assert.Equal(t, "available columns: CAR_ID, BRAND", err.Details)
}

func TestUnwrap(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("send: %w", NewRemoteTimeoutError(cause))

	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsCode(err, ErrCodeRemoteTimeout))
	assert.False(t, IsCode(err, ErrCodeRemote))
}

// ==========================
// BPMN conversion
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name    string
		err     *StandardError
		code    string
		retries int
	}{
		{"not found", NewNotFoundError("x.csv", nil), "DATASET_NOT_FOUND", 0},
		{"write failure", NewDatasetWriteError("x.csv", assert.AnError), "DATASET_WRITE_FAILED", 2},
		{"validation", NewValidationError("CAR_ID", "CAR_ID must be a numeric value."), "FEATURES_INVALID", 0},
		{"timeout", NewRemoteTimeoutError(assert.AnError), "PREDICTION_TIMEOUT", 0},
		{"internal", NewInternalError(assert.AnError), "INTERNAL_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.code, bpmn.Code)
			assert.Equal(t, tt.retries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestToErrorVariables(t *testing.T) {
	bpmn := ConvertToBPMNError(NewNoPredictionsError("No predictions found."))
	vars := bpmn.ToErrorVariables()

	assert.Equal(t, "PREDICTION_EMPTY", vars["errorCode"])
	assert.Equal(t, "No predictions found.", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, "NO_PREDICTIONS", vars["originalErrorCode"])
}

// ==========================
// Utilities
// ==========================

func TestNormalize(t *testing.T) {
	std := NewValidationError("BRAND", "BRAND is required.")
	assert.Same(t, std, Normalize(fmt.Errorf("wrapped: %w", std)))

	internal := Normalize(assert.AnError)
	require.NotNil(t, internal)
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.ErrorIs(t, internal, assert.AnError)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATASET", GetErrorCategory(ErrCodeSchema))
	assert.Equal(t, "DATASET", GetErrorCategory(ErrCodeDatasetReadFailed))
	assert.Equal(t, "REMOTE", GetErrorCategory(ErrCodeRemoteTimeout))
	assert.Equal(t, "REMOTE", GetErrorCategory(ErrCodeNoPredictions))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidation))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))

	assert.True(t, IsRetryableErrorCode(ErrCodeDatasetWriteFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeRemote))
}
