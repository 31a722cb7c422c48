// Package errors provides the standardized error taxonomy shared by the
// preparation CLI, the prediction client and the workflow workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Data preparation
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeSchema             ErrorCode = "SCHEMA_ERROR"
	ErrCodeDatasetReadFailed  ErrorCode = "DATASET_READ_FAILED"
	ErrCodeDatasetWriteFailed ErrorCode = "DATASET_WRITE_FAILED"

	// Prediction
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRemote        ErrorCode = "REMOTE_ERROR"
	ErrCodeRemoteTimeout ErrorCode = "REMOTE_TIMEOUT"
	ErrCodeNoPredictions ErrorCode = "NO_PREDICTIONS"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Fatal reports whether the error must terminate a CLI run.
func (e *StandardError) Fatal() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeSchema
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewNotFoundError reports a dataset path that does not resolve.
func NewNotFoundError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Input file not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSchemaError reports a column missing after normalization.
func NewSchemaError(column string, available []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchema,
		Message:   fmt.Sprintf("Column '%s' not found after renaming", column),
		Details:   fmt.Sprintf("available columns: %s", strings.Join(available, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"column": column},
		Timestamp: time.Now().UTC(),
	}
}

func NewDatasetReadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetReadFailed,
		Message:   "Failed to read dataset",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewDatasetWriteError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetWriteFailed,
		Message:   "Failed to write dataset",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationError reports a feature field that failed basic coercion.
// The message is shown to the user as-is.
func NewValidationError(field, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteError reports a failed scoring call.
func NewRemoteError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemote,
		Message:   "Prediction endpoint call failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewRemoteTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteTimeout,
		Message:   "Prediction endpoint timeout",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNoPredictionsError reports a response that carried zero predictions.
func NewNoPredictionsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoPredictions,
		Message:   "No predictions found in response",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeNotFound:           "DATASET_NOT_FOUND",
	ErrCodeSchema:             "DATASET_SCHEMA_INVALID",
	ErrCodeDatasetReadFailed:  "DATASET_READ_FAILED",
	ErrCodeDatasetWriteFailed: "DATASET_WRITE_FAILED",
	ErrCodeValidation:         "FEATURES_INVALID",
	ErrCodeRemote:             "PREDICTION_FAILED",
	ErrCodeRemoteTimeout:      "PREDICTION_TIMEOUT",
	ErrCodeNoPredictions:      "PREDICTION_EMPTY",
}

// GetRetryCount returns the retry budget for a code. Only local write
// failures are retried; remote scoring calls never are.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatasetWriteFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard extracts a *StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// Normalize always returns a StandardError, wrapping foreign errors as internal.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "DATASET") || code == ErrCodeNotFound || code == ErrCodeSchema:
		return "DATASET"
	case strings.HasPrefix(codeStr, "REMOTE") || code == ErrCodeNoPredictions:
		return "REMOTE"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
