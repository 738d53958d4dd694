package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode defines standardized error codes for the business-search workflow.
type ErrorCode string

const (
	// Provider (geocoding / places / distance matrix / place details)
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderTimeout     ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeGeocodeNotFound     ErrorCode = "GEOCODE_NOT_FOUND"

	// Input / configuration
	ErrCodeInvalidSearchInput ErrorCode = "INVALID_SEARCH_INPUT"
	ErrCodeConfiguration      ErrorCode = "CONFIGURATION_ERROR"

	// Post-search sinks
	ErrCodeExportFailed       ErrorCode = "EXPORT_FAILED"
	ErrCodeResultStoreFailed  ErrorCode = "RESULT_STORE_FAILED"
	ErrCodeHistoryWriteFailed ErrorCode = "HISTORY_WRITE_FAILED"
	ErrCodeExportNotFound     ErrorCode = "EXPORT_NOT_FOUND"
)

// StandardError is the internal error shape returned by services and handlers.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// BPMNError is what gets thrown back to the workflow engine.
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
// Constructors
// ==========================

func NewProviderUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   fmt.Sprintf("Maps provider call '%s' failed", operation),
		Details:   err.Error(),
		Retryable: false, // no retries anywhere in the search core
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewProviderTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   fmt.Sprintf("Maps provider call '%s' timed out", operation),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewGeocodeNotFoundError(address string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeocodeNotFound,
		Message:   "Address could not be geocoded",
		Details:   fmt.Sprintf("address: %s", address),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidSearchInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSearchInput,
		Message:   "Search input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExportFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFailed,
		Message:   "Failed to build result workbook",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewResultStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultStoreFailed,
		Message:   "Failed to store search results",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewHistoryWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryWriteFailed,
		Message:   "Failed to record search history",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewExportNotFoundError(searchID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportNotFound,
		Message:   "Search export not found or expired",
		Details:   fmt.Sprintf("searchId: %s", searchID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// BPMN mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProviderUnavailable: "PROVIDER_UNAVAILABLE",
	ErrCodeProviderTimeout:     "PROVIDER_TIMEOUT",
	ErrCodeGeocodeNotFound:     "GEOCODE_NOT_FOUND",
	ErrCodeInvalidSearchInput:  "INVALID_SEARCH_INPUT",
	ErrCodeConfiguration:       "CONFIGURATION_ERROR",
	ErrCodeExportFailed:        "EXPORT_FAILED",
	ErrCodeResultStoreFailed:   "RESULT_STORE_FAILED",
	ErrCodeHistoryWriteFailed:  "HISTORY_WRITE_FAILED",
	ErrCodeExportNotFound:      "EXPORT_NOT_FOUND",
}

// GetRetryCount returns how many job retries the workflow engine should grant.
// Provider errors are never retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeExportFailed,
		ErrCodeResultStoreFailed,
		ErrCodeHistoryWriteFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3
	case "TIMEOUT_ERROR":
		return 2
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "PROVIDER") || strings.HasPrefix(codeStr, "GEOCODE"):
		return "PROVIDER"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "CONFIGURATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EXPORT") || strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "HISTORY"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
