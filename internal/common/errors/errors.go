// Package errors provides the standardized error type shared by the engine and the job workers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Engine errors
const (
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeDivisionUndefined ErrorCode = "DIVISION_UNDEFINED"
	ErrCodeNetworkError      ErrorCode = "NETWORK_ERROR"
	ErrCodeValidationError   ErrorCode = "VALIDATION_ERROR"
	ErrCodeServerError       ErrorCode = "SERVER_ERROR"
)

// Worker and integration errors
const (
	ErrCodeInputParsingFailed   ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeSubmissionInProgress ErrorCode = "SUBMISSION_IN_PROGRESS"
	ErrCodeGateUnavailable      ErrorCode = "SUBMISSION_GATE_UNAVAILABLE"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on Code so the sentinels below work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e after setting key on its metadata map.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidInput         = &StandardError{Code: ErrCodeInvalidInput}
	ErrDivisionUndefined    = &StandardError{Code: ErrCodeDivisionUndefined}
	ErrNetwork              = &StandardError{Code: ErrCodeNetworkError}
	ErrValidation           = &StandardError{Code: ErrCodeValidationError}
	ErrServer               = &StandardError{Code: ErrCodeServerError}
	ErrSubmissionInProgress = &StandardError{Code: ErrCodeSubmissionInProgress}
)

// NewInvalidInputError is raised before any computation; never retryable.
func NewInvalidInputError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid calculation input",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewDivisionUndefinedError signals a zero current-consumption denominator.
func NewDivisionUndefinedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDivisionUndefined,
		Message:   "Savings percentage is undefined",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError covers transport failures and timeouts talking to the sink.
func NewNetworkError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkError,
		Message:   "Lead sink unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewValidationError means the sink rejected the payload.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationError,
		Message:   "Lead sink rejected the payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewServerError means the sink failed on its side.
func NewServerError(statusCode int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServerError,
		Message:   "Lead sink failure",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"statusCode": statusCode},
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSubmissionInProgressError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionInProgress,
		Message:   "A submission for this session is already pending",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewGateUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGateUnavailable,
		Message:   "Submission gate unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// AsStandardError unwraps err to a *StandardError if one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in err's chain.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// Normalize always yields a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// PublicMessage is the text shown to end users; internal detail never leaks.
func PublicMessage(err error) string {
	switch CodeOf(err) {
	case ErrCodeInvalidInput, ErrCodeDivisionUndefined:
		return "Please check the values you entered and try again."
	case ErrCodeSubmissionInProgress:
		return "Your request is already being processed."
	default:
		return "Something went wrong. Please try again."
	}
}

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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// BPMNErrorMapping maps internal codes to the error codes modelled in the process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:         "INVALID_INPUT",
	ErrCodeDivisionUndefined:    "INVALID_INPUT",
	ErrCodeNetworkError:         "LEAD_SINK_UNAVAILABLE",
	ErrCodeServerError:          "LEAD_SINK_UNAVAILABLE",
	ErrCodeValidationError:      "LEAD_REJECTED",
	ErrCodeInputParsingFailed:   "INVALID_INPUT",
	ErrCodeSubmissionInProgress: "SUBMISSION_IN_PROGRESS",
	ErrCodeGateUnavailable:      "LEAD_SINK_UNAVAILABLE",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeServerError:
		return 3
	case ErrCodeNetworkError, ErrCodeGateUnavailable:
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
	case code == ErrCodeInvalidInput || code == ErrCodeDivisionUndefined:
		return "CALCULATION"
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "SERVER"):
		return "SINK"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SUBMISSION"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
