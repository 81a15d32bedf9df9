package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelsMatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("send lead: %w", NewServerError(503, "maintenance"))

	assert.ErrorIs(t, wrapped, ErrServer)
	assert.NotErrorIs(t, wrapped, ErrNetwork)
	assert.Equal(t, ErrCodeServerError, CodeOf(wrapped))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 503, stdErr.Metadata["statusCode"])
	assert.True(t, stdErr.Retryable)
}

func TestNetworkErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewNetworkError(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "NETWORK_ERROR")
}

func TestNormalize(t *testing.T) {
	plain := errors.New("boom")
	n := Normalize(plain)
	assert.Equal(t, ErrCodeInternal, n.Code)
	assert.False(t, n.Retryable)
	assert.ErrorIs(t, n, plain)

	v := NewValidationError("bad email")
	assert.Same(t, v, Normalize(v))
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewInvalidInputError("acUnitCount", "must be at least 1"), "Please check the values you entered and try again."},
		{NewDivisionUndefinedError("zero consumption"), "Please check the values you entered and try again."},
		{NewSubmissionInProgressError("s-1"), "Your request is already being processed."},
		{NewServerError(500, "stack trace here"), "Something went wrong. Please try again."},
		{errors.New("internal detail"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		got := PublicMessage(tt.err)
		assert.Equal(t, tt.want, got)
		assert.NotContains(t, got, "stack trace")
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable server error", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewServerError(502, "bad gateway"))
		assert.Equal(t, "LEAD_SINK_UNAVAILABLE", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "SERVER_ERROR", bpmn.ErrorVariables["originalErrorCode"])
		assert.Equal(t, 502, bpmn.ErrorVariables["statusCode"])

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "LEAD_SINK_UNAVAILABLE", vars["errorCode"])
		assert.Equal(t, true, vars["retryable"])
	})

	t.Run("invalid input is never retried", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInvalidInputError("monthlyBillAmount", "must not be negative"))
		assert.Equal(t, "INVALID_INPUT", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)
		assert.Equal(t, "monthlyBillAmount", bpmn.ErrorVariables["field"])
	})

	t.Run("unmapped code passes through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(Normalize(errors.New("boom")))
		assert.Equal(t, "INTERNAL_ERROR", bpmn.Code)
	})
}

func TestErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeInvalidInput:         "CALCULATION",
		ErrCodeDivisionUndefined:    "CALCULATION",
		ErrCodeNetworkError:         "SINK",
		ErrCodeServerError:          "SINK",
		ErrCodeValidationError:      "VALIDATION",
		ErrCodeInputParsingFailed:   "VALIDATION",
		ErrCodeSubmissionInProgress: "WORKFLOW",
		ErrCodeInternal:             "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}

	assert.True(t, IsRetryableErrorCode(ErrCodeGateUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationError))
}
