// internal/submission/errors.go
package submission

import (
	"errors"
	"fmt"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/models"
)

type ErrorKind string

const (
	KindNetwork    ErrorKind = "NetworkError"
	KindValidation ErrorKind = "ValidationError"
	KindServer     ErrorKind = "ServerError"
)

// SubmissionError reports a failed sink call. Record is the exact record
// that was sent; pass it to Resubmit to retry under the same LeadID.
type SubmissionError struct {
	Kind       ErrorKind
	LeadID     string
	Record     *models.LeadRecord
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submit lead %s: %s (status %d): %s", e.LeadID, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("submit lead %s: %s: %s", e.LeadID, e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Retryable is true for network and server failures.
func (e *SubmissionError) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer
}

// AsSubmissionError finds a *SubmissionError in err's chain.
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr, true
	}
	return nil, false
}

func kindOf(code apperrors.ErrorCode) ErrorKind {
	switch code {
	case apperrors.ErrCodeValidationError:
		return KindValidation
	case apperrors.ErrCodeNetworkError:
		return KindNetwork
	default:
		return KindServer
	}
}

func newSubmissionError(record *models.LeadRecord, err error) *SubmissionError {
	stdErr := apperrors.Normalize(err)
	status := 0
	if v, ok := stdErr.Metadata["statusCode"].(int); ok {
		status = v
	}
	return &SubmissionError{
		Kind:       kindOf(stdErr.Code),
		LeadID:     record.LeadID,
		Record:     record,
		StatusCode: status,
		Message:    stdErr.Details,
		Err:        stdErr,
	}
}
