package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobError_Variables(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		extra       map[string]interface{}
		wantCode    string
		wantMessage string
	}{
		{
			name:        "invalid input",
			err:         NewInvalidInputError("acUnitCount", "must be at least 1"),
			wantCode:    "INVALID_INPUT",
			wantMessage: "Please check the values you entered and try again.",
		},
		{
			name:        "submission in progress",
			err:         NewSubmissionInProgressError("s-1"),
			extra:       map[string]interface{}{"leadId": "lead-42"},
			wantCode:    "SUBMISSION_IN_PROGRESS",
			wantMessage: "Your request is already being processed.",
		},
		{
			name:        "raw error hides detail",
			err:         errors.New("pq: connection refused at 10.0.0.7"),
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bpmn := jobError(tt.err, tt.extra)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantMessage, bpmn.ErrorVariables["userMessage"])
			assert.NotContains(t, bpmn.ErrorVariables["userMessage"], "10.0.0.7")
			for k, v := range tt.extra {
				assert.Equal(t, v, bpmn.ErrorVariables[k])
			}
		})
	}
}
