// internal/submission/sink.go
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "inverter-savings/internal/common/errors"
	commonhttp "inverter-savings/internal/common/http"
	"inverter-savings/internal/models"
)

// DefaultTimeout bounds a single sink call.
const DefaultTimeout = 10 * time.Second

const LeadsPath = "/api/leads"

// LeadSink delivers one payload. Implementations must report failures as
// *apperrors.StandardError with code NETWORK_ERROR, VALIDATION_ERROR or
// SERVER_ERROR, and must treat a repeated LeadID as the same lead.
type LeadSink interface {
	Send(ctx context.Context, payload models.LeadPayload) (*models.LeadConfirmation, error)
}

// HTTPSink posts leads to POST {baseURL}/api/leads.
type HTTPSink struct {
	baseURL string
	timeout time.Duration
	client  *commonhttp.Client
}

func NewHTTPSink(baseURL string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  commonhttp.NewClient(timeout),
	}
}

// NewHTTPSinkWithClient is NewHTTPSink with a caller supplied client.
func NewHTTPSinkWithClient(baseURL string, timeout time.Duration, hc *http.Client) *HTTPSink {
	s := NewHTTPSink(baseURL, timeout)
	s.client = commonhttp.NewClientWithHTTP(hc)
	return s
}

func (s *HTTPSink) Send(ctx context.Context, payload models.LeadPayload) (*models.LeadConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.PostJSON(ctx, s.baseURL+LeadsPath, payload, map[string]string{
		"Idempotency-Key": payload.LeadID,
	})
	if err != nil {
		return nil, apperrors.NewNetworkError(err)
	}

	return classify(resp, payload.LeadID)
}

func classify(resp *commonhttp.Response, leadID string) (*models.LeadConfirmation, error) {
	var body models.SinkResponse
	decodeErr := json.Unmarshal(resp.Body, &body)

	switch {
	case resp.StatusCode >= 500:
		return nil, apperrors.NewServerError(resp.StatusCode, bodyMessage(body, decodeErr, resp))
	case resp.StatusCode >= 400:
		return nil, apperrors.NewValidationError(bodyMessage(body, decodeErr, resp)).
			WithMetadata("statusCode", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apperrors.NewServerError(resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if decodeErr != nil {
		return nil, apperrors.NewServerError(resp.StatusCode, fmt.Sprintf("undecodable response body: %v", decodeErr))
	}
	if !body.Success {
		msg := body.Message
		if msg == "" {
			msg = "lead sink reported success=false"
		}
		return nil, apperrors.NewValidationError(msg).WithMetadata("statusCode", resp.StatusCode)
	}

	conf := &models.LeadConfirmation{
		LeadID:  leadID,
		Message: body.Message,
		Data:    body.Data,
	}
	if id, ok := body.Data["leadId"].(string); ok && id != "" {
		conf.LeadID = id
	}
	if dup, ok := body.Data["duplicate"].(bool); ok {
		conf.Duplicate = dup
	}
	return conf, nil
}

func bodyMessage(body models.SinkResponse, decodeErr error, resp *commonhttp.Response) string {
	if decodeErr == nil && body.Message != "" {
		return body.Message
	}
	text := strings.TrimSpace(string(resp.Body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
