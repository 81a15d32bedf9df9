package submission

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() models.LeadPayload {
	record := &models.LeadRecord{
		LeadID:      "LEAD-1709285400000-ABCDEF123",
		SubmittedAt: fixedNow,
		Source:      models.LeadSource,
		Contact:     sampleContact(),
		Score:       100,
		Priority:    models.PriorityHigh,
	}
	record.Input, record.Consumption, record.Savings = sampleInput()
	return record.Payload()
}

func TestHTTPSink_Send_Success(t *testing.T) {
	var mu sync.Mutex
	var gotKey string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/leads", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get("Idempotency-Key")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Lead captured","data":{"leadId":"LEAD-1709285400000-ABCDEF123","crmId":"z-1"}}`))
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL+"/", time.Second)
	conf, err := sink.Send(context.Background(), samplePayload())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "LEAD-1709285400000-ABCDEF123", gotKey)
	assert.Equal(t, "LEAD-1709285400000-ABCDEF123", conf.LeadID)
	assert.Equal(t, "Lead captured", conf.Message)
	assert.Equal(t, "z-1", conf.Data["crmId"])
	assert.False(t, conf.Duplicate)

	company := gotBody["company"].(map[string]interface{})
	assert.Equal(t, "Acme Holdings", company["name"])
	assert.Equal(t, "NON_INVERTER", company["currentACType"])
	savings := gotBody["projectedSavings"].(map[string]interface{})
	assert.Equal(t, 1200000.0, savings["yearly"])
	assert.Equal(t, "HIGH", gotBody["priority"])
}

func TestHTTPSink_Send_EchoesLeadIDWhenAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"duplicate":true}}`))
	}))
	defer srv.Close()

	conf, err := NewHTTPSink(srv.URL, time.Second).Send(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "LEAD-1709285400000-ABCDEF123", conf.LeadID)
	assert.True(t, conf.Duplicate)
}

func TestHTTPSink_Send_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperrors.ErrorCode
	}{
		{"500", http.StatusInternalServerError, `{"success":false,"message":"db down"}`, apperrors.ErrCodeServerError},
		{"502 html", http.StatusBadGateway, `<html>bad gateway</html>`, apperrors.ErrCodeServerError},
		{"400", http.StatusBadRequest, `{"success":false,"message":"email required"}`, apperrors.ErrCodeValidationError},
		{"422 empty", http.StatusUnprocessableEntity, ``, apperrors.ErrCodeValidationError},
		{"200 success false", http.StatusOK, `{"success":false,"message":"duplicate contact"}`, apperrors.ErrCodeValidationError},
		{"200 garbage", http.StatusOK, `not json`, apperrors.ErrCodeServerError},
		{"304", http.StatusNotModified, ``, apperrors.ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			conf, err := NewHTTPSink(srv.URL, time.Second).Send(context.Background(), samplePayload())
			assert.Nil(t, conf)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestHTTPSink_Send_ServerErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSink(srv.URL, time.Second).Send(context.Background(), samplePayload())
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, stdErr.Metadata["statusCode"])
	assert.True(t, stdErr.Retryable)
}

func TestHTTPSink_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPSink(srv.URL, 50*time.Millisecond).Send(context.Background(), samplePayload())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestHTTPSink_Send_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSink(url, time.Second).Send(context.Background(), samplePayload())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestHTTPSink_Send_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSink(srv.URL, time.Second).Send(ctx, samplePayload())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.True(t, errors.Is(err, context.Canceled))
}

// Scenario: the sink answers 5xx, the caller keeps the record and retries
// once the sink recovers.
func TestCoordinator_ServerErrorThenResubmit(t *testing.T) {
	var mu sync.Mutex
	healthy := false
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer srv.Close()

	c := newTestCoordinator(t, NewHTTPSink(srv.URL, time.Second))
	input, consumption, savings := sampleInput()

	conf, err := c.SubmitLead(context.Background(), sampleContact(), input, consumption, savings)
	assert.Nil(t, conf)
	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, KindServer, subErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, subErr.StatusCode)

	mu.Lock()
	healthy = true
	mu.Unlock()

	conf, err = c.Resubmit(context.Background(), subErr.Record)
	require.NoError(t, err)
	assert.Equal(t, subErr.LeadID, conf.LeadID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{subErr.LeadID, subErr.LeadID}, keys)
}
