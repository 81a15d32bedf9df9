package zoho

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() models.LeadPayload {
	return models.LeadPayload{
		LeadID: "LEAD-1709285400000-ABCDEF123",
		Source: models.LeadSource,
		Company: models.PayloadCompany{
			Name: "Acme Holdings", OfficeSize: 12000, ACUnits: 25, CurrentACType: models.ACTypeNonInverter,
		},
		Consumption:      models.PayloadConsumption{MonthlyBill: 250000, OperatingHours: 10, CurrentUsage: 11250, ProjectedUsage: 6750},
		ProjectedSavings: models.PayloadSavings{Monthly: 100000, Yearly: 1200000, FiveYear: 6000000, SavingsPercentage: 40, CO2Reduction: 27000},
		Contact:          models.PayloadContact{Email: "cfo@acme.com", Phone: "+94771234567"},
		LeadScore:        100,
		Priority:         models.PriorityHigh,
	}
}

func TestCRMClient_Send_Insert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/Leads/upsert", r.URL.Path)
		assert.Equal(t, "Zoho-oauthtoken token-123", r.Header.Get("Authorization"))

		var body struct {
			Data                 []Lead   `json:"data"`
			DuplicateCheckFields []string `json:"duplicate_check_fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, []string{"Lead_Reference"}, body.DuplicateCheckFields)
		assert.Equal(t, "LEAD-1709285400000-ABCDEF123", body.Data[0].LeadReference)
		assert.Equal(t, "HIGH", body.Data[0].Rating)
		assert.Equal(t, 1200000.0, body.Data[0].ProjectedSavings)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","action":"insert","details":{"id":"5843"},"message":"record added","status":"success"}]}`))
	}))
	defer srv.Close()

	client := NewCRMClient("", "token-123").WithBaseURL(srv.URL + "/crm/v3")
	conf, err := client.Send(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, "LEAD-1709285400000-ABCDEF123", conf.LeadID)
	assert.False(t, conf.Duplicate)
	assert.Equal(t, "5843", conf.Data["crmId"])
}

func TestCRMClient_Send_UpdateIsDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","action":"update","details":{"id":"5843"},"message":"record updated","status":"success"}]}`))
	}))
	defer srv.Close()

	conf, err := NewCRMClient("", "t").WithBaseURL(srv.URL).Send(context.Background(), testPayload())
	require.NoError(t, err)
	assert.True(t, conf.Duplicate)
}

func TestCRMClient_Send_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperrors.ErrorCode
	}{
		{"server", http.StatusInternalServerError, `{}`, apperrors.ErrCodeServerError},
		{"unauthorized", http.StatusUnauthorized, `{"code":"INVALID_TOKEN"}`, apperrors.ErrCodeValidationError},
		{"record error", http.StatusOK, `{"data":[{"code":"MANDATORY_NOT_FOUND","status":"error","message":"required field not found"}]}`, apperrors.ErrCodeValidationError},
		{"empty data", http.StatusOK, `{"data":[]}`, apperrors.ErrCodeServerError},
		{"garbage", http.StatusOK, `oops`, apperrors.ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewCRMClient("", "t").WithBaseURL(srv.URL).Send(context.Background(), testPayload())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestCRMClient_Send_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewCRMClient("", "t").WithBaseURL(url).Send(context.Background(), testPayload())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestCRMClient_Send_LargeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 4<<20)))
	}))
	defer srv.Close()

	_, err := NewCRMClient("", "t").WithBaseURL(srv.URL).Send(context.Background(), testPayload())
	require.ErrorIs(t, err, apperrors.ErrServer)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.LessOrEqual(t, len(stdErr.Details), 1024)
}

func TestCRMClient_WithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewCRMClient("", "t").WithBaseURL(srv.URL).WithTimeout(20*time.Millisecond).
		Send(context.Background(), testPayload())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}
