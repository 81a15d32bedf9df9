package sinkstub

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/models"
	"inverter-savings/internal/scoring"
	"inverter-savings/internal/submission"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStub(t *testing.T) (*httptest.Server, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	srv := httptest.NewServer(NewServer(NewRedisStore(rdb, time.Hour), logger.NewTestLogger(t)).Router())
	t.Cleanup(srv.Close)
	return srv, mr
}

func testPayload(leadID string) models.LeadPayload {
	return models.LeadPayload{
		LeadID:      leadID,
		SubmittedAt: "2024-03-01T09:30:00Z",
		Source:      models.LeadSource,
		Company: models.PayloadCompany{
			Name:          "Acme Holdings",
			OfficeSize:    12000,
			ACUnits:       25,
			CurrentACType: models.ACTypeNonInverter,
		},
		Consumption: models.PayloadConsumption{MonthlyBill: 250000, OperatingHours: 10, CurrentUsage: 11250, ProjectedUsage: 6750},
		ProjectedSavings: models.PayloadSavings{
			Monthly: 100000, Yearly: 1200000, FiveYear: 6000000, SavingsPercentage: 40, CO2Reduction: 27000,
		},
		Contact:   models.PayloadContact{Email: "cfo@acme.com", Phone: "+94771234567"},
		LeadScore: 100,
		Priority:  models.PriorityHigh,
	}
}

func TestStub_SameLeadIDStoredOnce(t *testing.T) {
	srv, mr := setupStub(t)
	sink := submission.NewHTTPSink(srv.URL, time.Second)
	payload := testPayload("LEAD-1709285400000-ABCDEF123")

	first, err := sink.Send(context.Background(), payload)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	payload.LeadScore = 50
	second, err := sink.Send(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.LeadID, second.LeadID)
	assert.Equal(t, first.Data["crmId"], second.Data["crmId"])

	keys := mr.Keys()
	assert.Equal(t, []string{leadKeyPrefix + payload.LeadID}, keys)

	resp, err := http.Get(srv.URL + "/api/leads/" + payload.LeadID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored StoredLead
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	assert.Equal(t, 100, stored.Payload.LeadScore)
}

func TestStub_RejectsInvalidPayload(t *testing.T) {
	srv, mr := setupStub(t)
	sink := submission.NewHTTPSink(srv.URL, time.Second)

	payload := testPayload("LEAD-1709285400000-ABCDEF123")
	payload.Contact.Email = "broken"

	_, err := sink.Send(context.Background(), payload)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, mr.Keys())
}

func TestStub_RejectsMalformedJSON(t *testing.T) {
	srv, _ := setupStub(t)

	resp, err := http.Post(srv.URL+"/api/leads", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStub_IdempotencyKeyMismatch(t *testing.T) {
	srv, _ := setupStub(t)

	body, _ := json.Marshal(testPayload("LEAD-1709285400000-ABCDEF123"))
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "LEAD-1-OTHER0000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStub_UnknownLead(t *testing.T) {
	srv, _ := setupStub(t)

	resp, err := http.Get(srv.URL + "/api/leads/LEAD-0-NOTHERE00")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStub_StorageDown(t *testing.T) {
	srv, mr := setupStub(t)
	mr.Close()

	_, err := submission.NewHTTPSink(srv.URL, 5*time.Second).Send(context.Background(), testPayload("LEAD-1709285400000-ABCDEF123"))
	assert.ErrorIs(t, err, apperrors.ErrServer)
}

// A coordinator retry against the stub lands on the same record.
func TestStub_CoordinatorResubmitIsIdempotent(t *testing.T) {
	srv, mr := setupStub(t)

	scorer, err := scoring.New(scoring.DefaultPolicy(), nil)
	require.NoError(t, err)
	c := submission.NewCoordinator(submission.Config{}, submission.NewHTTPSink(srv.URL, time.Second), scorer, logger.NewTestLogger(t))

	record, err := c.BuildRecord(
		models.ContactInfo{CompanyName: "Beta Textiles", OfficeSizeSqFt: 6000, Email: "gm@beta.lk", Phone: "0112345678"},
		models.CalculationInput{ACUnitCount: 12, OperatingHoursPerDay: 9, CurrentACType: models.ACTypeOldInverter, MonthlyBillAmount: 120000},
		models.ConsumptionResult{CurrentMonthlyKwh: 4860, ProjectedMonthlyKwh: 2916},
		models.SavingsResult{SavingsPercentage: 40, MonthlySavings: 48000, YearlySavings: 576000, FiveYearSavings: 2880000, CO2ReductionKg: 11664},
	)
	require.NoError(t, err)

	first, err := c.Resubmit(context.Background(), record)
	require.NoError(t, err)
	second, err := c.Resubmit(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, record.LeadID, first.LeadID)
	assert.False(t, first.Duplicate)
	assert.True(t, second.Duplicate)
	assert.Len(t, mr.Keys(), 1)
}
