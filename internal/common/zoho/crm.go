package zoho

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

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

// CRMClient writes calculator leads into the Zoho CRM Leads module. It
// satisfies submission.LeadSink.
type CRMClient struct {
	apiKey     string
	oauthToken string
	baseURL    string
	httpClient *commonhttp.Client
}

// Lead is the Zoho Leads record. Lead_Reference carries our lead id and is
// the duplicate check field, so a resend updates instead of inserting.
type Lead struct {
	ID                string  `json:"id,omitempty"`
	LeadReference     string  `json:"Lead_Reference"`
	Company           string  `json:"Company"`
	LastName          string  `json:"Last_Name"`
	Email             string  `json:"Email"`
	Phone             string  `json:"Phone,omitempty"`
	Source            string  `json:"Lead_Source,omitempty"`
	Rating            string  `json:"Rating,omitempty"`
	LeadScore         int     `json:"Lead_Score"`
	OfficeSizeSqFt    int     `json:"Office_Size_SqFt"`
	ACUnits           int     `json:"AC_Units"`
	CurrentACType     string  `json:"Current_AC_Type"`
	MonthlyBill       float64 `json:"Monthly_Bill"`
	ProjectedSavings  float64 `json:"Projected_Yearly_Savings"`
	SavingsPercentage float64 `json:"Savings_Percentage"`
	CO2ReductionKg    float64 `json:"CO2_Reduction_Kg"`
	Description       string  `json:"Description,omitempty"`
}

type UpsertResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Action  string `json:"action"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(apiKey, oauthToken string) *CRMClient {
	return &CRMClient{
		apiKey:     apiKey,
		oauthToken: oauthToken,
		baseURL:    DefaultBaseURL,
		httpClient: commonhttp.NewClient(30 * time.Second),
	}
}

// WithBaseURL points the client at another data centre or a test server.
func (c *CRMClient) WithBaseURL(baseURL string) *CRMClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// WithTimeout sets the per-request timeout.
func (c *CRMClient) WithTimeout(timeout time.Duration) *CRMClient {
	if timeout > 0 {
		c.httpClient = commonhttp.NewClient(timeout)
	}
	return c
}

// LeadFromPayload maps the wire payload onto Zoho field names.
func LeadFromPayload(p models.LeadPayload) Lead {
	return Lead{
		LeadReference:     p.LeadID,
		Company:           p.Company.Name,
		LastName:          p.Company.Name,
		Email:             p.Contact.Email,
		Phone:             p.Contact.Phone,
		Source:            p.Source,
		Rating:            string(p.Priority),
		LeadScore:         p.LeadScore,
		OfficeSizeSqFt:    p.Company.OfficeSize,
		ACUnits:           p.Company.ACUnits,
		CurrentACType:     string(p.Company.CurrentACType),
		MonthlyBill:       p.Consumption.MonthlyBill,
		ProjectedSavings:  p.ProjectedSavings.Yearly,
		SavingsPercentage: p.ProjectedSavings.SavingsPercentage,
		CO2ReductionKg:    p.ProjectedSavings.CO2Reduction,
		Description: fmt.Sprintf("%d units running %dh/day, %.0f kWh/month now, %.0f kWh/month on inverter",
			p.Company.ACUnits, p.Consumption.OperatingHours, p.Consumption.CurrentUsage, p.Consumption.ProjectedUsage),
	}
}

// Send upserts the lead. Failures are NETWORK_ERROR, SERVER_ERROR or
// VALIDATION_ERROR standard errors.
func (c *CRMClient) Send(ctx context.Context, payload models.LeadPayload) (*models.LeadConfirmation, error) {
	url := fmt.Sprintf("%s/Leads/upsert", c.baseURL)

	body := map[string]interface{}{
		"data":                   []Lead{LeadFromPayload(payload)},
		"duplicate_check_fields": []string{"Lead_Reference"},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("failed to marshal lead: %v", err))
	}

	resp, err := c.httpClient.PostJSON(ctx, url, json.RawMessage(jsonData), map[string]string{
		"Authorization": "Zoho-oauthtoken " + c.oauthToken,
	})
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Errorf("zoho upsert request: %w", err))
	}

	if resp.StatusCode >= 500 {
		return nil, apperrors.NewServerError(resp.StatusCode, fmt.Sprintf("zoho upsert failed: %s", snippet(resp.Body)))
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusMultiStatus {
		return nil, apperrors.NewValidationError(fmt.Sprintf("zoho upsert rejected (status %d): %s", resp.StatusCode, snippet(resp.Body))).
			WithMetadata("statusCode", resp.StatusCode)
	}

	var upsertResp UpsertResponse
	if err := json.Unmarshal(resp.Body, &upsertResp); err != nil {
		return nil, apperrors.NewServerError(resp.StatusCode, fmt.Sprintf("failed to unmarshal response: %v", err))
	}

	if len(upsertResp.Data) == 0 {
		return nil, apperrors.NewServerError(resp.StatusCode, "no data in response")
	}

	result := upsertResp.Data[0]
	if result.Status != "success" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("lead upsert failed: %s: %s", result.Code, result.Message)).
			WithMetadata("statusCode", resp.StatusCode)
	}

	return &models.LeadConfirmation{
		LeadID:    payload.LeadID,
		Message:   result.Message,
		Duplicate: result.Action == "update",
		Data: map[string]interface{}{
			"crmId":  result.Details.ID,
			"action": result.Action,
		},
	}, nil
}

// maxSnippet caps how much of a Zoho response ends up in error details.
const maxSnippet = 512

func snippet(body []byte) string {
	if len(body) > maxSnippet {
		return string(body[:maxSnippet]) + "..."
	}
	return string(body)
}
