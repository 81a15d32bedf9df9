// internal/models/payload.go
package models

import "time"

// LeadPayload is the JSON document posted to the lead sink.
type LeadPayload struct {
	LeadID           string             `json:"leadId"`
	SubmittedAt      string             `json:"submittedAt"`
	Source           string             `json:"source"`
	Company          PayloadCompany     `json:"company"`
	Consumption      PayloadConsumption `json:"consumption"`
	ProjectedSavings PayloadSavings     `json:"projectedSavings"`
	Contact          PayloadContact     `json:"contact"`
	LeadScore        int                `json:"leadScore"`
	Priority         Priority           `json:"priority"`
}

type PayloadCompany struct {
	Name          string `json:"name"`
	OfficeSize    int    `json:"officeSize"`
	ACUnits       int    `json:"acUnits"`
	CurrentACType ACType `json:"currentACType"`
}

type PayloadConsumption struct {
	MonthlyBill    float64 `json:"monthlyBill"`
	OperatingHours int     `json:"operatingHours"`
	CurrentUsage   float64 `json:"currentUsage"`
	ProjectedUsage float64 `json:"projectedUsage"`
}

type PayloadSavings struct {
	Monthly           float64 `json:"monthly"`
	Yearly            float64 `json:"yearly"`
	FiveYear          float64 `json:"fiveYear"`
	SavingsPercentage float64 `json:"savingsPercentage"`
	CO2Reduction      float64 `json:"co2Reduction"`
}

type PayloadContact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SinkResponse is the envelope returned by the lead sink.
type SinkResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Payload renders the record in the nested wire layout.
func (r *LeadRecord) Payload() LeadPayload {
	return LeadPayload{
		LeadID:      r.LeadID,
		SubmittedAt: r.SubmittedAt.UTC().Format(time.RFC3339),
		Source:      r.Source,
		Company: PayloadCompany{
			Name:          r.Contact.CompanyName,
			OfficeSize:    r.Contact.OfficeSizeSqFt,
			ACUnits:       r.Input.ACUnitCount,
			CurrentACType: r.Input.CurrentACType,
		},
		Consumption: PayloadConsumption{
			MonthlyBill:    r.Input.MonthlyBillAmount,
			OperatingHours: r.Input.OperatingHoursPerDay,
			CurrentUsage:   r.Consumption.CurrentMonthlyKwh,
			ProjectedUsage: r.Consumption.ProjectedMonthlyKwh,
		},
		ProjectedSavings: PayloadSavings{
			Monthly:           r.Savings.MonthlySavings,
			Yearly:            r.Savings.YearlySavings,
			FiveYear:          r.Savings.FiveYearSavings,
			SavingsPercentage: r.Savings.SavingsPercentage,
			CO2Reduction:      r.Savings.CO2ReductionKg,
		},
		Contact: PayloadContact{
			Email: r.Contact.Email,
			Phone: r.Contact.Phone,
		},
		LeadScore: r.Score,
		Priority:  r.Priority,
	}
}
