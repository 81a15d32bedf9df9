// internal/models/lead.go
package models

import "time"

// LeadSource tags every record produced by the savings calculator.
const LeadSource = "Energy_Savings_Calculator"

type ContactInfo struct {
	CompanyName    string `json:"companyName" validate:"required"`
	OfficeSizeSqFt int    `json:"officeSizeSqFt" validate:"min=0"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ScoreBreakdown lists the points contributed by each factor before capping.
type ScoreBreakdown struct {
	OfficeSize int `json:"officeSize"`
	ACUnits    int `json:"acUnits"`
	Bill       int `json:"bill"`
	Email      int `json:"email"`
}

func (b ScoreBreakdown) Total() int {
	return b.OfficeSize + b.ACUnits + b.Bill + b.Email
}

type ScoreResult struct {
	Score     int            `json:"score"`
	Priority  Priority       `json:"priority"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// LeadRecord is built once per submission and not modified afterwards.
// Retries send the same record, so LeadID stays stable.
type LeadRecord struct {
	LeadID      string            `json:"leadId"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Source      string            `json:"source"`
	Input       CalculationInput  `json:"input"`
	Consumption ConsumptionResult `json:"consumption"`
	Savings     SavingsResult     `json:"savings"`
	Contact     ContactInfo       `json:"contact"`
	Score       int               `json:"score"`
	Priority    Priority          `json:"priority"`
}

type LeadConfirmation struct {
	LeadID    string                 `json:"leadId"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Duplicate bool                   `json:"duplicate"`
}
