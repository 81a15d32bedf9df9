// internal/workers/leads/score-lead/models.go
package scorelead

import "inverter-savings/internal/models"

type Input struct {
	OfficeSizeSqFt    interface{} `json:"officeSizeSqFt"`
	ACUnitCount       interface{} `json:"acUnitCount"`
	MonthlyBillAmount interface{} `json:"monthlyBillAmount"`
	Email             string      `json:"email"`
}

type Output struct {
	LeadScore      int                   `json:"leadScore"`
	Priority       models.Priority       `json:"priority"`
	ScoreBreakdown models.ScoreBreakdown `json:"scoreBreakdown"`
}
