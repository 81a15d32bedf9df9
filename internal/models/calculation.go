// internal/models/calculation.go
package models

import (
	"fmt"
	"strings"
)

// ACType is the kind of air-conditioning currently installed.
type ACType string

const (
	ACTypeNonInverter ACType = "NON_INVERTER"
	ACTypeOldInverter ACType = "OLD_INVERTER"
)

// ParseACType accepts the enum values as well as the form values
// "non-inverter" and "old-inverter", case-insensitively.
func ParseACType(s string) (ACType, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch ACType(norm) {
	case ACTypeNonInverter, ACTypeOldInverter:
		return ACType(norm), nil
	}
	return "", fmt.Errorf("unknown AC type %q", s)
}

func (t ACType) Valid() bool {
	return t == ACTypeNonInverter || t == ACTypeOldInverter
}

// CalculationInput is the customer's current situation. It is built per
// request and never shared between calculations.
type CalculationInput struct {
	ACUnitCount          int     `json:"acUnitCount" validate:"min=1"`
	OperatingHoursPerDay int     `json:"operatingHoursPerDay" validate:"min=1,max=24"`
	CurrentACType        ACType  `json:"currentACType" validate:"actype"`
	MonthlyBillAmount    float64 `json:"monthlyBillAmount" validate:"min=0"`
}

// ConsumptionResult holds monthly energy use in kWh. Projected is always
// below Current for a valid input.
type ConsumptionResult struct {
	CurrentMonthlyKwh   float64 `json:"currentMonthlyKwh"`
	ProjectedMonthlyKwh float64 `json:"projectedMonthlyKwh"`
}

// SavingsResult holds unrounded savings figures. Yearly is Monthly*12 and
// FiveYear is Yearly*5.
type SavingsResult struct {
	SavingsPercentage float64 `json:"savingsPercentage"`
	MonthlySavings    float64 `json:"monthlySavings"`
	YearlySavings     float64 `json:"yearlySavings"`
	FiveYearSavings   float64 `json:"fiveYearSavings"`
	CO2ReductionKg    float64 `json:"co2ReductionKg"`
}

// Estimate is a consumption and savings pair for one input.
type Estimate struct {
	Input       CalculationInput  `json:"input"`
	Consumption ConsumptionResult `json:"consumption"`
	Savings     SavingsResult     `json:"savings"`
}
