// internal/workers/savings/calculate-savings/models.go
package calculatesavings

import (
	"inverter-savings/internal/calculator"
	"inverter-savings/internal/models"
)

// Input holds the raw calculator form values. Numbers may arrive as JSON
// numbers or as text.
type Input struct {
	ACUnitCount          interface{} `json:"acUnitCount"`
	OperatingHoursPerDay interface{} `json:"operatingHoursPerDay"`
	CurrentACType        string      `json:"currentACType"`
	MonthlyBillAmount    interface{} `json:"monthlyBillAmount"`
}

type Output struct {
	Estimate models.Estimate `json:"estimate"`
	Display  Display         `json:"display"`
}

type Display struct {
	Consumption     calculator.ConsumptionDisplay `json:"consumption"`
	Savings         calculator.SavingsDisplay     `json:"savings"`
	MonthlySavings  string                        `json:"monthlySavingsText"`
	YearlySavings   string                        `json:"yearlySavingsText"`
	FiveYearSavings string                        `json:"fiveYearSavingsText"`
}
