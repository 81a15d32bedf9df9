// internal/calculator/display.go
package calculator

import (
	"inverter-savings/internal/models"

	"github.com/shopspring/decimal"
)

// CurrencyCode prefixes monetary display strings.
const CurrencyCode = "LKR"

// ConsumptionDisplay is ConsumptionResult rounded for presentation.
type ConsumptionDisplay struct {
	CurrentMonthlyKwh   string `json:"currentMonthlyKwh"`
	ProjectedMonthlyKwh string `json:"projectedMonthlyKwh"`
}

// SavingsDisplay is SavingsResult rounded for presentation: one decimal for
// the percentage, whole numbers elsewhere.
type SavingsDisplay struct {
	SavingsPercentage string `json:"savingsPercentage"`
	MonthlySavings    string `json:"monthlySavings"`
	YearlySavings     string `json:"yearlySavings"`
	FiveYearSavings   string `json:"fiveYearSavings"`
	CO2ReductionKg    string `json:"co2ReductionKg"`
}

func DisplayConsumption(c models.ConsumptionResult) ConsumptionDisplay {
	return ConsumptionDisplay{
		CurrentMonthlyKwh:   round(c.CurrentMonthlyKwh, 0),
		ProjectedMonthlyKwh: round(c.ProjectedMonthlyKwh, 0),
	}
}

func DisplaySavings(s models.SavingsResult) SavingsDisplay {
	return SavingsDisplay{
		SavingsPercentage: round(s.SavingsPercentage, 1),
		MonthlySavings:    round(s.MonthlySavings, 0),
		YearlySavings:     round(s.YearlySavings, 0),
		FiveYearSavings:   round(s.FiveYearSavings, 0),
		CO2ReductionKg:    round(s.CO2ReductionKg, 0),
	}
}

// FormatCurrency renders an amount as "LKR 1,234,567".
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return CurrencyCode + " " + sign + groupThousands(d.String())
}

func round(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	out := digits[:head]
	for i := head; i < len(digits); i += 3 {
		out += "," + digits[i:i+3]
	}
	return out
}
