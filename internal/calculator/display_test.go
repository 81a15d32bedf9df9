package calculator

import (
	"testing"

	"inverter-savings/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDisplaySavings(t *testing.T) {
	d := DisplaySavings(models.SavingsResult{
		SavingsPercentage: 40.0,
		MonthlySavings:    60000.4,
		YearlySavings:     720004.8,
		FiveYearSavings:   3600024,
		CO2ReductionKg:    10800,
	})

	assert.Equal(t, "40.0", d.SavingsPercentage)
	assert.Equal(t, "60000", d.MonthlySavings)
	assert.Equal(t, "720005", d.YearlySavings)
	assert.Equal(t, "3600024", d.FiveYearSavings)
	assert.Equal(t, "10800", d.CO2ReductionKg)
}

func TestDisplayConsumption(t *testing.T) {
	d := DisplayConsumption(models.ConsumptionResult{CurrentMonthlyKwh: 4500, ProjectedMonthlyKwh: 2699.6})
	assert.Equal(t, "4500", d.CurrentMonthlyKwh)
	assert.Equal(t, "2700", d.ProjectedMonthlyKwh)
}

func TestFormatCurrency(t *testing.T) {
	tests := map[float64]string{
		0:        "LKR 0",
		999:      "LKR 999",
		1000:     "LKR 1,000",
		60000:    "LKR 60,000",
		3600000:  "LKR 3,600,000",
		123456.7: "LKR 123,457",
		-2500:    "LKR -2,500",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(in))
	}
}
