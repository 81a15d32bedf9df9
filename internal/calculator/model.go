// Package calculator turns a customer's AC setup and electricity bill into
// monthly consumption figures and projected savings from switching to
// inverter units. All operations are pure and safe for concurrent use.
package calculator

import (
	"fmt"
	"math"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/metrics"
	"inverter-savings/internal/common/validation"
	"inverter-savings/internal/models"
)

const monthsPerYear = 12

type Model struct {
	policy    Policy
	validator *validation.Validator
	logger    logger.Logger
}

// New validates policy and returns a Model bound to it.
func New(policy Policy, log logger.Logger) (*Model, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calculator policy: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	if policy.Consumption.OldInverterKW == policy.Consumption.NonInverterKW {
		log.Warn("old-inverter and non-inverter rates are identical, AC type does not affect the estimate", map[string]interface{}{
			"ratePerUnitKw": policy.Consumption.NonInverterKW,
		})
	}

	return &Model{
		policy:    policy,
		validator: validation.New(),
		logger:    log,
	}, nil
}

func (m *Model) Policy() Policy {
	return m.policy
}

// ComputeConsumption returns current and projected monthly kWh for input.
// MonthlyBillAmount is not looked at.
func (m *Model) ComputeConsumption(input models.CalculationInput) (models.ConsumptionResult, error) {
	if err := m.checkField("ACUnitCount", input.ACUnitCount, "min=1"); err != nil {
		return models.ConsumptionResult{}, err
	}
	if err := m.checkField("OperatingHoursPerDay", input.OperatingHoursPerDay, "min=1,max=24"); err != nil {
		return models.ConsumptionResult{}, err
	}

	rate, ok := m.policy.Consumption.rate(input.CurrentACType)
	if !ok {
		return models.ConsumptionResult{}, apperrors.NewInvalidInputError("CurrentACType",
			fmt.Sprintf("CurrentACType %q is not a known AC type", input.CurrentACType))
	}

	unitHours := float64(input.ACUnitCount) * float64(input.OperatingHoursPerDay) * float64(m.policy.Consumption.DaysPerMonth)

	return models.ConsumptionResult{
		CurrentMonthlyKwh:   rate * unitHours,
		ProjectedMonthlyKwh: m.policy.Consumption.InverterKW * unitHours,
	}, nil
}

// ComputeSavings derives savings from a consumption pair and the current
// monthly bill. Values are not rounded.
func (m *Model) ComputeSavings(consumption models.ConsumptionResult, monthlyBill float64) (models.SavingsResult, error) {
	if math.IsNaN(monthlyBill) || math.IsInf(monthlyBill, 0) {
		return models.SavingsResult{}, apperrors.NewInvalidInputError("MonthlyBillAmount", "monthly bill must be a finite number")
	}
	if monthlyBill < 0 {
		return models.SavingsResult{}, apperrors.NewInvalidInputError("MonthlyBillAmount", "monthly bill must not be negative")
	}
	if err := checkConsumption(consumption); err != nil {
		return models.SavingsResult{}, err
	}
	if consumption.CurrentMonthlyKwh == 0 {
		return models.SavingsResult{}, apperrors.NewDivisionUndefinedError("current monthly consumption is zero")
	}
	if consumption.ProjectedMonthlyKwh > consumption.CurrentMonthlyKwh {
		return models.SavingsResult{}, apperrors.NewInvalidInputError("ProjectedMonthlyKwh",
			fmt.Sprintf("projected consumption %v exceeds current consumption %v",
				consumption.ProjectedMonthlyKwh, consumption.CurrentMonthlyKwh))
	}

	saved := consumption.CurrentMonthlyKwh - consumption.ProjectedMonthlyKwh
	pct := saved / consumption.CurrentMonthlyKwh * 100
	monthly := monthlyBill * pct / 100
	yearly := monthly * monthsPerYear

	return models.SavingsResult{
		SavingsPercentage: pct,
		MonthlySavings:    monthly,
		YearlySavings:     yearly,
		FiveYearSavings:   yearly * 5,
		CO2ReductionKg:    saved * m.policy.Savings.EmissionFactorKgPerKwh * monthsPerYear,
	}, nil
}

func checkConsumption(c models.ConsumptionResult) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"CurrentMonthlyKwh", c.CurrentMonthlyKwh},
		{"ProjectedMonthlyKwh", c.ProjectedMonthlyKwh},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return apperrors.NewInvalidInputError(f.name, "consumption must be a finite number")
		}
		if f.value < 0 {
			return apperrors.NewInvalidInputError(f.name, "consumption must not be negative")
		}
	}
	return nil
}

// Estimate runs ComputeConsumption and ComputeSavings for one input.
func (m *Model) Estimate(input models.CalculationInput) (models.Estimate, error) {
	est, err := m.estimate(input)
	if err != nil {
		metrics.SavingsEstimates.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
		return models.Estimate{}, err
	}
	metrics.SavingsEstimates.WithLabelValues("ok").Inc()

	m.logger.Debug("savings estimated", map[string]interface{}{
		"acUnits":           input.ACUnitCount,
		"hoursPerDay":       input.OperatingHoursPerDay,
		"acType":            string(input.CurrentACType),
		"currentKwh":        est.Consumption.CurrentMonthlyKwh,
		"projectedKwh":      est.Consumption.ProjectedMonthlyKwh,
		"savingsPercentage": est.Savings.SavingsPercentage,
	})
	return est, nil
}

func (m *Model) estimate(input models.CalculationInput) (models.Estimate, error) {
	consumption, err := m.ComputeConsumption(input)
	if err != nil {
		return models.Estimate{}, err
	}
	savings, err := m.ComputeSavings(consumption, input.MonthlyBillAmount)
	if err != nil {
		return models.Estimate{}, err
	}
	return models.Estimate{
		Input:       input,
		Consumption: consumption,
		Savings:     savings,
	}, nil
}

func (m *Model) checkField(field string, value interface{}, tag string) error {
	if err := m.validator.Var(value, tag); err != nil {
		return apperrors.NewInvalidInputError(field, fmt.Sprintf("%s=%v violates %s", field, value, tag))
	}
	return nil
}
