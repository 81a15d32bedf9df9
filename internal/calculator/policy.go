// internal/calculator/policy.go
package calculator

import (
	"fmt"

	"inverter-savings/internal/common/config"
	"inverter-savings/internal/models"
)

// ConsumptionPolicy holds per-unit power draw in kW.
type ConsumptionPolicy struct {
	NonInverterKW float64
	OldInverterKW float64
	InverterKW    float64
	DaysPerMonth  int
}

type SavingsPolicy struct {
	// Annual CO2 is (current - projected) * factor * 12.
	EmissionFactorKgPerKwh float64
}

type Policy struct {
	Consumption ConsumptionPolicy
	Savings     SavingsPolicy
}

// DefaultPolicy returns the published rates. Old inverters are billed at
// the non-inverter rate until a measured figure is configured.
func DefaultPolicy() Policy {
	return Policy{
		Consumption: ConsumptionPolicy{
			NonInverterKW: 1.5,
			OldInverterKW: 1.5,
			InverterKW:    0.9,
			DaysPerMonth:  30,
		},
		Savings: SavingsPolicy{
			EmissionFactorKgPerKwh: 0.5,
		},
	}
}

// PolicyFromConfig overlays non-zero config values on DefaultPolicy.
func PolicyFromConfig(cfg config.PolicyConfig) Policy {
	p := DefaultPolicy()
	if cfg.Consumption.NonInverterKW != 0 {
		p.Consumption.NonInverterKW = cfg.Consumption.NonInverterKW
	}
	if cfg.Consumption.OldInverterKW != 0 {
		p.Consumption.OldInverterKW = cfg.Consumption.OldInverterKW
	}
	if cfg.Consumption.InverterKW != 0 {
		p.Consumption.InverterKW = cfg.Consumption.InverterKW
	}
	if cfg.Consumption.DaysPerMonth != 0 {
		p.Consumption.DaysPerMonth = cfg.Consumption.DaysPerMonth
	}
	if cfg.Savings.EmissionFactorKgPerKwh != 0 {
		p.Savings.EmissionFactorKgPerKwh = cfg.Savings.EmissionFactorKgPerKwh
	}
	return p
}

// Validate rejects policies under which projected consumption could reach
// or exceed current consumption.
func (p Policy) Validate() error {
	c := p.Consumption
	if c.InverterKW <= 0 {
		return fmt.Errorf("inverter rate must be positive, got %v", c.InverterKW)
	}
	if c.NonInverterKW <= c.InverterKW {
		return fmt.Errorf("non-inverter rate %v must exceed inverter rate %v", c.NonInverterKW, c.InverterKW)
	}
	if c.OldInverterKW <= c.InverterKW {
		return fmt.Errorf("old-inverter rate %v must exceed inverter rate %v", c.OldInverterKW, c.InverterKW)
	}
	if c.DaysPerMonth <= 0 {
		return fmt.Errorf("days per month must be positive, got %d", c.DaysPerMonth)
	}
	if p.Savings.EmissionFactorKgPerKwh < 0 {
		return fmt.Errorf("emission factor must not be negative, got %v", p.Savings.EmissionFactorKgPerKwh)
	}
	return nil
}

// rate returns the per-unit draw for the installed AC type.
func (c ConsumptionPolicy) rate(t models.ACType) (float64, bool) {
	switch t {
	case models.ACTypeNonInverter:
		return c.NonInverterKW, true
	case models.ACTypeOldInverter:
		return c.OldInverterKW, true
	default:
		return 0, false
	}
}
