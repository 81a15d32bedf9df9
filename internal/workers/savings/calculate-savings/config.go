// internal/workers/savings/calculate-savings/config.go
package calculatesavings

import (
	"time"

	"inverter-savings/internal/models"
)

type Config struct {
	Timeout               time.Duration
	DefaultOperatingHours int
	DefaultACType         models.ACType
}

// LoadConfig returns the form defaults: 10 hours a day on non-inverter units.
func LoadConfig() *Config {
	return &Config{
		Timeout:               10 * time.Second,
		DefaultOperatingHours: 10,
		DefaultACType:         models.ACTypeNonInverter,
	}
}
