// internal/workers/leads/submit-lead/config.go
package submitlead

import "time"

type Config struct {
	// Timeout bounds the whole job, gate and sink call included. It must be
	// above the sink timeout.
	Timeout        time.Duration
	ReleaseTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        15 * time.Second,
		ReleaseTimeout: 2 * time.Second,
	}
}
