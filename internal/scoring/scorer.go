// Package scoring rates how attractive a prospect is to sales from company
// size, fleet size, spend and the kind of email address they gave.
package scoring

import (
	"fmt"

	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/metrics"
	"inverter-savings/internal/models"
)

type Scorer struct {
	policy Policy
	logger logger.Logger
}

func New(policy Policy, log logger.Logger) (*Scorer, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Scorer{policy: policy, logger: log}, nil
}

// ScoreLead is deterministic and has no side effects beyond metrics.
func (s *Scorer) ScoreLead(officeSizeSqFt, acUnitCount int, monthlyBill float64, email string) models.ScoreResult {
	breakdown := models.ScoreBreakdown{
		OfficeSize: s.policy.OfficeSize.points(float64(officeSizeSqFt)),
		ACUnits:    s.policy.ACUnits.points(float64(acUnitCount)),
		Bill:       s.policy.MonthlyBill.points(monthlyBill),
		Email:      s.policy.Email.points(email),
	}

	score := breakdown.Total()
	if score > s.policy.MaxScore {
		score = s.policy.MaxScore
	}

	result := models.ScoreResult{
		Score:     score,
		Priority:  s.Priority(score),
		Breakdown: breakdown,
	}

	metrics.LeadScores.WithLabelValues(string(result.Priority)).Inc()
	s.logger.Debug("lead scored", map[string]interface{}{
		"score":     result.Score,
		"priority":  string(result.Priority),
		"breakdown": breakdown,
	})

	return result
}

// Priority maps a score to its tier.
func (s *Scorer) Priority(score int) models.Priority {
	switch {
	case score >= s.policy.HighThreshold:
		return models.PriorityHigh
	case score >= s.policy.MediumThreshold:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
