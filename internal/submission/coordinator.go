// Package submission turns a finished estimate and the prospect's contact
// details into a scored lead record and delivers it to the lead sink.
//
// A record gets its LeadID before any network call and keeps it across
// retries, so the sink can deduplicate. The coordinator makes exactly one
// send attempt per call; retrying is the caller's decision.
package submission

import (
	"context"
	"time"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/metrics"
	"inverter-savings/internal/common/validation"
	"inverter-savings/internal/models"
	"inverter-savings/internal/scoring"
)

type Config struct {
	Source      string
	PhoneRegion string
	Now         func() time.Time
	NewLeadID   func(time.Time) string
}

type Coordinator struct {
	sink      LeadSink
	scorer    *scoring.Scorer
	validator *validation.Validator
	cfg       Config
	logger    logger.Logger
}

func NewCoordinator(cfg Config, sink LeadSink, scorer *scoring.Scorer, log logger.Logger) *Coordinator {
	if cfg.Source == "" {
		cfg.Source = models.LeadSource
	}
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = validation.DefaultPhoneRegion
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewLeadID == nil {
		cfg.NewLeadID = NewLeadID
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Coordinator{
		sink:      sink,
		scorer:    scorer,
		validator: validation.New(),
		cfg:       cfg,
		logger:    log,
	}
}

// BuildRecord validates the inputs, scores the lead and assigns a fresh
// LeadID. Nothing is sent.
func (c *Coordinator) BuildRecord(contact models.ContactInfo, input models.CalculationInput, consumption models.ConsumptionResult, savings models.SavingsResult) (*models.LeadRecord, error) {
	if err := c.validator.Contact(contact); err != nil {
		return nil, err
	}
	if err := c.validator.CalculationInput(input); err != nil {
		return nil, err
	}

	score := c.scorer.ScoreLead(contact.OfficeSizeSqFt, input.ACUnitCount, input.MonthlyBillAmount, contact.Email)

	contact.Phone = validation.NormalizePhone(contact.Phone, c.cfg.PhoneRegion)

	now := c.cfg.Now().UTC()
	record := &models.LeadRecord{
		LeadID:      c.cfg.NewLeadID(now),
		SubmittedAt: now,
		Source:      c.cfg.Source,
		Input:       input,
		Consumption: consumption,
		Savings:     savings,
		Contact:     contact,
		Score:       score.Score,
		Priority:    score.Priority,
	}

	if err := payloadSchema.Validate(record.Payload()); err != nil {
		return nil, apperrors.NewInvalidInputError("payload", err.Error())
	}
	return record, nil
}

// SubmitLead builds a record and makes one send attempt. Sink failures come
// back as *SubmissionError carrying the record for Resubmit.
func (c *Coordinator) SubmitLead(ctx context.Context, contact models.ContactInfo, input models.CalculationInput, consumption models.ConsumptionResult, savings models.SavingsResult) (*models.LeadConfirmation, error) {
	record, err := c.BuildRecord(contact, input, consumption, savings)
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	c.logger.Info("lead record built", map[string]interface{}{
		"leadId":   record.LeadID,
		"score":    record.Score,
		"priority": string(record.Priority),
	})

	return c.send(ctx, record)
}

// SubmitRecord sends a record made by BuildRecord. Callers that need the
// LeadID before the network call (to claim a Gate, say) use this pair
// instead of SubmitLead.
func (c *Coordinator) SubmitRecord(ctx context.Context, record *models.LeadRecord) (*models.LeadConfirmation, error) {
	if record == nil || record.LeadID == "" {
		return nil, apperrors.NewInvalidInputError("record", "a record with a lead id is required")
	}
	return c.send(ctx, record)
}

// Resubmit sends an existing record again under its original LeadID.
func (c *Coordinator) Resubmit(ctx context.Context, record *models.LeadRecord) (*models.LeadConfirmation, error) {
	return c.SubmitRecord(ctx, record)
}

func (c *Coordinator) send(ctx context.Context, record *models.LeadRecord) (*models.LeadConfirmation, error) {
	start := time.Now()
	conf, err := c.sink.Send(ctx, record.Payload())
	elapsed := time.Since(start)

	if err != nil {
		subErr := newSubmissionError(record, err)
		metrics.LeadSubmissions.WithLabelValues(string(subErr.Kind)).Inc()
		metrics.LeadSubmissionDuration.WithLabelValues(string(subErr.Kind)).Observe(elapsed.Seconds())

		c.logger.Warn("lead submission failed", map[string]interface{}{
			"leadId":     record.LeadID,
			"kind":       string(subErr.Kind),
			"statusCode": subErr.StatusCode,
			"retryable":  subErr.Retryable(),
			"error":      err,
		})
		return nil, subErr
	}

	outcome := "success"
	if conf.Duplicate {
		outcome = "duplicate"
	}
	metrics.LeadSubmissions.WithLabelValues(outcome).Inc()
	metrics.LeadSubmissionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	c.logger.Info("lead submitted", map[string]interface{}{
		"leadId":     conf.LeadID,
		"duplicate":  conf.Duplicate,
		"durationMs": elapsed.Milliseconds(),
	})
	return conf, nil
}
