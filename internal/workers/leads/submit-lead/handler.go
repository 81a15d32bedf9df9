// internal/workers/leads/submit-lead/handler.go
package submitlead

import (
	"context"
	"encoding/json"

	"inverter-savings/internal/common/errors"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/metrics"
	"inverter-savings/internal/models"
	"inverter-savings/internal/submission"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "submit-lead"

const defaultSuccessMessage = "Thank you! Our team will contact you shortly."

// Gate serialises submissions per form session.
type Gate interface {
	Acquire(ctx context.Context, sessionID, leadID string) error
	Release(ctx context.Context, sessionID string) error
}

// Alerter notifies sales about hot leads.
type Alerter interface {
	NotifyIfHot(ctx context.Context, record *models.LeadRecord) (bool, error)
}

type Handler struct {
	config       *Config
	coordinator  *submission.Coordinator
	gate         Gate
	alerter      Alerter
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. gate and alerter are optional.
func NewHandler(config *Config, coordinator *submission.Coordinator, gate Gate, alerter Alerter, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		coordinator:  coordinator,
		gate:         gate,
		alerter:      alerter,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
		"retries":     job.Retries,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, errors.NewInputParsingFailedError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	record := input.LeadRecord
	if record == nil || record.LeadID == "" {
		var err error
		record, err = h.coordinator.BuildRecord(input.Contact, input.Estimate.Input, input.Estimate.Consumption, input.Estimate.Savings)
		if err != nil {
			return nil, err
		}
	} else {
		h.logger.Info("resending lead from previous attempt", map[string]interface{}{
			"leadId": record.LeadID,
		})
	}

	if h.gate != nil && input.SessionID != "" {
		if err := h.gate.Acquire(ctx, input.SessionID, record.LeadID); err != nil {
			return nil, err
		}
	}

	conf, err := h.coordinator.SubmitRecord(ctx, record)
	if err != nil {
		// A retryable failure keeps the session claimed for the job retry.
		if subErr, ok := submission.AsSubmissionError(err); !ok || !subErr.Retryable() {
			h.release(ctx, input.SessionID)
		}
		return nil, err
	}
	h.release(ctx, input.SessionID)

	alertSent := false
	if h.alerter != nil {
		sent, alertErr := h.alerter.NotifyIfHot(ctx, record)
		if alertErr != nil {
			h.logger.Warn("sales alert failed", map[string]interface{}{
				"leadId": record.LeadID,
				"error":  alertErr,
			})
		}
		alertSent = sent
	}

	message := conf.Message
	if message == "" {
		message = defaultSuccessMessage
	}

	return &Output{
		LeadID:         conf.LeadID,
		Success:        true,
		Message:        message,
		Duplicate:      conf.Duplicate,
		LeadScore:      record.Score,
		Priority:       record.Priority,
		SalesAlertSent: alertSent,
	}, nil
}

func (h *Handler) release(ctx context.Context, sessionID string) {
	if h.gate == nil || sessionID == "" {
		return
	}
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.config.ReleaseTimeout)
	defer cancel()

	if err := h.gate.Release(releaseCtx, sessionID); err != nil {
		h.logger.Warn("failed to release submission gate", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err,
		})
	}
}

// failureVariables carries the built record into the failed job so the next
// attempt resends it under the same lead id.
func failureVariables(err error) map[string]interface{} {
	subErr, ok := submission.AsSubmissionError(err)
	if !ok {
		return nil
	}
	vars := map[string]interface{}{
		"leadId":         subErr.LeadID,
		"submissionKind": string(subErr.Kind),
	}
	if subErr.Retryable() && subErr.Record != nil {
		vars["leadRecord"] = subErr.Record
	}
	return vars
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errorHandler.HandleJobError(context.Background(), client, job, err, failureVariables(err))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
