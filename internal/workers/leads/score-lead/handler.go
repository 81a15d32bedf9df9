// internal/workers/leads/score-lead/handler.go
package scorelead

import (
	"context"
	"encoding/json"
	"strings"

	"inverter-savings/internal/common/errors"
	"inverter-savings/internal/common/formvalue"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/metrics"
	"inverter-savings/internal/common/observability"
	"inverter-savings/internal/common/validation"
	"inverter-savings/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "score-lead"

type Handler struct {
	config       *Config
	scorer       *scoring.Scorer
	validator    *validation.Validator
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. obs may be nil.
func NewHandler(config *Config, scorer *scoring.Scorer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		validator:    validation.New(),
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
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
	officeSize, _, err := formvalue.WholeNumber(input.OfficeSizeSqFt, "officeSizeSqFt")
	if err != nil {
		return nil, err
	}
	units, _, err := formvalue.WholeNumber(input.ACUnitCount, "acUnitCount")
	if err != nil {
		return nil, err
	}
	bill, _, err := formvalue.Number(input.MonthlyBillAmount, "monthlyBillAmount")
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if err := h.validator.Var(email, "required,email"); err != nil {
		return nil, errors.NewInvalidInputError("email", "a valid email address is required")
	}
	if officeSize < 0 || units < 0 || bill < 0 {
		return nil, errors.NewInvalidInputError("input", "office size, unit count and bill must not be negative")
	}

	result := h.scorer.ScoreLead(officeSize, units, bill, email)
	h.obs.RecordLeadScore(ctx, result.Score, string(result.Priority))

	h.logger.Info("lead scored", map[string]interface{}{
		"score":    result.Score,
		"priority": string(result.Priority),
	})

	return &Output{
		LeadScore:      result.Score,
		Priority:       result.Priority,
		ScoreBreakdown: result.Breakdown,
	}, nil
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
	h.errorHandler.HandleJobError(context.Background(), client, job, err, nil)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
