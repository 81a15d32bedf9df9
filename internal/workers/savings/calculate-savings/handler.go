// internal/workers/savings/calculate-savings/handler.go
package calculatesavings

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"inverter-savings/internal/calculator"
	"inverter-savings/internal/common/errors"
	"inverter-savings/internal/common/formvalue"
	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/metrics"
	"inverter-savings/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-savings"

type Handler struct {
	config       *Config
	model        *calculator.Model
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, model *calculator.Model, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		model:        model,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
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
	h.logger.Debug("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	calcInput, err := h.toCalculationInput(input)
	if err != nil {
		return nil, err
	}

	estimate, err := h.model.Estimate(calcInput)
	if err != nil {
		return nil, err
	}

	h.logger.Info("savings estimated", map[string]interface{}{
		"acUnits":           calcInput.ACUnitCount,
		"acType":            string(calcInput.CurrentACType),
		"savingsPercentage": estimate.Savings.SavingsPercentage,
		"yearlySavings":     estimate.Savings.YearlySavings,
	})

	return &Output{
		Estimate: estimate,
		Display: Display{
			Consumption:     calculator.DisplayConsumption(estimate.Consumption),
			Savings:         calculator.DisplaySavings(estimate.Savings),
			MonthlySavings:  calculator.FormatCurrency(estimate.Savings.MonthlySavings),
			YearlySavings:   calculator.FormatCurrency(estimate.Savings.YearlySavings),
			FiveYearSavings: calculator.FormatCurrency(estimate.Savings.FiveYearSavings),
		},
	}, nil
}

// toCalculationInput applies form defaults. Unit count and bill are required.
func (h *Handler) toCalculationInput(input *Input) (models.CalculationInput, error) {
	var out models.CalculationInput

	units, present, err := formvalue.WholeNumber(input.ACUnitCount, "acUnitCount")
	if err != nil {
		return out, err
	}
	if !present {
		return out, errors.NewInvalidInputError("acUnitCount", "acUnitCount is required")
	}

	hours, present, err := formvalue.WholeNumber(input.OperatingHoursPerDay, "operatingHoursPerDay")
	if err != nil {
		return out, err
	}
	if !present {
		hours = h.config.DefaultOperatingHours
	}

	bill, present, err := formvalue.Number(input.MonthlyBillAmount, "monthlyBillAmount")
	if err != nil {
		return out, err
	}
	if !present {
		return out, errors.NewInvalidInputError("monthlyBillAmount", "monthlyBillAmount is required")
	}

	acType := h.config.DefaultACType
	if strings.TrimSpace(input.CurrentACType) != "" {
		acType, err = models.ParseACType(input.CurrentACType)
		if err != nil {
			return out, errors.NewInvalidInputError("currentACType", err.Error())
		}
	}

	return models.CalculationInput{
		ACUnitCount:          units,
		OperatingHoursPerDay: hours,
		CurrentACType:        acType,
		MonthlyBillAmount:    bill,
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
