// Package validation holds struct, phone and JSON-schema validation shared by
// the engine and the workers. It contains no business rules.
package validation

import (
	"errors"
	"fmt"
	"math"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with the engine's custom tags.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the "actype" tag registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("actype", func(fl validator.FieldLevel) bool {
		return models.ACType(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// CalculationInput reports the first invalid field of in as an INVALID_INPUT error.
func (val *Validator) CalculationInput(in models.CalculationInput) error {
	if math.IsNaN(in.MonthlyBillAmount) || math.IsInf(in.MonthlyBillAmount, 0) {
		return apperrors.NewInvalidInputError("MonthlyBillAmount", "monthly bill must be a finite number")
	}
	return toInvalidInput(val.v.Struct(in))
}

// Contact reports the first invalid field of c as an INVALID_INPUT error.
func (val *Validator) Contact(c models.ContactInfo) error {
	return toInvalidInput(val.v.Struct(c))
}

func toInvalidInput(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewInvalidInputError(fe.Field(), describe(fe))
	}
	return apperrors.NewInvalidInputError("", err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "actype":
		return fmt.Sprintf("%s %q is not a known AC type", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
