package validation

import (
	"testing"

	apperrors "inverter-savings/internal/common/errors"
	"inverter-savings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() models.CalculationInput {
	return models.CalculationInput{
		ACUnitCount:          10,
		OperatingHoursPerDay: 10,
		CurrentACType:        models.ACTypeNonInverter,
		MonthlyBillAmount:    150000,
	}
}

func TestValidator_CalculationInput(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(in *models.CalculationInput)
		wantField string
	}{
		{name: "valid", mutate: func(in *models.CalculationInput) {}},
		{name: "zero units", mutate: func(in *models.CalculationInput) { in.ACUnitCount = 0 }, wantField: "ACUnitCount"},
		{name: "zero hours", mutate: func(in *models.CalculationInput) { in.OperatingHoursPerDay = 0 }, wantField: "OperatingHoursPerDay"},
		{name: "25 hours", mutate: func(in *models.CalculationInput) { in.OperatingHoursPerDay = 25 }, wantField: "OperatingHoursPerDay"},
		{name: "24 hours ok", mutate: func(in *models.CalculationInput) { in.OperatingHoursPerDay = 24 }},
		{name: "unknown type", mutate: func(in *models.CalculationInput) { in.CurrentACType = "SPLIT" }, wantField: "CurrentACType"},
		{name: "negative bill", mutate: func(in *models.CalculationInput) { in.MonthlyBillAmount = -1 }, wantField: "MonthlyBillAmount"},
		{name: "zero bill ok", mutate: func(in *models.CalculationInput) { in.MonthlyBillAmount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := v.CalculationInput(in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, stdErr.Metadata["field"])
		})
	}
}

func TestValidator_Contact(t *testing.T) {
	v := New()

	ok := models.ContactInfo{CompanyName: "Acme", OfficeSizeSqFt: 1200, Email: "cfo@acme.com", Phone: "0771234567"}
	assert.NoError(t, v.Contact(ok))

	missingName := ok
	missingName.CompanyName = ""
	assert.ErrorIs(t, v.Contact(missingName), apperrors.ErrInvalidInput)

	badEmail := ok
	badEmail.Email = "not-an-email"
	err := v.Contact(badEmail)
	require.Error(t, err)
	stdErr, _ := apperrors.AsStandardError(err)
	assert.Equal(t, "Email", stdErr.Metadata["field"])

	noPhone := ok
	noPhone.Phone = ""
	assert.ErrorIs(t, v.Contact(noPhone), apperrors.ErrInvalidInput)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+94771234567", NormalizePhone("077 123 4567", ""))
	assert.Equal(t, "+94771234567", NormalizePhone("+94 77 123 4567", "NL"))
	assert.Equal(t, "call me", NormalizePhone("  call me ", ""))
	assert.Equal(t, "", NormalizePhone("   ", ""))
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompileSchema(`{
		"type": "object",
		"required": ["leadId"],
		"properties": {"leadId": {"type": "string", "pattern": "^LEAD-"}}
	}`)

	assert.NoError(t, s.Validate(map[string]interface{}{"leadId": "LEAD-1-ABC"}))
	assert.Error(t, s.Validate(map[string]interface{}{"leadId": "X"}))
	assert.Error(t, s.Validate(map[string]interface{}{}))

	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
}
