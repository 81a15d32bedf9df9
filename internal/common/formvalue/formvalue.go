// Package formvalue reads numeric job variables that arrive either as JSON
// numbers or as text typed into the calculator form ("LKR 150,000").
package formvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	apperrors "inverter-savings/internal/common/errors"

	"github.com/shopspring/decimal"
)

// currencyPrefix matches the rupee prefixes the form accepts. Other letters
// make the value invalid.
var currencyPrefix = regexp.MustCompile(`(?i)^(LKR|Rs\.?)`)

// Number returns the value of raw and whether it was present at all. A nil
// raw or blank string is absent, not an error.
func Number(raw interface{}, field string) (float64, bool, error) {
	d, present, err := parse(raw)
	if err != nil {
		return 0, true, apperrors.NewInvalidInputError(field, err.Error())
	}
	if !present {
		return 0, false, nil
	}
	f, _ := d.Float64()
	return f, true, nil
}

// WholeNumber is Number for counts; fractional values are rejected.
func WholeNumber(raw interface{}, field string) (int, bool, error) {
	d, present, err := parse(raw)
	if err != nil {
		return 0, true, apperrors.NewInvalidInputError(field, err.Error())
	}
	if !present {
		return 0, false, nil
	}
	if !d.IsInteger() {
		return 0, true, apperrors.NewInvalidInputError(field, fmt.Sprintf("%s must be a whole number", d.String()))
	}
	if d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, true, apperrors.NewInvalidInputError(field, "value out of range")
	}
	return int(d.IntPart()), true, nil
}

func parse(raw interface{}) (decimal.Decimal, bool, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, true, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(v), true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, true, err
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false, nil
		}
		s = currencyPrefix.ReplaceAllString(s, "")
		s = strings.NewReplacer(",", "", " ", "").Replace(s)
		if s == "" {
			return decimal.Zero, true, fmt.Errorf("%q is not a number", v)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, true, fmt.Errorf("%q is not a number", v)
		}
		return d, true, nil
	default:
		return decimal.Zero, true, fmt.Errorf("unsupported value type %T", raw)
	}
}
