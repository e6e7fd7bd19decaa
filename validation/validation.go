package validation

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Violation codes. They double as i18n keys.
const (
	CodeRequired       = "required"
	CodeMustBePositive = "must_be_positive"
	CodeNegative       = "must_not_be_negative"
	CodeInvalidDate    = "invalid_date"
	CodeUnknown        = "unknown_reference"
	CodeTooPrecise     = "too_many_decimals"
	CodeInvalidChoice  = "invalid_choice"
)

// MoneyPlaces is the number of fraction digits the store keeps for money.
const MoneyPlaces = 2

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error wraps violations so they can travel as an error value.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+": "+code)
	}
	sort.Strings(fields)
	return "validation failed (" + strings.Join(fields, ", ") + ")"
}

// Err returns nil when v is empty, an *Error otherwise.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &Error{Violations: v}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = CodeRequired
	}
}

// PositiveDecimal requires a present, strictly positive amount.
func PositiveDecimal(field string, val decimal.NullDecimal, v Violations) {
	switch {
	case !val.Valid:
		v[field] = CodeRequired
	case !val.Decimal.IsPositive():
		v[field] = CodeMustBePositive
	case tooPrecise(val.Decimal):
		v[field] = CodeTooPrecise
	}
}

// NonNegativeDecimal requires a present amount of zero or more.
func NonNegativeDecimal(field string, val decimal.NullDecimal, v Violations) {
	switch {
	case !val.Valid:
		v[field] = CodeRequired
	case val.Decimal.IsNegative():
		v[field] = CodeNegative
	case tooPrecise(val.Decimal):
		v[field] = CodeTooPrecise
	}
}

func tooPrecise(d decimal.Decimal) bool {
	return !d.Equal(d.Round(MoneyPlaces))
}

// OneOf accepts an empty value or one of allowed.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	v[field] = CodeInvalidChoice
}

// Date requires a YYYY-MM-DD calendar date.
func Date(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = CodeRequired
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		v[field] = CodeInvalidDate
	}
}
