package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CodeRequired     = "REQUIRED"
	CodeNotNumeric   = "NOT_NUMERIC"
	CodeOutOfRange   = "OUT_OF_RANGE"
	CodeNegative     = "NEGATIVE"
	CodeSchema       = "SCHEMA"
	CodeInvalidValue = "INVALID_VALUE"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError is returned when the operator's input cannot be rendered.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field error.
func (e *ValidationError) Add(field, code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
}

// Merge appends the field errors of other, if any.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Fields = append(e.Fields, other.Fields...)
}

// ErrOrNil returns nil when no field error has been recorded.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks the invariants the renderers rely on.
func (r WeeklyReport) Validate() error {
	verr := &ValidationError{}

	if r.WeekNumber < MinWeekNumber || r.WeekNumber > MaxWeekNumber {
		verr.Add("week_number", CodeOutOfRange,
			fmt.Sprintf("must be between %d and %d", MinWeekNumber, MaxWeekNumber))
	}
	if strings.TrimSpace(r.DateRange) == "" {
		verr.Add("date_range", CodeRequired, "is required")
	}
	checkAmount(verr, "total_sales", r.TotalSales)
	checkAmount(verr, "last_week_sales", r.LastWeekSales)
	checkPercent(verr, "total_change_percent", r.TotalChangePercent)

	for i, e := range r.Executives {
		prefix := fmt.Sprintf("executives[%d]", i)
		if strings.TrimSpace(e.Name) == "" {
			verr.Add(prefix+".name", CodeRequired, "is required")
		}
		checkAmount(verr, prefix+".current_sales", e.CurrentSales)
		checkAmount(verr, prefix+".last_sales", e.LastSales)
		checkPercent(verr, prefix+".change_percent", e.ChangePercent)
	}

	return verr.ErrOrNil()
}

func checkAmount(verr *ValidationError, field string, d decimal.Decimal) {
	if d.IsNegative() {
		verr.Add(field, CodeNegative, "must not be negative")
		return
	}
	if msg := outOfBounds(d, MaxAmount); msg != "" {
		verr.Add(field, CodeOutOfRange, msg)
	}
}

func checkPercent(verr *ValidationError, field string, d decimal.Decimal) {
	if msg := outOfBounds(d, MaxPercent); msg != "" {
		verr.Add(field, CodeOutOfRange, msg)
	}
}

// outOfBounds reports why |d| exceeds limit or carries too many decimal
// places. The exponent is checked before any comparison so that values like
// 1e5000000 are never expanded.
func outOfBounds(d, limit decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	if d.Exponent() < -MaxFractionDigits {
		return fmt.Sprintf("must have at most %d decimal places", MaxFractionDigits)
	}
	if d.Exponent() > limit.Exponent() || d.Abs().Cmp(limit) > 0 {
		return fmt.Sprintf("must not exceed %s in magnitude", limit.String())
	}
	return ""
}
