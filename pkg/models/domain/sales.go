package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinWeekNumber   = 1
	MaxWeekNumber   = 52
	DefaultCurrency = "KSH"

	// MaxFractionDigits bounds the decimal places of amounts and percentages.
	MaxFractionDigits = 6
)

var (
	// MaxAmount is the largest sales figure a report accepts.
	MaxAmount = decimal.New(1, 15)
	// MaxPercent bounds the magnitude of a change percentage.
	MaxPercent = decimal.New(1, 6)
)

// maxDecimalLength is the longest literal ParseDecimal reads; it fits any
// value within MaxAmount at MaxFractionDigits places.
const maxDecimalLength = 32

var (
	ErrExponentNotation = errors.New("exponent notation is not supported")
	ErrNumberTooLong    = errors.New("number has too many digits")
)

// ParseDecimal parses a plain decimal number such as "1630000" or "-3.5".
// Exponent notation is rejected: "1e9" expands to an arbitrarily long figure.
func ParseDecimal(s string) (decimal.Decimal, error) {
	if len(s) > maxDecimalLength {
		return decimal.Zero, ErrNumberTooLong
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrExponentNotation
	}
	return decimal.NewFromString(s)
}

// WeeklyReport is the input of a single report generation request.
// It is built once per submission and passed by value to the renderers.
type WeeklyReport struct {
	WeekNumber         int             // 20
	DateRange          string          // "May 9th - May 15th, 2025"
	Currency           string          // KSH
	TotalSales         decimal.Decimal // 11808769
	LastWeekSales      decimal.Decimal // 14583061
	TotalChangePercent decimal.Decimal // -19.0
	TotalSalesComment  string
	Executives         []Executive
	Highlights         []string
	NextSteps          []string
}

// Executive is one sales representative's weekly performance entry.
type Executive struct {
	Name          string          // Caroline
	CurrentSales  decimal.Decimal // 1630000
	LastSales     decimal.Decimal // 1690000
	ChangePercent decimal.Decimal // -4
	Comment       string
}

// CurrencyOrDefault returns the currency label printed before amounts.
func (r WeeklyReport) CurrencyOrDefault() string {
	if strings.TrimSpace(r.Currency) == "" {
		return DefaultCurrency
	}
	return r.Currency
}

// ChangePercent derives the week over week change of two amounts, rounded to
// one decimal place. A zero baseline yields zero.
func ChangePercent(current, last decimal.Decimal) decimal.Decimal {
	if last.IsZero() {
		return decimal.Zero
	}
	return current.Sub(last).Div(last).Mul(decimal.NewFromInt(100)).Round(1)
}

// SplitLines turns a textarea value into list entries: one per non-empty line.
func SplitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// CompactLines drops blank entries from an already split list.
func CompactLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DirectionMismatches lists the percent fields whose sign disagrees with the
// movement of the sales figures they describe. The supplied percent is kept;
// callers only report the mismatch.
func (r WeeklyReport) DirectionMismatches() []string {
	var fields []string
	if disagrees(r.TotalChangePercent, r.TotalSales, r.LastWeekSales) {
		fields = append(fields, "total_change_percent")
	}
	for i, e := range r.Executives {
		if disagrees(e.ChangePercent, e.CurrentSales, e.LastSales) {
			fields = append(fields, "executives["+strconv.Itoa(i)+"].change_percent")
		}
	}
	return fields
}

func disagrees(pct, current, last decimal.Decimal) bool {
	movement := current.Cmp(last)
	switch {
	case movement < 0:
		return pct.IsPositive()
	case movement > 0:
		return pct.IsNegative()
	default:
		return false
	}
}
