package report

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// blankExecutiveRows are appended to the form so new executives can be added.
const blankExecutiveRows = 2

var executiveField = regexp.MustCompile(`^executives\[(\d+)\]\.(name|current_sales|last_sales|change_percent|comment)$`)

// formValues keeps the raw submitted text so a rejected form can be shown
// again exactly as it was entered.
type formValues struct {
	WeekNumber         string
	DateRange          string
	Currency           string
	TotalSales         string
	LastWeekSales      string
	TotalChangePercent string
	TotalSalesComment  string
	Executives         []executiveValues
	Highlights         string
	NextSteps          string
}

type executiveValues struct {
	Name          string
	CurrentSales  string
	LastSales     string
	ChangePercent string
	Comment       string
}

func (e executiveValues) blank() bool {
	return strings.TrimSpace(e.Name+e.CurrentSales+e.LastSales+e.ChangePercent+e.Comment) == ""
}

func newFormValues(r domain.WeeklyReport) formValues {
	v := formValues{
		WeekNumber:         strconv.Itoa(r.WeekNumber),
		DateRange:          r.DateRange,
		Currency:           r.CurrencyOrDefault(),
		TotalSales:         r.TotalSales.String(),
		LastWeekSales:      r.LastWeekSales.String(),
		TotalChangePercent: r.TotalChangePercent.String(),
		TotalSalesComment:  r.TotalSalesComment,
		Highlights:         strings.Join(r.Highlights, "\n"),
		NextSteps:          strings.Join(r.NextSteps, "\n"),
	}
	for _, e := range r.Executives {
		v.Executives = append(v.Executives, executiveValues{
			Name:          e.Name,
			CurrentSales:  e.CurrentSales.String(),
			LastSales:     e.LastSales.String(),
			ChangePercent: e.ChangePercent.String(),
			Comment:       e.Comment,
		})
	}
	return v.withBlankRows()
}

func (v formValues) withBlankRows() formValues {
	for i := 0; i < blankExecutiveRows; i++ {
		v.Executives = append(v.Executives, executiveValues{})
	}
	return v
}

// readFormValues collects the submitted fields. Executive rows are ordered by
// their index and rows left entirely blank are skipped.
func readFormValues(form url.Values) formValues {
	v := formValues{
		WeekNumber:         form.Get("week_number"),
		DateRange:          form.Get("date_range"),
		Currency:           form.Get("currency"),
		TotalSales:         form.Get("total_sales"),
		LastWeekSales:      form.Get("last_week_sales"),
		TotalChangePercent: form.Get("total_change_percent"),
		TotalSalesComment:  form.Get("total_sales_comment"),
		Highlights:         form.Get("highlights"),
		NextSteps:          form.Get("next_steps"),
	}

	rows := map[int]*executiveValues{}
	for key := range form {
		m := executiveField.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := rows[idx]
		if !ok {
			row = &executiveValues{}
			rows[idx] = row
		}
		value := form.Get(key)
		switch m[2] {
		case "name":
			row.Name = value
		case "current_sales":
			row.CurrentSales = value
		case "last_sales":
			row.LastSales = value
		case "change_percent":
			row.ChangePercent = value
		case "comment":
			row.Comment = value
		}
	}

	indices := make([]int, 0, len(rows))
	for idx := range rows {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		if !rows[idx].blank() {
			v.Executives = append(v.Executives, *rows[idx])
		}
	}
	return v
}

// toDomain converts the raw values into a report. Fields that are not
// numbers are collected into a *domain.ValidationError.
func (v formValues) toDomain() (domain.WeeklyReport, error) {
	verr := &domain.ValidationError{}

	report := domain.WeeklyReport{
		DateRange:         strings.TrimSpace(v.DateRange),
		Currency:          strings.TrimSpace(v.Currency),
		TotalSalesComment: strings.TrimSpace(v.TotalSalesComment),
		Highlights:        domain.SplitLines(v.Highlights),
		NextSteps:         domain.SplitLines(v.NextSteps),
	}

	week, err := strconv.Atoi(strings.TrimSpace(v.WeekNumber))
	if err != nil {
		verr.Add("week_number", domain.CodeNotNumeric, fmt.Sprintf("%q is not a whole number", v.WeekNumber))
	}
	report.WeekNumber = week

	report.TotalSales = parseNumber(verr, "total_sales", v.TotalSales)
	report.LastWeekSales = parseNumber(verr, "last_week_sales", v.LastWeekSales)
	report.TotalChangePercent = parseChange(verr, "total_change_percent",
		v.TotalChangePercent, report.TotalSales, report.LastWeekSales)

	for i, e := range v.Executives {
		prefix := fmt.Sprintf("executives[%d]", i)
		exec := domain.Executive{
			Name:         strings.TrimSpace(e.Name),
			CurrentSales: parseNumber(verr, prefix+".current_sales", e.CurrentSales),
			LastSales:    parseNumber(verr, prefix+".last_sales", e.LastSales),
			Comment:      strings.TrimSpace(e.Comment),
		}
		exec.ChangePercent = parseChange(verr, prefix+".change_percent",
			e.ChangePercent, exec.CurrentSales, exec.LastSales)
		report.Executives = append(report.Executives, exec)
	}

	if err := verr.ErrOrNil(); err != nil {
		return domain.WeeklyReport{}, err
	}
	return report, nil
}

// parseNumber accepts plain decimals and thousands separated input
// ("11,808,769"). A trailing percent sign is ignored.
func parseNumber(verr *domain.ValidationError, field, raw string) decimal.Decimal {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimSuffix(clean, "%")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" {
		verr.Add(field, domain.CodeRequired, "is required")
		return decimal.Zero
	}
	d, err := domain.ParseDecimal(clean)
	if errors.Is(err, domain.ErrNumberTooLong) {
		verr.Add(field, domain.CodeOutOfRange, err.Error())
		return decimal.Zero
	}
	if errors.Is(err, domain.ErrExponentNotation) {
		verr.Add(field, domain.CodeNotNumeric, fmt.Sprintf("%q: %v", raw, err))
		return decimal.Zero
	}
	if err != nil {
		verr.Add(field, domain.CodeNotNumeric, fmt.Sprintf("%q is not a number", raw))
		return decimal.Zero
	}
	return d
}

// parseChange derives the percentage when the field is left empty.
func parseChange(verr *domain.ValidationError, field, raw string, current, last decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		return domain.ChangePercent(current, last)
	}
	return parseNumber(verr, field, raw)
}
