package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRequest = `{
  "week_number": 7,
  "date_range": "Feb 10th - Feb 16th, 2025",
  "total_sales": 1000,
  "last_week_sales": "1050",
  "total_change_percent": -5,
  "total_sales_comment": "Soft week.",
  "executives": [
    {"name": "Alice", "current_sales": 560000, "last_sales": 500000, "change_percent": 12, "comment": "Great week."},
    {"name": "Bob", "current_sales": 97000, "last_sales": 100000, "comment": "Steady."}
  ],
  "highlights": ["First highlight", "  ", "Second highlight"],
  "next_steps": ["Call", "Email", "Visit"]
}`

func TestDecodeReportRequest_Valid(t *testing.T) {
	req, err := DecodeReportRequest([]byte(validRequest))
	require.NoError(t, err)

	report, err := req.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, 7, report.WeekNumber)
	assert.Equal(t, "Feb 10th - Feb 16th, 2025", report.DateRange)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.LastWeekSales.Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, "-5", report.TotalChangePercent.String())

	require.Len(t, report.Executives, 2)
	assert.Equal(t, "Alice", report.Executives[0].Name)
	assert.Equal(t, "12", report.Executives[0].ChangePercent.String())
	assert.Equal(t, "-3", report.Executives[1].ChangePercent.String(), "derived from sales figures")

	assert.Equal(t, []string{"First highlight", "Second highlight"}, report.Highlights)
	assert.Len(t, report.NextSteps, 3)
	require.NoError(t, report.Validate())
}

func TestDecodeReportRequest_SchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing week",
			body:  `{"date_range": "x", "total_sales": 1, "last_week_sales": 1}`,
			field: "week_number",
		},
		{
			name:  "week out of range",
			body:  `{"week_number": 53, "date_range": "x", "total_sales": 1, "last_week_sales": 1}`,
			field: "week_number",
		},
		{
			name:  "non numeric amount",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": "lots", "last_week_sales": 1}`,
			field: "total_sales",
		},
		{
			name:  "negative amount",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": -1, "last_week_sales": 1}`,
			field: "total_sales",
		},
		{
			name:  "executive without name",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": 1, "last_week_sales": 1, "executives": [{"current_sales": 1, "last_sales": 1}]}`,
			field: "executives[0].name",
		},
		{
			name:  "amount past the bound",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": 1000000000000001, "last_week_sales": 1}`,
			field: "total_sales",
		},
		{
			name:  "amount past int64",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": 9223372036854775808, "last_week_sales": 1}`,
			field: "total_sales",
		},
		{
			name:  "exponent in a string amount",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": "1e5000000", "last_week_sales": 1}`,
			field: "total_sales",
		},
		{
			name:  "percent past the bound",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": 1, "last_week_sales": 1, "total_change_percent": -1000001}`,
			field: "total_change_percent",
		},
		{
			name:  "unknown property",
			body:  `{"week_number": 1, "date_range": "x", "total_sales": 1, "last_week_sales": 1, "weak": 2}`,
			field: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReportRequest([]byte(tt.body))

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.NotEmpty(t, verr.Fields)

			var fields []string
			for _, f := range verr.Fields {
				assert.Equal(t, domain.CodeSchema, f.Code)
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestDecodeReportRequest_ExponentNotation(t *testing.T) {
	body := `{"week_number": 1, "date_range": "x", "total_sales": 1e5000000, "last_week_sales": 1,
		"executives": [{"name": "Ann", "current_sales": 2E3, "last_sales": 1}]}`

	_, err := DecodeReportRequest([]byte(body))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, []domain.FieldError{
		{Field: "executives[0].current_sales", Code: domain.CodeNotNumeric, Message: domain.ErrExponentNotation.Error()},
		{Field: "total_sales", Code: domain.CodeNotNumeric, Message: domain.ErrExponentNotation.Error()},
	}, verr.Fields)
}

func TestDecodeReportRequest_AmountAtBound(t *testing.T) {
	body := `{"week_number": 1, "date_range": "x", "total_sales": 1000000000000000, "last_week_sales": "1000000000000000"}`

	req, err := DecodeReportRequest([]byte(body))
	require.NoError(t, err)

	report, err := req.ToDomain()
	require.NoError(t, err)
	assert.True(t, report.TotalSales.Equal(domain.MaxAmount))
	assert.NoError(t, report.Validate())
}

func TestDecodeReportRequest_Malformed(t *testing.T) {
	_, err := DecodeReportRequest([]byte(`{"week_number": `))
	assert.True(t, errors.Is(err, ErrMalformedRequest))
}

func TestToDomain_NotNumeric(t *testing.T) {
	req := ReportRequest{
		WeekNumber:    1,
		DateRange:     "x",
		TotalSales:    json.Number("12,000"),
		LastWeekSales: json.Number("1"),
	}

	_, err := req.ToDomain()

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "total_sales", verr.Fields[0].Field)
	assert.Equal(t, domain.CodeNotNumeric, verr.Fields[0].Code)
}

func TestToDomain_ExponentNotation(t *testing.T) {
	pct := json.Number("1e3")
	req := ReportRequest{
		WeekNumber:         1,
		DateRange:          "x",
		TotalSales:         json.Number("1e5000000"),
		LastWeekSales:      json.Number("1"),
		TotalChangePercent: &pct,
	}

	_, err := req.ToDomain()

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "total_sales", verr.Fields[0].Field)
	assert.Equal(t, "total_change_percent", verr.Fields[1].Field)
	for _, f := range verr.Fields {
		assert.Equal(t, domain.CodeNotNumeric, f.Code)
		assert.Contains(t, f.Message, domain.ErrExponentNotation.Error())
	}
}

func TestNewReportRequest_SampleSurvivesSchema(t *testing.T) {
	sample := domain.SampleReport()

	data, err := json.Marshal(NewReportRequest(sample))
	require.NoError(t, err)

	req, err := DecodeReportRequest(data)
	require.NoError(t, err)

	report, err := req.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, sample.WeekNumber, report.WeekNumber)
	assert.True(t, sample.TotalSales.Equal(report.TotalSales))
	assert.True(t, sample.TotalChangePercent.Equal(report.TotalChangePercent))
	require.Len(t, report.Executives, len(sample.Executives))
	for i := range sample.Executives {
		assert.Equal(t, sample.Executives[i].Name, report.Executives[i].Name)
		assert.True(t, sample.Executives[i].ChangePercent.Equal(report.Executives[i].ChangePercent))
	}
	assert.Equal(t, sample.Highlights, report.Highlights)
	assert.Equal(t, sample.NextSteps, report.NextSteps)
}
