package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/report.schema.json
var reportSchemaJSON []byte

var ErrMalformedRequest = errors.New("malformed report request")

// ReportRequest is the JSON and YAML form of a weekly report.
// Percentages may be omitted, in which case they are derived from the sales
// figures.
type ReportRequest struct {
	WeekNumber         int               `json:"week_number"`
	DateRange          string            `json:"date_range"`
	Currency           string            `json:"currency,omitempty"`
	TotalSales         json.Number       `json:"total_sales"`
	LastWeekSales      json.Number       `json:"last_week_sales"`
	TotalChangePercent *json.Number      `json:"total_change_percent,omitempty"`
	TotalSalesComment  string            `json:"total_sales_comment"`
	Executives         []ExecutiveRecord `json:"executives"`
	Highlights         []string          `json:"highlights"`
	NextSteps          []string          `json:"next_steps"`
}

type ExecutiveRecord struct {
	Name          string       `json:"name"`
	CurrentSales  json.Number  `json:"current_sales"`
	LastSales     json.Number  `json:"last_sales"`
	ChangePercent *json.Number `json:"change_percent,omitempty"`
	Comment       string       `json:"comment"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type FormatsResponse struct {
	Formats []string `json:"formats"`
	Default string   `json:"default"`
}

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func reportSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reportSchemaJSON))
	})
	return compiledSchema, schemaErr
}

// DecodeReportRequest validates a JSON document against the report schema
// and decodes it. Schema violations are returned as *domain.ValidationError,
// unparsable input wraps ErrMalformedRequest.
func DecodeReportRequest(data []byte) (*ReportRequest, error) {
	schema, err := reportSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile report schema: %w", err)
	}

	if err := rejectExponents(data); err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	if !result.Valid() {
		verr := &domain.ValidationError{}
		for _, desc := range result.Errors() {
			verr.Add(schemaField(desc), domain.CodeSchema, desc.Description())
		}
		return nil, verr
	}

	var req ReportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return &req, nil
}

// rejectExponents fails on JSON numbers written in exponent notation. The
// schema pattern only covers strings, and a literal like 1e5000000 would
// otherwise expand into a multi-megabyte figure.
func rejectExponents(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	verr := &domain.ValidationError{}
	walkNumbers(doc, "", func(field string, n json.Number) {
		if strings.ContainsAny(n.String(), "eE") {
			verr.Add(field, domain.CodeNotNumeric, domain.ErrExponentNotation.Error())
		}
	})
	return verr.ErrOrNil()
}

func walkNumbers(v any, field string, visit func(string, json.Number)) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if field != "" {
				child = field + "." + k
			}
			walkNumbers(t[k], child, visit)
		}
	case []any:
		for i, item := range t {
			walkNumbers(item, fmt.Sprintf("%s[%d]", field, i), visit)
		}
	case json.Number:
		visit(field, t)
	}
}

// schemaField converts a schema error location ("executives.0.name") into
// the field naming used by validation errors ("executives[0].name").
func schemaField(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
				field = prop
			} else {
				field += "." + prop
			}
		}
	}

	parts := strings.Split(field, ".")
	var sb strings.Builder
	for i, part := range parts {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// ToDomain converts the request into the report model. Numbers that do not
// parse are reported per field; blank list entries are dropped.
func (r ReportRequest) ToDomain() (domain.WeeklyReport, error) {
	verr := &domain.ValidationError{}

	report := domain.WeeklyReport{
		WeekNumber:        r.WeekNumber,
		DateRange:         strings.TrimSpace(r.DateRange),
		Currency:          strings.TrimSpace(r.Currency),
		TotalSales:        parseAmount(verr, "total_sales", r.TotalSales),
		LastWeekSales:     parseAmount(verr, "last_week_sales", r.LastWeekSales),
		TotalSalesComment: strings.TrimSpace(r.TotalSalesComment),
		Highlights:        domain.CompactLines(r.Highlights),
		NextSteps:         domain.CompactLines(r.NextSteps),
	}
	report.TotalChangePercent = parsePercent(verr, "total_change_percent",
		r.TotalChangePercent, report.TotalSales, report.LastWeekSales)

	report.Executives = make([]domain.Executive, 0, len(r.Executives))
	for i, e := range r.Executives {
		prefix := fmt.Sprintf("executives[%d]", i)
		exec := domain.Executive{
			Name:         strings.TrimSpace(e.Name),
			CurrentSales: parseAmount(verr, prefix+".current_sales", e.CurrentSales),
			LastSales:    parseAmount(verr, prefix+".last_sales", e.LastSales),
			Comment:      strings.TrimSpace(e.Comment),
		}
		exec.ChangePercent = parsePercent(verr, prefix+".change_percent",
			e.ChangePercent, exec.CurrentSales, exec.LastSales)
		report.Executives = append(report.Executives, exec)
	}

	if err := verr.ErrOrNil(); err != nil {
		return domain.WeeklyReport{}, err
	}
	return report, nil
}

func parseAmount(verr *domain.ValidationError, field string, n json.Number) decimal.Decimal {
	d, err := domain.ParseDecimal(strings.TrimSpace(n.String()))
	if errors.Is(err, domain.ErrNumberTooLong) {
		verr.Add(field, domain.CodeOutOfRange, err.Error())
		return decimal.Zero
	}
	if errors.Is(err, domain.ErrExponentNotation) {
		verr.Add(field, domain.CodeNotNumeric, fmt.Sprintf("%q: %v", n.String(), err))
		return decimal.Zero
	}
	if err != nil {
		verr.Add(field, domain.CodeNotNumeric, fmt.Sprintf("%q is not a number", n.String()))
		return decimal.Zero
	}
	return d
}

func parsePercent(verr *domain.ValidationError, field string, n *json.Number, current, last decimal.Decimal) decimal.Decimal {
	if n == nil || strings.TrimSpace(n.String()) == "" {
		return domain.ChangePercent(current, last)
	}
	return parseAmount(verr, field, *n)
}

// NewReportRequest is the inverse of ToDomain.
func NewReportRequest(r domain.WeeklyReport) ReportRequest {
	req := ReportRequest{
		WeekNumber:         r.WeekNumber,
		DateRange:          r.DateRange,
		Currency:           r.Currency,
		TotalSales:         json.Number(r.TotalSales.String()),
		LastWeekSales:      json.Number(r.LastWeekSales.String()),
		TotalChangePercent: number(r.TotalChangePercent),
		TotalSalesComment:  r.TotalSalesComment,
		Executives:         make([]ExecutiveRecord, 0, len(r.Executives)),
		Highlights:         r.Highlights,
		NextSteps:          r.NextSteps,
	}
	for _, e := range r.Executives {
		req.Executives = append(req.Executives, ExecutiveRecord{
			Name:          e.Name,
			CurrentSales:  json.Number(e.CurrentSales.String()),
			LastSales:     json.Number(e.LastSales.String()),
			ChangePercent: number(e.ChangePercent),
			Comment:       e.Comment,
		})
	}
	return req
}

func number(d decimal.Decimal) *json.Number {
	n := json.Number(d.String())
	return &n
}
