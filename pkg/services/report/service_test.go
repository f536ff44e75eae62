package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/sales-report/pkg/metrics"
	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestService_Render(t *testing.T) {
	m := metrics.New()
	svc := NewService(Config{Dependencies: Dependencies{Metrics: m}})

	tests := []struct {
		format      export.Format
		filename    string
		contentType string
	}{
		{export.FormatDocx, "Weekly_Sales_Report_Week_20.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{export.FormatHTML, "weekly_sales_report_week_20.html", "text/html; charset=utf-8"},
		{export.FormatMarkdown, "weekly_sales_report_week_20.md", "text/markdown; charset=utf-8"},
		{export.FormatText, "weekly_sales_report_week_20.txt", "text/plain; charset=utf-8"},
		{export.FormatPDF, "Weekly_Sales_Report_Week_20.pdf", "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			artifact, err := svc.Render(context.Background(), domain.SampleReport(), tt.format)
			require.NoError(t, err)

			assert.Equal(t, tt.filename, artifact.Filename)
			assert.Equal(t, tt.contentType, artifact.ContentType)
			assert.NotEmpty(t, artifact.Body)
			_, err = uuid.Parse(artifact.ID)
			assert.NoError(t, err)
		})
	}

	count, err := testutil.GatherAndCount(m.Registry(), "sales_reports_rendered_total")
	require.NoError(t, err)
	assert.Equal(t, len(tests), count)
}

func TestService_RenderRejectsInvalidReport(t *testing.T) {
	svc := NewService(Config{})

	r := domain.SampleReport()
	r.WeekNumber = 60
	r.Executives[2].Name = " "

	artifact, err := svc.Render(context.Background(), r, export.FormatDocx)
	assert.Nil(t, artifact)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "week_number", verr.Fields[0].Field)
	assert.Equal(t, domain.CodeOutOfRange, verr.Fields[0].Code)
	assert.Equal(t, "executives[2].name", verr.Fields[1].Field)
}

func TestService_RenderUnknownFormat(t *testing.T) {
	svc := NewService(Config{})

	_, err := svc.Render(context.Background(), domain.SampleReport(), "xlsx")
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))
}

func TestService_RenderAppliesConfiguredCurrency(t *testing.T) {
	svc := NewService(Config{Currency: "USD"})

	r := domain.SampleReport()
	r.Currency = ""

	artifact, err := svc.Render(context.Background(), r, export.FormatText)
	require.NoError(t, err)
	assert.Contains(t, string(artifact.Body), "USD 11,808,769")
}

func TestService_RenderLogsDirectionMismatch(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	ctx := logger.WithContext(context.Background())

	r := domain.SampleReport()
	r.TotalChangePercent = decimal.NewFromInt(19)

	artifact, err := NewService(Config{}).Render(ctx, r, export.FormatText)
	require.NoError(t, err)

	assert.Contains(t, string(artifact.Body), "19% increase")
	assert.Contains(t, logs.String(), `"field":"total_change_percent"`)
	assert.Contains(t, logs.String(), "report rendered")
}

func TestRenderRich_Idempotent(t *testing.T) {
	first, err := RenderRich(domain.SampleReport())
	require.NoError(t, err)
	second, err := RenderRich(domain.SampleReport())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(first, []byte("PK")))
	assert.Equal(t, first, second)
}

func TestRenderMarkup(t *testing.T) {
	out, err := RenderMarkup(domain.SampleReport())
	require.NoError(t, err)

	again, err := RenderMarkup(domain.SampleReport())
	require.NoError(t, err)
	assert.Equal(t, out, again)

	assert.Contains(t, out, "Week 20")
	assert.Contains(t, out, "May 9th - May 15th, 2025")
	assert.Contains(t, out, `<span class="negative">decline</span>`)
	assert.Contains(t, out, "KSH 1630.00K")
	assert.Contains(t, out, "KSH 11,808,769")
	assert.Less(t, strings.Index(out, "Caroline"), strings.Index(out, "Edwin"))
	assert.Less(t, strings.Index(out, "Moses"), strings.Index(out, "UPC (Upcountry)"))
}

func TestRenderMarkup_Injection(t *testing.T) {
	payload := `<script>alert("x")</script>`

	r := domain.SampleReport()
	r.Executives[0].Name = payload
	r.Highlights = []string{payload, "plain"}

	out, err := RenderMarkup(r)
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var scripts int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			scripts++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	assert.Zero(t, scripts)
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestService_RenderHonoursContext(t *testing.T) {
	expired, cancelExpired := context.WithTimeout(context.Background(), -time.Second)
	defer cancelExpired()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		expected error
	}{
		{name: "cancelled", ctx: cancelled, expected: context.Canceled},
		{name: "deadline exceeded", ctx: expired, expected: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			svc := NewService(Config{Dependencies: Dependencies{Metrics: m}})

			artifact, err := svc.Render(tt.ctx, domain.SampleReport(), export.FormatText)

			assert.Nil(t, artifact)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			count, err := testutil.GatherAndCount(m.Registry(), "sales_reports_rendered_total")
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestService_RenderAmountBounds(t *testing.T) {
	svc := NewService(Config{})

	t.Run("largest amount", func(t *testing.T) {
		r := domain.SampleReport()
		r.TotalSales = domain.MaxAmount

		artifact, err := svc.Render(context.Background(), r, export.FormatText)

		require.NoError(t, err)
		assert.Contains(t, string(artifact.Body), "KSH 1,000,000,000,000,000, marking a")
	})

	tests := []struct {
		name   string
		mutate func(*domain.WeeklyReport)
		field  string
	}{
		{"total past the bound", func(r *domain.WeeklyReport) {
			r.TotalSales = decimal.RequireFromString("9223372036854775808")
		}, "total_sales"},
		{"huge exponent", func(r *domain.WeeklyReport) {
			r.Executives[0].CurrentSales = decimal.New(1, 5000000)
		}, "executives[0].current_sales"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.SampleReport()
			tt.mutate(&r)

			_, err := svc.Render(context.Background(), r, export.FormatText)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, domain.CodeOutOfRange, verr.Fields[0].Code)

			_, err = RenderRich(r)
			assert.True(t, errors.As(err, &verr))
		})
	}
}
