package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/de-tools/sales-report/pkg/models/domain"
)

//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html.tmpl"))

// HTMLWriter writes a standalone web page with embedded styles.
// All report text is escaped; signed figures carry a negative or positive
// CSS class instead of bold styling.
type HTMLWriter struct {
	tmpl *template.Template
}

func NewHTMLWriter() *HTMLWriter {
	return &HTMLWriter{tmpl: reportTemplate}
}

func (w *HTMLWriter) Format() Format { return FormatHTML }

func (w *HTMLWriter) ContentType() string { return "text/html; charset=utf-8" }

func (w *HTMLWriter) Filename(week int) string {
	return fmt.Sprintf("weekly_sales_report_week_%d.html", week)
}

func (w *HTMLWriter) Write(out io.Writer, doc *domain.Document) error {
	if err := w.tmpl.ExecuteTemplate(out, "report.html.tmpl", doc); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
