package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/sales-report/pkg/models/domain"
)

const textTemplate = `{{range .Blocks}}{{$kind := .Kind.String}}{{$level := .Level}}{{$bulleted := .Bulleted}}
{{- if eq $kind "title"}}{{range .Lines}}{{text .}}
{{rule (text .) "="}}
{{end}}
{{- else if eq $kind "heading"}}
{{range .Lines}}{{if ge $level 3}}{{text .}}{{else}}=== {{text .}} ==={{end}}
{{end}}
{{- else if eq $kind "paragraph"}}{{range .Lines}}{{if $bulleted}}- {{end}}{{text .}}
{{end}}
{{- else if eq $kind "bullet_list"}}{{range .Lines}}- {{text .}}
{{end}}
{{- else if eq $kind "numbered_list"}}{{range $i, $line := .Lines}}{{inc $i}}. {{text $line}}
{{end}}
{{- end}}{{end}}`

// TextWriter outputs reports as plain text for terminals.
type TextWriter struct {
	tmpl *template.Template
}

func NewTextWriter() *TextWriter {
	funcMap := template.FuncMap{
		"text": func(l domain.Line) string { return l.Text() },
		"rule": func(s, ch string) string {
			return strings.Repeat(ch, utf8.RuneCountInString(s))
		},
		"inc": func(i int) int { return i + 1 },
	}
	return &TextWriter{
		tmpl: template.Must(template.New("report").Funcs(funcMap).Parse(textTemplate)),
	}
}

func (w *TextWriter) Format() Format { return FormatText }

func (w *TextWriter) ContentType() string { return "text/plain; charset=utf-8" }

func (w *TextWriter) Filename(week int) string {
	return fmt.Sprintf("weekly_sales_report_week_%d.txt", week)
}

func (w *TextWriter) Write(out io.Writer, doc *domain.Document) error {
	if err := w.tmpl.Execute(out, doc); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
