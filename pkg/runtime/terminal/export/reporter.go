package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/sales-report/pkg/models/domain"
)

type TableConfig struct {
	NameWidth   int
	ValueWidth  int
	DetailWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   30,
		ValueWidth:  16,
		DetailWidth: 56,
	}
}

// FormatRow describes one output format in the formats table.
type FormatRow struct {
	Name        string
	Filename    string
	ContentType string
}

// Written describes an artifact the render command saved to disk.
type Written struct {
	ID       string
	Path     string
	Format   string
	Bytes    int
	Week     int
	Warnings []string
}

// Reporter prints the results of CLI commands.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(name, value, detail string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, truncate(value, c.config.ValueWidth),
				c.config.DetailWidth, truncate(detail, c.config.DetailWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.DetailWidth+2))
		},
	}
}

func (c *Reporter) execute(name, tmpl string, data any) error {
	t, err := template.New(name).Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

// HandleWritten prints a summary of a saved report.
func (c *Reporter) HandleWritten(w Written) error {
	tmpl := `Week {{.Week}} report written to {{.Path}}
Format: {{.Format}} ({{.Bytes}} bytes)
Report ID: {{.ID}}
{{range .Warnings}}warning: {{.}} sign disagrees with the sales figures
{{end}}`
	return c.execute("written", tmpl, w)
}

// HandleFormats prints the available output formats.
func (c *Reporter) HandleFormats(rows []FormatRow) error {
	tmpl := `{{separator}}
{{formatRow "File name" "Format" "Content type"}}
{{separator}}
{{range .}}{{formatRow .Filename .Name .ContentType}}
{{end}}{{separator}}
`
	return c.execute("formats", tmpl, rows)
}

// HandleValidation prints the fields that prevented a report from rendering.
func (c *Reporter) HandleValidation(verr *domain.ValidationError) error {
	tmpl := `Report input rejected ({{len .Fields}} problem(s)):
{{separator}}
{{formatRow "Field" "Code" "Message"}}
{{separator}}
{{range .Fields}}{{formatRow .Field .Code .Message}}
{{end}}{{separator}}
`
	return c.execute("validation", tmpl, verr)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
