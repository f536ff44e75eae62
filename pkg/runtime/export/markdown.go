package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/nao1215/markdown"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct{}

func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

func (w *MarkdownWriter) Format() Format { return FormatMarkdown }

func (w *MarkdownWriter) ContentType() string { return "text/markdown; charset=utf-8" }

func (w *MarkdownWriter) Filename(week int) string {
	return fmt.Sprintf("weekly_sales_report_week_%d.md", week)
}

func (w *MarkdownWriter) Write(out io.Writer, doc *domain.Document) error {
	md := markdown.NewMarkdown(out)

	for _, b := range doc.Blocks {
		lines := make([]string, 0, len(b.Lines))
		for _, line := range b.Lines {
			lines = append(lines, markdownLine(line))
		}

		switch b.Kind {
		case domain.BlockTitle:
			md.H1(strings.Join(lines, " "))
		case domain.BlockHeading:
			if b.Level >= 3 {
				md.H3(strings.Join(lines, " "))
			} else {
				md.H2(strings.Join(lines, " "))
			}
		case domain.BlockParagraph:
			if b.Bulleted {
				md.BulletList(lines...)
			} else {
				// two trailing blanks keep the lines in one paragraph
				md.PlainText(strings.Join(lines, "  \n"))
			}
		case domain.BlockBulletList:
			md.BulletList(lines...)
		case domain.BlockNumberedList:
			md.OrderedList(lines...)
		}
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to build markdown: %w", err)
	}
	return nil
}

func markdownLine(line domain.Line) string {
	var sb strings.Builder
	for _, r := range line.Runs {
		text := markdownEscaper.Replace(r.Text)
		if r.Bold && strings.TrimSpace(text) != "" {
			text = markdown.Bold(text)
		}
		sb.WriteString(text)
	}
	return sb.String()
}
