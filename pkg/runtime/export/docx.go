package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/fumiama/go-docx"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// run sizes are in half-points
	docxTitleSize    = "32"
	docxHeading2Size = "28"
	docxHeading3Size = "24"

	docxNegativeColor = "E74C3C"
	docxPositiveColor = "27AE60"
)

// DocxWriter writes Word documents.
type DocxWriter struct{}

func NewDocxWriter() *DocxWriter {
	return &DocxWriter{}
}

func (w *DocxWriter) Format() Format { return FormatDocx }

func (w *DocxWriter) ContentType() string { return docxContentType }

func (w *DocxWriter) Filename(week int) string {
	return fmt.Sprintf("Weekly_Sales_Report_Week_%d.docx", week)
}

func (w *DocxWriter) Write(out io.Writer, doc *domain.Document) error {
	f := docx.New().WithDefaultTheme()

	for _, b := range doc.Blocks {
		switch b.Kind {
		case domain.BlockTitle:
			p := f.AddParagraph().Justification("center")
			for _, line := range b.Lines {
				for _, r := range line.Runs {
					preserveSpace(p.AddText(r.Text).Bold().Size(docxTitleSize))
				}
			}
		case domain.BlockHeading:
			p := f.AddParagraph().Style(fmt.Sprintf("Heading%d", b.Level))
			size := docxHeading3Size
			if b.Level <= 2 {
				size = docxHeading2Size
			}
			for _, line := range b.Lines {
				preserveSpace(p.AddText(line.Text()).Bold().Size(size))
			}
		case domain.BlockParagraph:
			p := f.AddParagraph()
			for i, line := range b.Lines {
				if i > 0 {
					p.AddText("\n")
				}
				if b.Bulleted {
					preserveSpace(p.AddText(bullet))
				}
				addDocxRuns(p, line)
			}
		case domain.BlockBulletList:
			for _, line := range b.Lines {
				p := f.AddParagraph()
				preserveSpace(p.AddText(bullet))
				addDocxRuns(p, line)
			}
		case domain.BlockNumberedList:
			for i, line := range b.Lines {
				p := f.AddParagraph()
				preserveSpace(p.AddText(fmt.Sprintf("%d. ", i+1)))
				addDocxRuns(p, line)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to pack docx: %w", err)
	}

	return normalizeArchive(out, buf.Bytes())
}

func addDocxRuns(p *docx.Paragraph, line domain.Line) {
	for _, r := range line.Runs {
		if r.Text == "" {
			continue
		}
		run := p.AddText(r.Text)
		if r.Bold {
			run.Bold()
		}
		switch r.Tone {
		case domain.ToneNegative:
			run.Color(docxNegativeColor)
		case domain.TonePositive:
			run.Color(docxPositiveColor)
		}
		preserveSpace(run)
	}
}

// preserveSpace keeps leading and trailing blanks of a run; Word strips them
// otherwise.
func preserveSpace(run *docx.Run) {
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}
