package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

const (
	pdfLineHeight   = 5.0
	pdfCharsPerLine = 95
)

var (
	pdfTitleColor   = color.Color{Red: 46, Green: 134, Blue: 193}
	pdfHeadingColor = color.Color{Red: 26, Green: 82, Blue: 118}
	pdfTextColor    = color.Color{Red: 38, Green: 38, Blue: 34}
)

// PDFWriter renders reports into A4 PDF pages. Runs within a line share one
// style, so signed figures are not colored.
type PDFWriter struct{}

func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

func (w *PDFWriter) Format() Format { return FormatPDF }

func (w *PDFWriter) ContentType() string { return "application/pdf" }

func (w *PDFWriter) Filename(week int) string {
	return fmt.Sprintf("Weekly_Sales_Report_Week_%d.pdf", week)
}

func (w *PDFWriter) Write(out io.Writer, doc *domain.Document) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 15, 20)

	for _, b := range doc.Blocks {
		switch b.Kind {
		case domain.BlockTitle:
			for _, line := range b.Lines {
				pdfText(m, line.Text(), 12, props.Text{
					Size:  16,
					Style: consts.Bold,
					Align: consts.Center,
					Color: pdfTitleColor,
				})
			}
			m.Row(4, func() {})
		case domain.BlockHeading:
			size := 14.0
			if b.Level >= 3 {
				size = 12
			}
			for _, line := range b.Lines {
				pdfText(m, line.Text(), 9, props.Text{
					Top:   2,
					Size:  size,
					Style: consts.Bold,
					Color: pdfHeadingColor,
				})
			}
		case domain.BlockParagraph:
			for _, line := range b.Lines {
				text := line.Text()
				if b.Bulleted {
					text = bullet + text
				}
				pdfBody(m, text)
			}
		case domain.BlockBulletList:
			for _, line := range b.Lines {
				pdfBody(m, bullet+line.Text())
			}
		case domain.BlockNumberedList:
			for i, line := range b.Lines {
				pdfBody(m, fmt.Sprintf("%d. %s", i+1, line.Text()))
			}
		}
	}

	buf, err := m.Output()
	if err != nil {
		return fmt.Errorf("failed to generate pdf: %w", err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func pdfBody(m pdf.Maroto, text string) {
	wrapped := (utf8.RuneCountInString(text) + pdfCharsPerLine - 1) / pdfCharsPerLine
	if wrapped < 1 {
		wrapped = 1
	}
	pdfText(m, text, float64(wrapped)*pdfLineHeight+1, props.Text{
		Size:  10,
		Color: pdfTextColor,
	})
}

func pdfText(m pdf.Maroto, text string, height float64, prop props.Text) {
	m.Row(height, func() {
		m.Col(12, func() {
			m.Text(text, prop)
		})
	})
}
