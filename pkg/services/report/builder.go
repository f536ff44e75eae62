package report

import (
	"fmt"

	"github.com/de-tools/sales-report/pkg/models/domain"
)

const (
	SectionTotal      = "Total Portfolio Sales"
	SectionExecutives = "Performance by Sales Executives"
	SectionHighlights = "Key Highlights"
	SectionNextSteps  = "Strategic Next Steps"
)

// Build maps a weekly report onto the document tree shared by every writer.
// It does not validate its input and never modifies it.
func Build(r domain.WeeklyReport) *domain.Document {
	cur := r.CurrencyOrDefault()
	title := fmt.Sprintf("Weekly Sales Report - Week %d (%s)", r.WeekNumber, r.DateRange)

	doc := &domain.Document{
		Title:     title,
		PageTitle: fmt.Sprintf("Weekly Sales Report - Week %d", r.WeekNumber),
	}

	doc.Blocks = append(doc.Blocks,
		domain.Block{Kind: domain.BlockTitle, Lines: []domain.Line{domain.PlainLine(title)}},
		heading(2, SectionTotal),
		domain.Block{Kind: domain.BlockBulletList, Lines: []domain.Line{
			totalLine(r, cur),
			domain.PlainLine(r.TotalSalesComment),
		}},
		heading(2, SectionExecutives),
	)

	for _, e := range r.Executives {
		doc.Blocks = append(doc.Blocks,
			heading(3, e.Name),
			domain.Block{Kind: domain.BlockParagraph, Bulleted: true, Lines: []domain.Line{
				executiveLine(e, cur),
				domain.PlainLine(e.Comment),
			}},
		)
	}

	doc.Blocks = append(doc.Blocks,
		heading(2, SectionHighlights),
		domain.Block{Kind: domain.BlockBulletList, Lines: plainLines(r.Highlights)},
		heading(2, SectionNextSteps),
		domain.Block{Kind: domain.BlockNumberedList, Lines: plainLines(r.NextSteps)},
	)

	return doc
}

func heading(level int, text string) domain.Block {
	return domain.Block{
		Kind:  domain.BlockHeading,
		Level: level,
		Lines: []domain.Line{domain.PlainLine(text)},
	}
}

// totalLine: "KSH 11,808,769, marking a -19% decline from last week's KSH 14,583,061."
func totalLine(r domain.WeeklyReport, cur string) domain.Line {
	tone := toneOf(r.TotalChangePercent)
	return domain.Line{Runs: []domain.Run{
		{Text: fmt.Sprintf("%s %s, marking a ", cur, FormatAmount(r.TotalSales))},
		{Text: FormatPercent(r.TotalChangePercent) + "%", Tone: tone},
		{Text: " "},
		{Text: direction(r.TotalChangePercent), Bold: true, Tone: tone},
		{Text: fmt.Sprintf(" from last week's %s %s.", cur, FormatAmount(r.LastWeekSales))},
	}}
}

// executiveLine: "-4%: KSH 1630.00K (from KSH 1690.00K)"
func executiveLine(e domain.Executive, cur string) domain.Line {
	return domain.Line{Runs: []domain.Run{
		{Text: FormatPercent(e.ChangePercent) + "%", Tone: toneOf(e.ChangePercent)},
		{Text: fmt.Sprintf(": %s %sK (from %s %sK)",
			cur, FormatThousands(e.CurrentSales), cur, FormatThousands(e.LastSales))},
	}}
}

func plainLines(items []string) []domain.Line {
	lines := make([]domain.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.PlainLine(item))
	}
	return lines
}
