package domain

import "github.com/shopspring/decimal"

// SampleReport returns the figures the report form is pre-filled with.
func SampleReport() WeeklyReport {
	return WeeklyReport{
		WeekNumber:         20,
		DateRange:          "May 9th - May 15th, 2025",
		Currency:           DefaultCurrency,
		TotalSales:         decimal.NewFromInt(11808769),
		LastWeekSales:      decimal.NewFromInt(14583061),
		TotalChangePercent: decimal.NewFromFloat(-19.0),
		TotalSalesComment:  "A setback following a strong week—key for teams to stabilize and build consistency.",
		Executives: []Executive{
			sampleExecutive("Caroline", 1630000, 1690000, -4,
				"Slight dip, but performance remains stable and strong."),
			sampleExecutive("Edwin", 222000, 287000, -22,
				"Coastal low season continues to impact sales — targeted support needed."),
			sampleExecutive("Export", 300000, 2540000, -88,
				"Significant drop post-Andes order — revisit client engagement plans for consistency."),
			sampleExecutive("James", 631000, 978000, -35,
				"Pipeline instability observed — close monitoring and follow-ups required."),
			sampleExecutive("Janerose", 182000, 185000, -2,
				"Stable performance amid seasonal trends — maintain proactive engagement."),
			sampleExecutive("Josephine", 1100000, 847000, 30,
				"Strong comeback — recent client management strategies proving effective."),
			sampleExecutive("Mary", 3380000, 4150000, -19,
				"Decline after peak orders — follow-ups and re-engagement critical for momentum."),
			sampleExecutive("Moses", 4040000, 2870000, 40,
				"Outstanding growth — strong upselling and client retention driving success."),
			sampleExecutive("Nanyuki", 113000, 774000, -85,
				"Expected biweekly drop — stay aligned to follow-up cycle for sustained performance."),
			sampleExecutive("UPC (Upcountry)", 219000, 259000, -15,
				"Moderate dip, though long-term trend remains upward — maintain momentum."),
		},
		Highlights: []string{
			"Total sales declined by 19.0%, reversing previous week's growth.",
			"Moses and Josephine recorded strong gains — leading by example.",
			"Export, James, Mary, Edwin, and Nanyuki faced notable declines — each requiring specific strategic attention.",
			"Export's plunge highlights the risk of unsustained surges — prioritize continuity.",
			"Nanyuki's biweekly pattern continues — timing and cadence remain critical.",
		},
		NextSteps: []string{
			"Sustain High Performers: Reinforce Moses and Josephine's winning strategies across the team.",
			"Stabilize Export Volatility: Evaluate client needs and engagement depth following large orders.",
			"Support Coastal Reps: Provide distribution and promotional support for Edwin and Janerose during the low season.",
			"Rebuild James & Mary's Pipeline: Focus on reactivation, follow-ups, and near-term conversions.",
			"Optimize Nanyuki's Cycle: Tighten biweekly rhythm to reduce sharp swings in performance.",
		},
	}
}

func sampleExecutive(name string, current, last, pct int64, comment string) Executive {
	return Executive{
		Name:          name,
		CurrentSales:  decimal.NewFromInt(current),
		LastSales:     decimal.NewFromInt(last),
		ChangePercent: decimal.NewFromInt(pct),
		Comment:       comment,
	}
}
