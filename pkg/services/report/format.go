package report

import (
	"strings"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var thousand = decimal.NewFromInt(1000)

// FormatAmount prints a whole currency amount with thousands separators:
// 11808769 -> "11,808,769".
func FormatAmount(d decimal.Decimal) string {
	whole := d.Round(0).BigInt()
	if !whole.IsInt64() {
		// the x/text number formatter only takes machine integers
		return groupThousands(whole.String())
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", whole.Int64())
}

// groupThousands inserts a comma every three digits of an integer literal.
func groupThousands(digits string) string {
	var sb strings.Builder
	if strings.HasPrefix(digits, "-") {
		sb.WriteByte('-')
		digits = digits[1:]
	}
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// FormatThousands prints an amount in thousands with two decimals:
// 1630000 -> "1630.00".
func FormatThousands(d decimal.Decimal) string {
	return d.Div(thousand).StringFixed(2)
}

// FormatPercent prints a percentage in its shortest form: -19, 30, -3.5.
func FormatPercent(d decimal.Decimal) string {
	return d.String()
}

// toneOf picks the styling of a signed figure. Zero counts as positive.
func toneOf(pct decimal.Decimal) domain.Tone {
	if pct.IsNegative() {
		return domain.ToneNegative
	}
	return domain.TonePositive
}

// direction is the word describing the week over week movement.
func direction(pct decimal.Decimal) string {
	if pct.IsNegative() {
		return "decline"
	}
	return "increase"
}
