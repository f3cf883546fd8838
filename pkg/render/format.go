package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// MaxFractionDigits matches the default precision of browser locale formatting
const MaxFractionDigits = 3

// NumberFormatter formats headline numbers for one locale
type NumberFormatter struct {
	printer *message.Printer
}

// NewNumberFormatter creates a formatter for tag
func NewNumberFormatter(tag language.Tag) *NumberFormatter {
	return &NumberFormatter{printer: message.NewPrinter(tag)}
}

// DefaultFormatter formats numbers the en-US way, e.g. 1,234.568
var DefaultFormatter = NewNumberFormatter(language.AmericanEnglish)

// Number groups thousands and keeps at most three fraction digits
func (f *NumberFormatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(MaxFractionDigits)))
}

// Title is the headline: the last visible value and its currency
func (f *NumberFormatter) Title(last float64, currency string) string {
	if currency == "" {
		return f.Number(last)
	}
	return fmt.Sprintf("%s %s", f.Number(last), currency)
}

// Subtitle renders the change against the prior point, e.g. "+1 (+11.11%)".
// Both signs follow d.Sign, so a fall that rounds to 0.00% still reads
// as a fall.
func (f *NumberFormatter) Subtitle(d timeline.Delta) string {
	sign := "+"
	if d.Sign == timeline.Negative {
		sign = "-"
	}

	abs := strings.TrimPrefix(f.Number(d.AbsoluteDelta), "-")

	pct := d.PercentChange
	if pct == "" {
		pct = timeline.ZeroPercent
	}
	pct = strings.TrimPrefix(pct, "-")
	return fmt.Sprintf("%s%s (%s%s%%)", sign, abs, sign, pct)
}

// Title formats with DefaultFormatter
func Title(last float64, currency string) string {
	return DefaultFormatter.Title(last, currency)
}

// Subtitle formats with DefaultFormatter
func Subtitle(d timeline.Delta) string {
	return DefaultFormatter.Subtitle(d)
}
