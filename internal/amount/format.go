package amount

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/number"
)

// Format renders d with French digit grouping and up to three fraction
// digits, e.g. "1 250 000" or "12,5".
func Format(d decimal.Decimal) string {
	if d.IsInteger() {
		return printer.Sprint(number.Decimal(d.IntPart()))
	}
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}
