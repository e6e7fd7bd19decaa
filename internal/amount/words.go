// Package amount spells currency amounts in French and formats them for
// display on legal documents.
package amount

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Currency is appended to every spelled amount.
	Currency = "Francs CFA"
	// Invalid is returned for NaN or infinite input.
	Invalid = "Montant invalide"
)

// maxSpelled bounds the magnitude that fits a uint64 without loss.
const maxSpelled = 1e18

var (
	units = [...]string{"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf"}
	teens = [...]string{"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize"}
	tens  = [...]string{"", "dix", "vingt", "trente", "quarante", "cinquante", "soixante", "soixante", "quatre-vingt", "quatre-vingt"}
)

var printer = message.NewPrinter(language.French)

// Words spells the integer part of x in French, followed by the grouped
// numeral in parentheses and the currency, e.g.
// "Soixante-et-onze (71) Francs CFA". Negative input is spelled by
// magnitude; the fraction is dropped.
func Words(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Invalid
	}
	mag := math.Floor(math.Abs(x))
	if mag >= maxSpelled {
		return Invalid
	}
	n := uint64(mag)
	if n == 0 {
		return "Zéro (0) " + Currency
	}
	s := spell(n) + " (" + printer.Sprintf("%d", n) + ") " + Currency
	s = strings.ReplaceAll(s, "- ", "-")
	s = strings.ReplaceAll(s, " -", "-")
	s = strings.Join(strings.Fields(s), " ")
	return capitalize(s)
}

// spell renders n > 0 as billions, millions, thousands and remainder
// chunks joined by single spaces.
func spell(n uint64) string {
	billions := n / 1_000_000_000
	millions := (n / 1_000_000) % 1000
	thousands := (n / 1000) % 1000
	rest := int(n % 1000)

	var parts []string
	if billions > 0 {
		w := "milliard"
		if billions > 1 {
			w += "s"
		}
		var chunk string
		if billions < 1000 {
			chunk = belowThousand(int(billions))
		} else {
			chunk = spell(billions)
		}
		parts = append(parts, chunk+" "+w)
	}
	if millions > 0 {
		w := "million"
		if millions > 1 {
			w += "s"
		}
		parts = append(parts, belowThousand(int(millions))+" "+w)
	}
	if thousands == 1 {
		parts = append(parts, "mille")
	} else if thousands > 1 {
		parts = append(parts, belowThousand(int(thousands))+"-mille")
	}
	if rest > 0 {
		parts = append(parts, belowThousand(rest))
	}
	return strings.Join(parts, " ")
}

// belowThousand spells 0 < n < 1000.
func belowThousand(n int) string {
	if n == 0 {
		return ""
	}
	var b strings.Builder
	if n >= 100 {
		h := n / 100
		if h > 1 {
			b.WriteString(units[h])
			b.WriteString(" ")
		}
		b.WriteString("cent")
		n %= 100
		if n == 0 {
			if h > 1 {
				b.WriteString("s")
			}
			return b.String()
		}
		b.WriteString(" ")
	}
	switch {
	case n < 10:
		b.WriteString(units[n])
	case n < 17:
		b.WriteString(teens[n-10])
	default:
		ten, unit := n/10, n%10
		if ten == 7 || ten == 9 {
			// soixante-dix.., quatre-vingt-dix..: base of the previous ten
			// plus the 10-16 words, or dix-sept.. for 17-19 offsets.
			b.WriteString(tens[ten-1])
			if unit == 1 && ten == 7 {
				b.WriteString("-et-")
			} else {
				b.WriteString("-")
			}
			b.WriteString(tensOffset(10 + unit))
			break
		}
		b.WriteString(tens[ten])
		if n == 80 {
			b.WriteString("s")
		}
		if unit > 0 {
			if unit == 1 && ten != 8 {
				b.WriteString("-et-")
			} else {
				b.WriteString("-")
			}
			b.WriteString(units[unit])
		}
	}
	return b.String()
}

// tensOffset spells 10..19.
func tensOffset(n int) string {
	if n < 17 {
		return teens[n-10]
	}
	return "dix-" + units[n-10]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
