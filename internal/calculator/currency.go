package calculator

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultRate is the yen per euro rate used until the traveller sets one.
const DefaultRate = 165

// ErrInvalidRate is returned when a conversion rate is not positive.
var ErrInvalidRate = errors.New("rate must be greater than zero")

// EURToJPY converts euros to whole yen: round(eur × rate).
func EURToJPY(eur, rate float64) (int64, error) {
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return decimal.NewFromFloat(eur).Mul(decimal.NewFromFloat(rate)).Round(0).IntPart(), nil
}

// JPYToEUR converts yen to euros rounded to cents.
func JPYToEUR(jpy, rate float64) (float64, error) {
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return decimal.NewFromFloat(jpy).Div(decimal.NewFromFloat(rate)).Round(2).InexactFloat64(), nil
}

// ParseAmount parses a user typed amount, accepting a comma as the decimal
// separator.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// FormatEUR formats an amount the way es-ES does: "1760,00 €", "17.600,00 €".
// Grouping starts at five integer digits.
func FormatEUR(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) > 4 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	out := intPart + "," + frac + " €"
	if neg {
		out = "-" + out
	}
	return out
}

// FormatConversion renders a conversion result for sharing.
func FormatConversion(eur float64, jpy int64, rate float64) string {
	return decimal.NewFromFloat(eur).StringFixed(2) + " € ≈ " +
		decimal.NewFromInt(jpy).String() + " ¥ (tasa " + decimal.NewFromFloat(rate).String() + ")"
}
