package market

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an integer quantity read from a broker export: prices in minor
// units, lot counts, fees and P&L. Exports format these as "1,234",
// "\"17,050\"" or "17050.0".
type Amount int64

// UnmarshalCSV implements gocsv.TypeUnmarshaller. It never fails; a field
// that cannot be read becomes zero.
func (a *Amount) UnmarshalCSV(s string) error {
	*a = Amount(Normalize(s))
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (a Amount) MarshalCSV() (string, error) {
	return decimal.NewFromInt(int64(a)).String(), nil
}

// Int64 returns the amount as a plain integer.
func (a Amount) Int64() int64 {
	return int64(a)
}

var amountCleaner = strings.NewReplacer(",", "", `"`, "", " ", "", "\u00a0", "")

// Normalize converts a formatted number to an integer. Thousands separators
// and quotes are removed and any fractional part is truncated, not rounded.
// Anything that still does not parse yields 0.
func Normalize(raw string) int64 {
	s := amountCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		// "1234." and friends: keep whatever precedes the decimal point
		whole, _, found := strings.Cut(s, ".")
		if !found {
			return 0
		}
		d, err = decimal.NewFromString(whole)
		if err != nil {
			return 0
		}
	}
	return d.IntPart()
}

// NormalizeFloat truncates x toward zero. NaN and infinities become 0.
func NormalizeFloat(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int64(x)
}
