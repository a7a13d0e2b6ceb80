package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DisplayDateLayout is how dates are shown in rows (MM/DD/YYYY, UTC).
const DisplayDateLayout = "01/02/2006"

// FormatDate renders t for display; zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DisplayDateLayout)
}

// FormatAmount renders cents as Brazilian reais, e.g. 123456 -> "R$ 1.234,56".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	fracStr := strconv.FormatInt(frac, 10)
	if frac < 10 {
		fracStr = "0" + fracStr
	}

	return sign + "R$ " + b.String() + "," + fracStr
}

// FormatSignedAmount prefixes outcomes with "- ".
func FormatSignedAmount(cents int64, typ ExpenseType) string {
	if typ == Outcome {
		return "- " + FormatAmount(cents)
	}
	return FormatAmount(cents)
}

// maxUnits is the largest whole amount whose cents still fit in an int64.
const maxUnits = (math.MaxInt64 - 99) / 100

// ParseAmount reads a typed amount into cents. Both "1.234,56" and
// "1234.56" are accepted; a comma, when present, is the decimal separator.
func ParseAmount(s string) (int64, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	}

	units, frac, _ := strings.Cut(raw, ".")
	if units == "" {
		units = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	u, err := strconv.ParseUint(units, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if u > maxUnits {
		return 0, fmt.Errorf("amount %q is too large", s)
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return int64(u)*100 + int64(f), nil
}
