// Package dates implements calendar-day normalization. Every date
// comparison in the booking engine must first be reduced to a
// timezone-independent day key; comparing raw timestamps across zones
// is a known bug class this package exists to prevent.
package dates

import (
	"time"

	"stagepass/internal/shared/apperr"
)

// Layout is the canonical day-key layout.
const Layout = "2006-01-02"

// Key reduces a timestamp to its UTC calendar day.
func Key(t time.Time) string {
	return t.UTC().Format(Layout)
}

// layouts accepted by Normalize, most specific first. A bare day key is
// taken verbatim; anything carrying a clock or offset is converted to
// UTC before the day is extracted.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	Layout,
}

// Normalize parses an incoming date string and returns its day key.
func Normalize(raw string) (string, error) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if layout == Layout {
			return raw, nil
		}
		return Key(t), nil
	}
	return "", apperr.InvalidArgumentf("unparseable date %q", raw)
}

// SameDay reports whether two raw date strings fall on the same
// calendar day. Unparseable input never matches.
func SameDay(a, b string) bool {
	na, err := Normalize(a)
	if err != nil {
		return false
	}
	nb, err := Normalize(b)
	if err != nil {
		return false
	}
	return na == nb
}
