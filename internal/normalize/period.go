package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PeriodLayout is the canonical Mon-YY payment period form.
const PeriodLayout = "Jan-06"

var rePeriod = regexp.MustCompile(`^([A-Za-z]+)\.?[\s\-/,']*(\d{4}|\d{2})$`)

// PrecedingPeriod returns the month before d as Mon-YY (January 2024 -> Dec-23).
func PrecedingPeriod(d time.Time) string {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0).Format(PeriodLayout)
}

// LookupMonth resolves "jan", "JANUARY", "Sept" and similar to a month.
// Tokens shorter than three letters never match.
func LookupMonth(token string) (time.Month, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) < 3 {
		return 0, false
	}
	if t == "sept" {
		return time.September, true
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), t) {
			return m, true
		}
	}
	return 0, false
}

// ExpandYear turns a 2-digit year into 20yy; 4-digit years pass through.
func ExpandYear(y string) (int, error) {
	switch len(y) {
	case 2:
		y = "20" + y
	case 4:
	default:
		return 0, fmt.Errorf("year %q is not 2 or 4 digits", y)
	}
	return strconv.Atoi(y)
}

// CanonicalPeriod rewrites month-year strings such as "jan-25", "January 2025"
// or "Jan/2025" to Mon-YY. The second result is false when s is not a month-year.
func CanonicalPeriod(s string) (string, bool) {
	m := rePeriod.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	month, ok := LookupMonth(m[1])
	if !ok {
		return "", false
	}
	year, err := ExpandYear(m[2])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s-%02d", month.String()[:3], year%100), true
}
