package normalizer

import (
	"fmt"
	"time"
)

// DefaultPivotBoundary maps 00-25 to 2000-2025 and 26-99 to 1926-1999.
const DefaultPivotBoundary = 25

// PivotRule expands a two-digit year to a full year.
//
//	y2 in [0, Boundary]  -> 2000 + y2
//	anything else        -> 1900 + y2
type PivotRule struct {
	Boundary int
}

func DefaultPivotRule() PivotRule {
	return PivotRule{Boundary: DefaultPivotBoundary}
}

func (r PivotRule) Year(y2 int) int {
	if y2 >= 0 && y2 <= r.Boundary {
		return 2000 + y2
	}
	return 1900 + y2
}

// ResolveDayMonth decides how the first two numbers of a date are read.
//
//	b > 12 && a <= 12  -> month = a, day = b   (b cannot be a month)
//	otherwise          -> day = a,   month = b (day first)
func ResolveDayMonth(a, b int) (day, month int) {
	if b > 12 && a <= 12 {
		return b, a
	}
	return a, b
}

// BuildDate validates the components and formats them as YYYY-MM-DD.
func BuildDate(year, month, day int) (string, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return "", invalidComponents(year, month, day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
