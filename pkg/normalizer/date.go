package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEightDigits = regexp.MustCompile(`^[0-9]{8}$`)
	reDigitRun    = regexp.MustCompile(`[0-9]+`)
	reHasLetter   = regexp.MustCompile(`[A-Za-z]`)
)

type DateNormalizer struct {
	parser DateParser
	pivot  PivotRule
}

func NewDateNormalizer(parser DateParser, pivot PivotRule) *DateNormalizer {
	return &DateNormalizer{
		parser: parser,
		pivot:  pivot,
	}
}

// Normalize returns raw as YYYY-MM-DD. The first matching shape decides the
// strategy: eight bare digits, text containing letters, three numbers, then
// the fuzzy parser as a last resort.
func (d *DateNormalizer) Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", emptyDOB()
	}

	// YYYYMMDD; the pattern admits ASCII digits only.
	if reEightDigits.MatchString(s) {
		return BuildDate(atoi(s[0:4]), atoi(s[4:6]), atoi(s[6:8]))
	}

	if reHasLetter.MatchString(s) {
		return d.textual(s)
	}

	if tokens, ok := numericTokens(s); ok && len(tokens) == 3 {
		if y, m, day, ok := d.threeNumbers(tokens[0], tokens[1], tokens[2]); ok {
			return BuildDate(y, m, day)
		}
	}

	return d.fallback(s)
}

// textual handles month names. A standalone two-digit number is taken as the
// year even when the parser resolved a different one.
func (d *DateNormalizer) textual(s string) (string, error) {
	year, hasPivot := d.lastTwoDigitYear(s)

	parts, err := d.parser.Parse(s, true, true)
	if err != nil {
		return "", invalidDate(s)
	}

	if !hasPivot {
		year = parts.Year
	}
	return BuildDate(year, parts.Month, parts.Day)
}

// threeNumbers places the year by token length: Y-M-D when the first token
// has four digits, otherwise the third token is a four or two digit year.
func (d *DateNormalizer) threeNumbers(a, b, c token) (year, month, day int, ok bool) {
	switch {
	case a.digits == 4:
		return a.value, b.value, c.value, true
	case c.digits == 4:
		day, month = ResolveDayMonth(a.value, b.value)
		return c.value, month, day, true
	case c.digits == 2:
		day, month = ResolveDayMonth(a.value, b.value)
		return d.pivot.Year(c.value), month, day, true
	}
	return 0, 0, 0, false
}

func (d *DateNormalizer) fallback(s string) (string, error) {
	parts, err := d.parser.Parse(s, true, true)
	if err != nil {
		return "", invalidDate(s)
	}
	return BuildDate(parts.Year, parts.Month, parts.Day)
}

func (d *DateNormalizer) lastTwoDigitYear(s string) (int, bool) {
	runs := reDigitRun.FindAllString(s, -1)
	for i := len(runs) - 1; i >= 0; i-- {
		if len(runs[i]) == 2 {
			return d.pivot.Year(atoi(runs[i])), true
		}
	}
	return 0, false
}

// token is a run of digits; digits is the run's length as typed, so "05"
// and "00" both count as two digits.
type token struct {
	value  int
	digits int
}

// numericTokens fails on runs too long to be any date component.
func numericTokens(s string) ([]token, bool) {
	runs := reDigitRun.FindAllString(s, -1)
	tokens := make([]token, 0, len(runs))
	for _, run := range runs {
		if len(run) > 9 {
			return nil, false
		}
		v, err := strconv.Atoi(run)
		if err != nil {
			return nil, false
		}
		tokens = append(tokens, token{value: v, digits: len(run)})
	}
	return tokens, true
}
