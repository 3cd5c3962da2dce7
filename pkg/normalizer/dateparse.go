package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"contactnorm/pkg/sanitizer"
)

var (
	errNoDateTokens   = errors.New("no date tokens")
	errManyMonthNames = errors.New("more than one month name")
)

// monthNames maps every accepted spelling to the abbreviation dateparse reads.
var monthNames = map[string]string{
	"jan": "jan", "january": "jan",
	"feb": "feb", "february": "feb",
	"mar": "mar", "march": "mar",
	"apr": "apr", "april": "apr",
	"may": "may",
	"jun": "jun", "june": "jun",
	"jul": "jul", "july": "jul",
	"aug": "aug", "august": "aug",
	"sep": "sep", "sept": "sep", "september": "sep",
	"oct": "oct", "october": "oct",
	"nov": "nov", "november": "nov",
	"dec": "dec", "december": "dec",
}

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var reDateSeparator = regexp.MustCompile(`[./,\-]+`)

// FuzzyDateParser is the DateParser backed by araddon/dateparse. In fuzzy
// mode every word that is neither a number nor a month name is dropped before
// parsing, and ordinal suffixes ("5th") are removed.
type FuzzyDateParser struct{}

func (FuzzyDateParser) Parse(text string, dayFirst, fuzzy bool) (parts DateParts, err error) {
	defer func() {
		if r := recover(); r != nil {
			parts, err = DateParts{}, fmt.Errorf("date parser failed on %q: %v", text, r)
		}
	}()

	text = sanitizer.TrimAndNormalize(text)
	if fuzzy {
		text = fuzzyTokens(text)
	}
	if text == "" {
		return DateParts{}, errNoDateTokens
	}

	text, month, err := orderMonthDate(text)
	if err != nil {
		return DateParts{}, err
	}

	t, err := dateparse.ParseIn(text, time.UTC,
		dateparse.PreferMonthFirst(!dayFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return DateParts{}, err
	}
	if month != 0 && t.Month() != month {
		return DateParts{}, fmt.Errorf("parsed month %s does not match %s in %q", t.Month(), month, text)
	}
	return DateParts{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func fuzzyTokens(text string) string {
	kept := make([]string, 0, 4)
	for _, field := range strings.Fields(text) {
		for _, piece := range splitAroundMonth(field) {
			word := strings.Trim(piece, ".,;:()")
			switch {
			case word == "":
			case strings.ContainsFunc(word, unicode.IsDigit):
				kept = append(kept, stripOrdinal(piece))
			case isMonthName(word):
				kept = append(kept, piece)
			}
		}
	}
	return strings.Join(kept, " ")
}

// splitAroundMonth breaks "5.Dec.1990" or "Dec/05/1990" into its pieces.
// Fields without a month name stay whole so numeric dates are untouched.
func splitAroundMonth(field string) []string {
	pieces := reDateSeparator.Split(field, -1)
	for _, p := range pieces {
		if isMonthName(p) {
			return pieces
		}
	}
	return []string{field}
}

func isMonthName(word string) bool {
	_, ok := monthNames[strings.ToLower(word)]
	return ok
}

// orderMonthDate rewrites text holding one month name as "day mon year" when
// exactly two numbers sit around it. The year is the number with three or
// more digits, else one above 31, else the second. Text with another shape
// keeps its order with the month spelled as an abbreviation. The month is 0
// when text names none.
func orderMonthDate(text string) (string, time.Month, error) {
	fields := strings.Fields(text)
	var (
		abbr    string
		numbers []string
		other   bool
	)
	for i, field := range fields {
		word := strings.ToLower(strings.Trim(field, ".,;:()"))
		if a, ok := monthNames[word]; ok {
			if abbr != "" && abbr != a {
				return "", 0, errManyMonthNames
			}
			abbr = a
			fields[i] = a
			continue
		}
		if isASCIIDigits(word) {
			numbers = append(numbers, word)
			continue
		}
		other = true
	}
	if abbr == "" {
		return text, 0, nil
	}

	month := monthNumbers[abbr]
	if other || len(numbers) != 2 {
		return strings.Join(fields, " "), month, nil
	}

	day, year := numbers[0], numbers[1]
	switch {
	case len(day) >= 3:
		day, year = year, day
	case len(year) >= 3:
	case atoi(day) > 31:
		day, year = year, day
	}
	return fmt.Sprintf("%d %s %s", atoi(day), abbr, year), month, nil
}

// atoi reads a run already checked to be ASCII digits.
func atoi(digits string) int {
	n, _ := strconv.Atoi(digits)
	return n
}

// stripOrdinal turns "5th" or "21st," into "5" or "21,".
func stripOrdinal(field string) string {
	lower := strings.ToLower(field)
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		i := strings.Index(lower, suffix)
		if i <= 0 || !unicode.IsDigit(rune(lower[i-1])) {
			continue
		}
		rest := field[i+len(suffix):]
		if strings.Trim(rest, ".,;:") != "" {
			continue
		}
		return field[:i] + rest
	}
	return field
}
