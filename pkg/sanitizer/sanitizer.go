package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// Typed letters that users commonly mean as digits.
var confusables = strings.NewReplacer(
	"o", "0",
	"O", "0",
)

func dropTrunkMarker(s string) string {
	return strings.ReplaceAll(s, "(0)", "")
}

func fixConfusables(s string) string {
	return confusables.Replace(s)
}

func keepDialable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func internationalPrefix(s string) string {
	if after, ok := strings.CutPrefix(s, "00"); ok {
		return "+" + after
	}
	return s
}

func collapsePlus(s string) string {
	if strings.Count(s, "+") > 1 {
		return "+" + strings.ReplaceAll(s, "+", "")
	}
	return s
}
