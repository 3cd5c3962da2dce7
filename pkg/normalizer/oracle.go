package normalizer

// ParsedNumber is the numbering plan's view of a candidate. Only the plan that
// produced it interprets Handle.
type ParsedNumber struct {
	CountryCode    int32
	NationalNumber uint64
	Handle         any
}

// NumberingPlan knows, per region, which digit strings are possible and which
// are actually assigned. An empty region means the candidate must carry its
// own "+<country code>".
type NumberingPlan interface {
	Parse(candidate, region string) (*ParsedNumber, error)
	IsPossible(n *ParsedNumber) bool
	IsValid(n *ParsedNumber) bool
	Format(n *ParsedNumber) string
	CallingCode(region string) int
}

type DateParts struct {
	Year  int
	Month int
	Day   int
}

// DateParser resolves loosely formatted dates. With dayFirst set, ambiguous
// numeric input is read day-month; with fuzzy set, unrelated words are
// ignored.
type DateParser interface {
	Parse(text string, dayFirst, fuzzy bool) (DateParts, error)
}
