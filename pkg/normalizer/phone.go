package normalizer

import (
	"strconv"
	"strings"

	"contactnorm/pkg/sanitizer"
)

const (
	DefaultRegion       = "AE"
	DefaultMobilePrefix = "5"

	// national significant digits after the mobile prefix
	mobileTailLen = 8
)

type PhoneNormalizer struct {
	plan         NumberingPlan
	region       string
	callingCode  string
	mobilePrefix string
}

// NewPhoneNormalizer biases interpretation towards region. An empty
// mobilePrefix disables the short-mobile strategy.
func NewPhoneNormalizer(plan NumberingPlan, region, mobilePrefix string) *PhoneNormalizer {
	cc := ""
	if code := plan.CallingCode(region); code > 0 {
		cc = strconv.Itoa(code)
	}
	return &PhoneNormalizer{
		plan:         plan,
		region:       region,
		callingCode:  cc,
		mobilePrefix: mobilePrefix,
	}
}

func (p *PhoneNormalizer) Region() string {
	return p.region
}

func (p *PhoneNormalizer) CallingCode() string {
	return p.callingCode
}

type attempt struct {
	candidate string
	region    string
}

// strategy yields an attempt when it applies to the sanitized input.
type strategy func(s string) (attempt, bool)

// Normalize returns the E.164 form of raw or an *Error wrapping
// ErrUnparseablePhone.
func (p *PhoneNormalizer) Normalize(raw string) (string, error) {
	s := sanitizer.PhoneText(raw)
	if s == "" || s == "+" {
		return "", invalidPhone(raw, s)
	}

	for _, next := range p.strategies() {
		a, ok := next(s)
		if !ok {
			continue
		}
		if out, ok := p.accept(a); ok {
			return out, nil
		}
	}

	return "", invalidPhone(raw, s)
}

func (p *PhoneNormalizer) strategies() []strategy {
	return []strategy{
		// explicit international number
		func(s string) (attempt, bool) {
			return attempt{candidate: s}, strings.HasPrefix(s, "+")
		},
		// calling code typed without "+"
		func(s string) (attempt, bool) {
			ok := p.callingCode != "" && !strings.HasPrefix(s, "+") && strings.HasPrefix(s, p.callingCode)
			return attempt{candidate: "+" + s}, ok
		},
		// national number with trunk zero
		func(s string) (attempt, bool) {
			ok := p.callingCode != "" && !strings.HasPrefix(s, "+") && strings.HasPrefix(s, "0") && len(s) > 1
			if !ok {
				return attempt{}, false
			}
			return attempt{candidate: "+" + p.callingCode + s[1:]}, true
		},
		// mobile number with trunk zero omitted
		func(s string) (attempt, bool) {
			return attempt{candidate: "+" + p.callingCode + s}, p.callingCode != "" && p.isShortMobile(s)
		},
		// anything else is national to the default region
		func(s string) (attempt, bool) {
			return attempt{candidate: s, region: p.region}, !strings.HasPrefix(s, "+")
		},
		// "00" that survived sanitizing
		func(s string) (attempt, bool) {
			after, ok := strings.CutPrefix(s, "00")
			return attempt{candidate: "+" + after}, ok
		},
	}
}

func (p *PhoneNormalizer) isShortMobile(s string) bool {
	if p.mobilePrefix == "" || len(s) != len(p.mobilePrefix)+mobileTailLen {
		return false
	}
	return strings.HasPrefix(s, p.mobilePrefix) && isASCIIDigits(s)
}

func (p *PhoneNormalizer) accept(a attempt) (string, bool) {
	n, err := p.plan.Parse(a.candidate, a.region)
	if err != nil || n == nil {
		return "", false
	}
	if !p.plan.IsPossible(n) || !p.plan.IsValid(n) {
		return "", false
	}
	out := p.plan.Format(n)
	return out, out != ""
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
