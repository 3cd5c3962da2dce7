package normalizer

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// LibPhoneNumberPlan is the NumberingPlan backed by libphonenumber metadata.
// The metadata is read-only, so one value can be shared by every goroutine.
type LibPhoneNumberPlan struct{}

func (LibPhoneNumberPlan) Parse(candidate, region string) (parsed *ParsedNumber, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed, err = nil, fmt.Errorf("numbering plan failed on %q: %v", candidate, r)
		}
	}()

	num, err := phonenumbers.Parse(candidate, region)
	if err != nil {
		return nil, err
	}
	return &ParsedNumber{
		CountryCode:    num.GetCountryCode(),
		NationalNumber: num.GetNationalNumber(),
		Handle:         num,
	}, nil
}

func (LibPhoneNumberPlan) IsPossible(n *ParsedNumber) bool {
	num, ok := handle(n)
	return ok && phonenumbers.IsPossibleNumber(num)
}

func (LibPhoneNumberPlan) IsValid(n *ParsedNumber) bool {
	num, ok := handle(n)
	return ok && phonenumbers.IsValidNumber(num)
}

func (LibPhoneNumberPlan) Format(n *ParsedNumber) string {
	num, ok := handle(n)
	if !ok {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func (LibPhoneNumberPlan) CallingCode(region string) int {
	return phonenumbers.GetCountryCodeForRegion(region)
}

func handle(n *ParsedNumber) (*phonenumbers.PhoneNumber, bool) {
	if n == nil {
		return nil, false
	}
	num, ok := n.Handle.(*phonenumbers.PhoneNumber)
	return num, ok && num != nil
}
