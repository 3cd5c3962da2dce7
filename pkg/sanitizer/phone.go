package sanitizer

import "strings"

var phonePipeline = Pipeline{
	strings.TrimSpace,
	dropTrunkMarker,
	fixConfusables,
	keepDialable,
	internationalPrefix,
	collapsePlus,
}

// PhoneText reduces free-form phone input to digits and at most one leading
// "+". The result is not validated; it may be empty.
func PhoneText(raw string) string {
	return phonePipeline.Apply(raw)
}
