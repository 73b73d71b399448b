package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"turfslot/pkg/locale"
)

// NormalizePhone returns the E.164 form of phone, or "" if no region yields
// a valid number. Numbers without a country code are tried against regions
// in order, defaulting to every supported region.
func NormalizePhone(phone string, regions ...string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if len(regions) == 0 {
		regions = locale.RegionsFor("")
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}
