// Package locale maps a venue's time zone to the phone regions used to read
// national-format numbers.
package locale

import "strings"

// DefaultRegion is used when the configured time zone belongs to no known
// country.
const DefaultRegion = "IN"

type Country struct {
	Code      string // ISO 3166-1 alpha-2
	Name      string
	TimeZones []string // IANA identifiers that place a venue in this country
}

// Countries lists supported regions in lookup order.
var Countries = []Country{
	{
		Code:      "IN",
		Name:      "India",
		TimeZones: []string{"Asia/Kolkata", "Asia/Calcutta"},
	},
	{
		Code:      "US",
		Name:      "United States",
		TimeZones: []string{"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "US/Eastern", "US/Pacific"},
	},
	{
		Code:      "GB",
		Name:      "United Kingdom",
		TimeZones: []string{"Europe/London", "GB"},
	},
	{
		Code:      "AE",
		Name:      "United Arab Emirates",
		TimeZones: []string{"Asia/Dubai"},
	},
}

func DetectRegion(tz string) string {
	for _, c := range Countries {
		for _, z := range c.TimeZones {
			if strings.EqualFold(tz, z) {
				return c.Code
			}
		}
	}
	return DefaultRegion
}

// RegionsFor returns every supported region with the one detected from tz
// first.
func RegionsFor(tz string) []string {
	first := DetectRegion(tz)
	regions := make([]string, 0, len(Countries))
	regions = append(regions, first)
	for _, c := range Countries {
		if c.Code != first {
			regions = append(regions, c.Code)
		}
	}
	return regions
}
