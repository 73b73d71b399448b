package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRegion(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{name: "kolkata", timezone: "Asia/Kolkata", want: "IN"},
		{name: "legacy calcutta", timezone: "Asia/Calcutta", want: "IN"},
		{name: "case insensitive", timezone: "america/new_york", want: "US"},
		{name: "london", timezone: "Europe/London", want: "GB"},
		{name: "dubai", timezone: "Asia/Dubai", want: "AE"},
		{name: "utc falls back", timezone: "UTC", want: DefaultRegion},
		{name: "empty falls back", timezone: "", want: DefaultRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectRegion(tt.timezone))
		})
	}
}

func TestRegionsFor(t *testing.T) {
	assert.Equal(t, []string{"US", "IN", "GB", "AE"}, RegionsFor("America/Chicago"))
	assert.Equal(t, []string{"IN", "US", "GB", "AE"}, RegionsFor("UTC"))
}
