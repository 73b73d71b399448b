package claims

import (
	"fmt"
	"time"

	"turfslot/pkg/calendar"
	apperrors "turfslot/pkg/errors"
)

// Horizon bounds how far ahead a dated claim may be placed.
type Horizon struct {
	Location *time.Location
	Days     int
	Now      func() time.Time
}

func NewHorizon(loc *time.Location, days int) Horizon {
	return Horizon{Location: loc, Days: days, Now: time.Now}
}

func (h Horizon) Today() time.Time {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return calendar.Today(h.Location, now())
}

// Check accepts dates from today through today+Days inclusive.
func (h Horizon) Check(date time.Time) error {
	today := h.Today()
	latest := calendar.AddDays(today, h.Days)
	if calendar.Within(date, today, latest) {
		return nil
	}
	return apperrors.InvalidRange(fmt.Sprintf("date must be between %s and %s", calendar.Format(today), calendar.Format(latest))).
		WithDetails(map[string]any{
			"date":     calendar.Format(date),
			"earliest": calendar.Format(today),
			"latest":   calendar.Format(latest),
		})
}
