package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "turfslot/pkg/errors"
)

func TestCheckBatch(t *testing.T) {
	entry := func(date string, slots ...string) Claim {
		return Claim{GroundIDs: []string{"g1"}, SlotIDs: slots, Recurrence: OnDate(day(date))}
	}

	assert.NoError(t, CheckBatch(nil))
	assert.NoError(t, CheckBatch([]Claim{
		entry("2024-05-01", "s1", "s2"),
		entry("2024-05-02", "s1", "s2"),
		entry("2024-05-01", "s3"),
	}))

	err := CheckBatch([]Claim{
		entry("2024-05-01", "s1"),
		entry("2024-05-02", "s1"),
		entry("2024-05-01", "s2", "s1"),
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	details := apperrors.AsAppError(err).Details
	assert.Equal(t, []int{0, 2}, details["entries"])
	assert.Equal(t, []string{"s1"}, details["slot_ids"])
}
