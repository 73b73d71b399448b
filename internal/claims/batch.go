package claims

import (
	"time"

	apperrors "turfslot/pkg/errors"
)

// CheckBatch rejects a request whose own entries claim the same slot on the
// same ground and date. Entries are compared pairwise in request order.
func CheckBatch(probes []Claim) error {
	for i := range probes {
		for j := i + 1; j < len(probes); j++ {
			a, b := probes[i], probes[j]
			shared := Intersect(a.SlotIDs, b.SlotIDs)
			if len(shared) == 0 || len(Intersect(a.GroundIDs, b.GroundIDs)) == 0 {
				continue
			}
			if !Overlaps(a.Recurrence, b.Recurrence, time.Time{}) {
				continue
			}
			return apperrors.Conflict("request entries claim the same slot").
				WithDetails(map[string]any{
					"entries":  []int{i, j},
					"slot_ids": shared,
				})
		}
	}
	return nil
}
