package repository

import (
	"context"

	"turfslot/internal/claims"
	"turfslot/pkg/model"
)

type claimSource struct {
	repo ReservationRepository
}

// NewClaimSource exposes booked reservation slots as claims.
func NewClaimSource(repo ReservationRepository) claims.Source {
	return &claimSource{repo: repo}
}

func (s *claimSource) Kind() claims.Kind {
	return claims.KindReservationSlot
}

func (s *claimSource) Claims(ctx context.Context, q claims.Query) ([]claims.Claim, error) {
	slots, err := s.repo.FindBookedSlots(ctx, q.GroundIDs, q.From, q.To)
	if err != nil {
		return nil, err
	}
	out := make([]claims.Claim, 0, len(slots))
	for _, slot := range slots {
		out = append(out, ClaimOf(slot))
	}
	return out, nil
}

func ClaimOf(slot *model.ReservationSlot) claims.Claim {
	return claims.Claim{
		Ref:        claims.Ref{Kind: claims.KindReservationSlot, ID: slot.ID},
		GroundIDs:  []string{slot.GroundID},
		SlotIDs:    slot.SlotIDs,
		Recurrence: claims.OnDate(slot.Date),
	}
}
