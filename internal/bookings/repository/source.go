package repository

import (
	"context"

	"turfslot/internal/claims"
	"turfslot/pkg/model"
)

type claimSource struct {
	repo BookingRepository
}

// NewClaimSource exposes booked and completed bookings as claims.
func NewClaimSource(repo BookingRepository) claims.Source {
	return &claimSource{repo: repo}
}

func (s *claimSource) Kind() claims.Kind {
	return claims.KindBooking
}

func (s *claimSource) Claims(ctx context.Context, q claims.Query) ([]claims.Claim, error) {
	bookings, err := s.repo.FindHolding(ctx, q.GroundIDs, q.From, q.To)
	if err != nil {
		return nil, err
	}
	out := make([]claims.Claim, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ClaimOf(b))
	}
	return out, nil
}

func ClaimOf(b *model.Booking) claims.Claim {
	return claims.Claim{
		Ref:        claims.Ref{Kind: claims.KindBooking, ID: b.ID},
		GroundIDs:  []string{b.GroundID},
		SlotIDs:    b.SlotIDs,
		Recurrence: claims.OnDate(b.Date),
	}
}
