package repository

import (
	"context"

	"turfslot/internal/claims"
	"turfslot/pkg/model"
)

type claimSource struct {
	repo EventRepository
}

// NewClaimSource exposes active event blocks as claims.
func NewClaimSource(repo EventRepository) claims.Source {
	return &claimSource{repo: repo}
}

func (s *claimSource) Kind() claims.Kind {
	return claims.KindEvent
}

func (s *claimSource) Claims(ctx context.Context, q claims.Query) ([]claims.Claim, error) {
	events, err := s.repo.FindActive(ctx, q.GroundIDs, q.From, q.To)
	if err != nil {
		return nil, err
	}
	out := make([]claims.Claim, 0, len(events))
	for _, e := range events {
		out = append(out, ClaimOf(e))
	}
	return out, nil
}

func ClaimOf(e *model.EventBlock) claims.Claim {
	return claims.Claim{
		Ref:        claims.Ref{Kind: claims.KindEvent, ID: e.ID},
		GroundIDs:  e.GroundIDs,
		SlotIDs:    e.SlotIDs,
		Recurrence: claims.Range(e.StartDate, e.EndDate),
	}
}
