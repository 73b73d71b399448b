package repository

import (
	"context"

	"turfslot/internal/claims"
	"turfslot/pkg/model"
)

type claimSource struct {
	repo ProgramRepository
	kind model.ProgramKind
}

// NewClaimSource exposes active programs of one kind as claims.
func NewClaimSource(repo ProgramRepository, kind model.ProgramKind) claims.Source {
	return &claimSource{repo: repo, kind: kind}
}

func (s *claimSource) Kind() claims.Kind {
	return ClaimKind(s.kind)
}

// Claims ignores the query window: standing claims have none.
func (s *claimSource) Claims(ctx context.Context, q claims.Query) ([]claims.Claim, error) {
	programs, err := s.repo.FindActive(ctx, s.kind, q.GroundIDs)
	if err != nil {
		return nil, err
	}
	out := make([]claims.Claim, 0, len(programs))
	for _, p := range programs {
		out = append(out, ClaimOf(p))
	}
	return out, nil
}

func ClaimKind(kind model.ProgramKind) claims.Kind {
	if kind == model.ProgramMembership {
		return claims.KindMembership
	}
	return claims.KindAcademy
}

// ClaimOf maps an academy to its weekday set and a membership to every day.
// Unparseable days are dropped.
func ClaimOf(p *model.Program) claims.Claim {
	recurrence := claims.Always()
	if p.Kind == model.ProgramAcademy {
		var days claims.WeekdaySet
		for _, name := range p.ActiveDays {
			if set, err := claims.ParseWeekdays([]string{name}); err == nil {
				days |= set
			}
		}
		recurrence = claims.Weekly(days)
	}
	return claims.Claim{
		Ref:        claims.Ref{Kind: ClaimKind(p.Kind), ID: p.ID},
		GroundIDs:  []string{p.GroundID},
		SlotIDs:    p.SlotIDs(),
		Recurrence: recurrence,
	}
}
