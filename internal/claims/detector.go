package claims

import (
	"context"
	"fmt"
	"time"

	"turfslot/pkg/calendar"
	apperrors "turfslot/pkg/errors"
)

// Conflict describes the first live claim found colliding with a probe.
type Conflict struct {
	With    Ref
	SlotIDs []string
	// Date is set when the probe is a single-day claim.
	Date time.Time
}

func (c *Conflict) AppError() *apperrors.AppError {
	details := map[string]any{
		"claim_kind": string(c.With.Kind),
		"claim_id":   c.With.ID,
	}
	if len(c.SlotIDs) > 0 {
		details["slot_ids"] = c.SlotIDs
	}
	if !c.Date.IsZero() {
		details["date"] = calendar.Format(c.Date)
	}
	msg := fmt.Sprintf("slot already reserved by %s", c.With.Kind)
	if len(c.SlotIDs) == 0 {
		msg = fmt.Sprintf("ground is blocked by %s", c.With.Kind)
	}
	return apperrors.Conflict(msg).WithDetails(details)
}

// CheckOptions tune how a probe is compared against stored claims.
type CheckOptions struct {
	// Kinds restricts the sources consulted; nil means all.
	Kinds []Kind
	// Exclude skips claims by identity, e.g. the claim being updated.
	Exclude []Ref
	// From ignores collisions before this day.
	From time.Time
	// WholeGround treats any live claim on the ground as a collision
	// regardless of slots.
	WholeGround bool
	// SlotsOnly compares slot ids only, ignoring grounds and dates.
	SlotsOnly bool
}

func (o CheckOptions) excluded(ref Ref) bool {
	for _, e := range o.Exclude {
		if e == ref {
			return true
		}
	}
	return false
}

// Detector finds collisions between a proposed claim and the stored ones.
type Detector struct {
	sources []Source
}

func NewDetector(sources ...Source) *Detector {
	return &Detector{sources: sources}
}

func (d *Detector) Sources() []Source {
	return d.sources
}

// Check returns the first collision for probe, or nil.
func (d *Detector) Check(ctx context.Context, probe Claim, opts CheckOptions) (*Conflict, error) {
	q := Query{GroundIDs: probe.GroundIDs, From: opts.From}
	if from, to, ok := probe.Recurrence.Window(); ok && !opts.SlotsOnly {
		if q.From.IsZero() || from.After(q.From) {
			q.From = from
		}
		q.To = to
	}
	if opts.SlotsOnly {
		q.GroundIDs = nil
	}
	if !q.To.IsZero() && q.To.Before(q.From) {
		return nil, nil
	}

	wanted := NewSet(probe.SlotIDs...)
	for _, src := range d.sources {
		if !includesKind(opts.Kinds, src.Kind()) {
			continue
		}
		stored, err := src.Claims(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, c := range stored {
			if opts.excluded(c.Ref) {
				continue
			}
			if conflict := collide(probe, c, wanted, opts); conflict != nil {
				if from, to, ok := probe.Recurrence.Window(); ok && from.Equal(to) {
					conflict.Date = from
				}
				return conflict, nil
			}
		}
	}
	return nil, nil
}

// Verify is Check reporting a collision as a CONFLICT error.
func (d *Detector) Verify(ctx context.Context, probe Claim, opts CheckOptions) error {
	conflict, err := d.Check(ctx, probe, opts)
	if err != nil {
		return err
	}
	if conflict != nil {
		return conflict.AppError()
	}
	return nil
}

func collide(probe, stored Claim, wanted Set, opts CheckOptions) *Conflict {
	var shared []string
	if !opts.WholeGround {
		shared = wanted.Intersect(stored.SlotIDs)
		if len(shared) == 0 {
			return nil
		}
	}
	if opts.SlotsOnly {
		return &Conflict{With: stored.Ref, SlotIDs: shared}
	}
	if len(Intersect(probe.GroundIDs, stored.GroundIDs)) == 0 {
		return nil
	}
	if !Overlaps(probe.Recurrence, stored.Recurrence, opts.From) {
		return nil
	}
	return &Conflict{With: stored.Ref, SlotIDs: shared}
}

// Excluded folds every source into the set of slot ids held on groundID
// for date.
func (d *Detector) Excluded(ctx context.Context, groundID string, date time.Time, opts CheckOptions) (Set, error) {
	day := calendar.Day(date)
	q := Query{GroundIDs: []string{groundID}, From: day, To: day}

	out := NewSet()
	for _, src := range d.sources {
		if !includesKind(opts.Kinds, src.Kind()) {
			continue
		}
		stored, err := src.Claims(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, c := range stored {
			if opts.excluded(c.Ref) || !c.Covers(groundID, day) {
				continue
			}
			out.Add(c.SlotIDs...)
		}
	}
	return out, nil
}
