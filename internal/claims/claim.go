// Package claims is the shared vocabulary of every subsystem that holds
// (ground, slot, date) capacity: bookings, reservation slots, academy and
// membership programs, and event blocks.
package claims

import (
	"context"
	"sort"
	"time"
)

type Kind string

const (
	KindBooking         Kind = "booking"
	KindReservationSlot Kind = "reservation_slot"
	KindAcademy         Kind = "academy"
	KindMembership      Kind = "membership"
	KindEvent           Kind = "event"
)

var AllKinds = []Kind{KindBooking, KindReservationSlot, KindAcademy, KindMembership, KindEvent}

// DatedKinds are claims scoped to one exact calendar date.
var DatedKinds = []Kind{KindBooking, KindReservationSlot}

// StandingKinds are claims scoped to a predicate over dates.
var StandingKinds = []Kind{KindAcademy, KindMembership, KindEvent}

type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// Claim is one live hold. Sources only return claims that still hold
// capacity (booked/completed, or active).
type Claim struct {
	Ref
	GroundIDs  []string
	SlotIDs    []string
	Recurrence Recurrence
}

func (c Claim) OnGround(groundID string) bool {
	for _, g := range c.GroundIDs {
		if g == groundID {
			return true
		}
	}
	return false
}

// Covers reports whether the claim holds any slot of groundID on date.
func (c Claim) Covers(groundID string, date time.Time) bool {
	return c.OnGround(groundID) && c.Recurrence.Matches(date)
}

// Query narrows a source scan. Empty GroundIDs means every ground. A zero
// To means the window is open-ended.
type Query struct {
	GroundIDs []string
	From      time.Time
	To        time.Time
}

// Source exposes one claim store to availability and conflict checks.
type Source interface {
	Kind() Kind
	Claims(ctx context.Context, q Query) ([]Claim, error)
}

// Set is a set of slot ids.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	s.Add(ids...)
	return s
}

func (s Set) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Intersect returns the members of ids present in s, sorted.
func (s Set) Intersect(ids []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s.Has(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func Intersect(a, b []string) []string {
	return NewSet(a...).Intersect(b)
}

func includesKind(kinds []Kind, k Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}
