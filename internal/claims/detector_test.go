package claims

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "turfslot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	kind   Kind
	claims []Claim
	err    error
	seen   []Query
}

func (s *staticSource) Kind() Kind { return s.kind }

func (s *staticSource) Claims(_ context.Context, q Query) ([]Claim, error) {
	s.seen = append(s.seen, q)
	if s.err != nil {
		return nil, s.err
	}
	var out []Claim
	for _, c := range s.claims {
		if len(q.GroundIDs) == 0 || len(Intersect(q.GroundIDs, c.GroundIDs)) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func fixture() (*Detector, *staticSource, *staticSource, *staticSource) {
	bookings := &staticSource{kind: KindBooking, claims: []Claim{{
		Ref:        Ref{KindBooking, "b1"},
		GroundIDs:  []string{"g1"},
		SlotIDs:    []string{"s1", "s2"},
		Recurrence: OnDate(day("2024-06-03")),
	}}}
	academies := &staticSource{kind: KindAcademy, claims: []Claim{{
		Ref:        Ref{KindAcademy, "a1"},
		GroundIDs:  []string{"g1"},
		SlotIDs:    []string{"s5"},
		Recurrence: Weekly(WeekdaysOf(time.Monday)),
	}}}
	events := &staticSource{kind: KindEvent, claims: []Claim{{
		Ref:        Ref{KindEvent, "e1"},
		GroundIDs:  []string{"g1", "g2"},
		SlotIDs:    []string{"s9"},
		Recurrence: Range(day("2024-06-10"), day("2024-06-12")),
	}}}
	return NewDetector(bookings, academies, events), bookings, academies, events
}

func TestDetector_Excluded(t *testing.T) {
	d, _, _, _ := fixture()
	ctx := context.Background()

	monday, err := d.Excluded(ctx, "g1", day("2024-06-03"), CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s5"}, monday.Slice())

	tuesday, err := d.Excluded(ctx, "g1", day("2024-06-04"), CheckOptions{})
	require.NoError(t, err)
	assert.Empty(t, tuesday.Slice())

	eventDay, err := d.Excluded(ctx, "g2", day("2024-06-11"), CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"s9"}, eventDay.Slice())

	self, err := d.Excluded(ctx, "g1", day("2024-06-03"), CheckOptions{Exclude: []Ref{{KindBooking, "b1"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"s5"}, self.Slice())

	onlyStanding, err := d.Excluded(ctx, "g1", day("2024-06-03"), CheckOptions{Kinds: StandingKinds})
	require.NoError(t, err)
	assert.Equal(t, []string{"s5"}, onlyStanding.Slice())
}

func TestDetector_Check(t *testing.T) {
	d, _, _, _ := fixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		probe    Claim
		opts     CheckOptions
		wantWith *Ref
		wantIDs  []string
	}{
		{
			name:     "same booking slot",
			probe:    Claim{GroundIDs: []string{"g1"}, SlotIDs: []string{"s2", "s3"}, Recurrence: OnDate(day("2024-06-03"))},
			wantWith: &Ref{KindBooking, "b1"},
			wantIDs:  []string{"s2"},
		},
		{
			name:  "different ground",
			probe: Claim{GroundIDs: []string{"g2"}, SlotIDs: []string{"s2"}, Recurrence: OnDate(day("2024-06-03"))},
		},
		{
			name:     "weekly program hits academy",
			probe:    Claim{GroundIDs: []string{"g1"}, SlotIDs: []string{"s5"}, Recurrence: Weekly(WeekdaysOf(time.Monday, time.Friday))},
			wantWith: &Ref{KindAcademy, "a1"},
			wantIDs:  []string{"s5"},
		},
		{
			name:  "weekly program on other weekday",
			probe: Claim{GroundIDs: []string{"g1"}, SlotIDs: []string{"s5"}, Recurrence: Weekly(WeekdaysOf(time.Tuesday))},
		},
		{
			name:     "whole ground event block",
			probe:    Claim{GroundIDs: []string{"g2"}, SlotIDs: []string{"s1"}, Recurrence: OnDate(day("2024-06-11"))},
			opts:     CheckOptions{Kinds: []Kind{KindEvent}, WholeGround: true},
			wantWith: &Ref{KindEvent, "e1"},
		},
		{
			name:     "slots only ignores ground and date",
			probe:    Claim{GroundIDs: []string{"g7"}, SlotIDs: []string{"s5"}, Recurrence: Weekly(WeekdaysOf(time.Sunday))},
			opts:     CheckOptions{Kinds: []Kind{KindAcademy}, SlotsOnly: true},
			wantWith: &Ref{KindAcademy, "a1"},
			wantIDs:  []string{"s5"},
		},
		{
			name:  "excluded self",
			probe: Claim{GroundIDs: []string{"g1"}, SlotIDs: []string{"s1"}, Recurrence: OnDate(day("2024-06-03"))},
			opts:  CheckOptions{Exclude: []Ref{{KindBooking, "b1"}}},
		},
		{
			name:  "collision before from is ignored",
			probe: Claim{GroundIDs: []string{"g1"}, SlotIDs: []string{"s1"}, Recurrence: Always()},
			opts:  CheckOptions{Kinds: []Kind{KindBooking}, From: day("2024-06-04")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := d.Check(ctx, tt.probe, tt.opts)
			require.NoError(t, err)
			if tt.wantWith == nil {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, *tt.wantWith, c.With)
			assert.Equal(t, tt.wantIDs, c.SlotIDs)
		})
	}
}

func TestDetector_CheckNarrowsQueryToProbeWindow(t *testing.T) {
	d, bookings, _, _ := fixture()
	_, err := d.Check(context.Background(), Claim{
		GroundIDs:  []string{"g1"},
		SlotIDs:    []string{"s1"},
		Recurrence: OnDate(day("2024-06-05")),
	}, CheckOptions{From: day("2024-06-01")})
	require.NoError(t, err)

	require.Len(t, bookings.seen, 1)
	assert.Equal(t, day("2024-06-05"), bookings.seen[0].From)
	assert.Equal(t, day("2024-06-05"), bookings.seen[0].To)
}

func TestDetector_SourceError(t *testing.T) {
	boom := errors.New("store down")
	d := NewDetector(&staticSource{kind: KindBooking, err: boom})

	_, err := d.Check(context.Background(), Claim{GroundIDs: []string{"g1"}, SlotIDs: []string{"s1"}, Recurrence: Always()}, CheckOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestConflict_AppError(t *testing.T) {
	err := (&Conflict{With: Ref{KindAcademy, "a1"}, SlotIDs: []string{"s5"}}).AppError()

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, "academy", appErr.Details["claim_kind"])
	assert.Equal(t, "a1", appErr.Details["claim_id"])
	assert.Equal(t, []string{"s5"}, appErr.Details["slot_ids"])
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(EventCreated, Claim{
		Ref:        Ref{KindBooking, "b1"},
		GroundIDs:  []string{"g1"},
		SlotIDs:    []string{"s1"},
		Recurrence: OnDate(day("2024-05-01")),
	})
	assert.Equal(t, "2024-05-01", evt.Date)
	assert.Empty(t, evt.From)

	evt = NewEvent(EventReleased, Claim{Ref: Ref{KindEvent, "e1"}, Recurrence: Range(day("2024-06-01"), day("2024-06-03"))})
	assert.Equal(t, "2024-06-01", evt.From)
	assert.Equal(t, "2024-06-03", evt.To)

	evt = NewEvent(EventUpdated, Claim{Ref: Ref{KindAcademy, "a1"}, Recurrence: Weekly(WeekdaysOf(time.Monday))})
	assert.Empty(t, evt.Date)
	assert.Empty(t, evt.From)
}
