package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turfslot/internal/claims"
	"turfslot/pkg/config"
	"turfslot/pkg/model"
	"turfslot/test/testutil"
)

const venueID = "65a000000000000000000001"

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(time.DateOnly)
}

func createGround(t *testing.T, srv *testutil.Server) (*model.Ground, []*model.Slot) {
	t.Helper()
	resp := srv.POST(t, "/api/v1/grounds", map[string]any{
		"name":                  "Center Court",
		"venue_id":              venueID,
		"supports_ad_hoc_slots": true,
		"supports_academy":      true,
		"supports_membership":   true,
	})
	testutil.RequireStatus(t, resp, http.StatusCreated)

	var catalog model.GroundCatalog
	resp.Decode(t, &catalog)
	require.NotNil(t, catalog.Ground)
	require.GreaterOrEqual(t, len(catalog.Slots), 4)
	return catalog.Ground, catalog.Slots
}

func customer(srv *testutil.Server) *model.Customer {
	c := &model.Customer{Name: "Asha", Phone: "+919876543210", Active: true}
	srv.Store.PutCustomer(c)
	return c
}

func availability(t *testing.T, srv *testutil.Server, groundID, date string) map[string]bool {
	t.Helper()
	resp := srv.GET(t, fmt.Sprintf("/api/v1/grounds/id/%s/availability?date=%s", groundID, date))
	testutil.RequireStatus(t, resp, http.StatusOK)

	var slots []model.SlotAvailability
	resp.Decode(t, &slots)
	out := make(map[string]bool, len(slots))
	for _, s := range slots {
		out[s.SlotID] = s.Available
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := testutil.NewServer(t)

	testutil.RequireStatus(t, srv.GET(t, "/health"), http.StatusOK)
	testutil.RequireStatus(t, srv.GET(t, "/ready"), http.StatusOK)
}

func TestBookingLifecycle(t *testing.T) {
	srv := testutil.NewServer(t)
	ground, slots := createGround(t, srv)
	c := customer(srv)
	date := day(2)

	body := map[string]any{
		"ground_id":   ground.ID,
		"customer_id": c.ID,
		"date":        date,
		"slot_ids":    []string{slots[0].ID, slots[1].ID},
	}
	resp := srv.POST(t, "/api/v1/bookings", body)
	testutil.RequireStatus(t, resp, http.StatusCreated)

	var booking model.Booking
	resp.Decode(t, &booking)
	assert.Equal(t, model.StatusBooked, booking.Status)

	free := availability(t, srv, ground.ID, date)
	assert.False(t, free[slots[0].ID])
	assert.False(t, free[slots[1].ID])
	assert.True(t, free[slots[2].ID])

	resp = srv.POST(t, "/api/v1/bookings", map[string]any{
		"ground_id":   ground.ID,
		"customer_id": c.ID,
		"date":        date,
		"slot_ids":    []string{slots[1].ID, slots[2].ID},
	})
	testutil.RequireStatus(t, resp, http.StatusConflict)
	assert.Equal(t, "CONFLICT", resp.Envelope(t).Code)

	resp = srv.PATCH(t, "/api/v1/bookings/id/"+booking.ID, map[string]any{"status": "cancelled"})
	testutil.RequireStatus(t, resp, http.StatusOK)

	free = availability(t, srv, ground.ID, date)
	assert.True(t, free[slots[0].ID])
	assert.True(t, free[slots[1].ID])

	var kinds []claims.EventType
	for _, evt := range srv.Published.Events() {
		kinds = append(kinds, evt.Type)
	}
	assert.Equal(t, []claims.EventType{claims.EventCreated, claims.EventReleased}, kinds)
}

func TestBookingRejectsPastAndMalformed(t *testing.T) {
	srv := testutil.NewServer(t)
	ground, slots := createGround(t, srv)
	c := customer(srv)

	resp := srv.POST(t, "/api/v1/bookings", map[string]any{
		"ground_id":   ground.ID,
		"customer_id": c.ID,
		"date":        day(-1),
		"slot_ids":    []string{slots[0].ID},
	})
	testutil.RequireStatus(t, resp, http.StatusBadRequest)
	assert.Equal(t, "INVALID_RANGE", resp.Envelope(t).Code)

	resp = srv.POST(t, "/api/v1/bookings", map[string]any{
		"ground_id": ground.ID,
		"unknown":   true,
	})
	testutil.RequireStatus(t, resp, http.StatusBadRequest)

	resp = srv.GET(t, "/api/v1/bookings/id/not-an-id")
	assert.GreaterOrEqual(t, resp.StatusCode, http.StatusBadRequest)
	assert.Less(t, resp.StatusCode, http.StatusInternalServerError)
}

func TestReservationAndEventBlockBookings(t *testing.T) {
	srv := testutil.NewServer(t)
	ground, slots := createGround(t, srv)
	c := customer(srv)
	date := day(3)

	resp := srv.POST(t, "/api/v1/reservations", map[string]any{
		"ground_id": ground.ID,
		"entries": []map[string]any{
			{"date": date, "slot_ids": []string{slots[0].ID}},
			{"date": day(4), "slot_ids": []string{slots[0].ID}},
		},
		"customer":     map[string]any{"name": "Ravi Kumar", "phone": "98765 43210"},
		"total_amount": 1600,
		"payment":      map[string]any{"method": "cash", "paid_amount": 1600},
	})
	testutil.RequireStatus(t, resp, http.StatusCreated)

	var detail model.ReservationDetail
	resp.Decode(t, &detail)
	assert.Len(t, detail.Slots, 2)
	assert.Equal(t, "+919876543210", detail.Customer.Phone)

	resp = srv.POST(t, "/api/v1/bookings", map[string]any{
		"ground_id":   ground.ID,
		"customer_id": c.ID,
		"date":        date,
		"slot_ids":    []string{slots[0].ID},
	})
	testutil.RequireStatus(t, resp, http.StatusConflict)

	resp = srv.POST(t, "/api/v1/events", map[string]any{
		"name":       "Summer Cup",
		"ground_ids": []string{ground.ID},
		"slot_ids":   []string{slots[3].ID},
		"start_date": day(6),
		"end_date":   day(8),
	})
	testutil.RequireStatus(t, resp, http.StatusCreated)

	assert.False(t, availability(t, srv, ground.ID, day(7))[slots[3].ID])

	resp = srv.POST(t, "/api/v1/bookings", map[string]any{
		"ground_id":   ground.ID,
		"customer_id": c.ID,
		"date":        day(7),
		"slot_ids":    []string{slots[1].ID},
	})
	testutil.RequireStatus(t, resp, http.StatusConflict)
}

func TestProgramsOverlap(t *testing.T) {
	srv := testutil.NewServer(t, func(cfg *config.Config) {
		cfg.ProgramOverlapScope = config.ProgramScopeGround
	})
	ground, slots := createGround(t, srv)

	resp := srv.POST(t, "/api/v1/academies", map[string]any{
		"ground_id":        ground.ID,
		"name":             "Juniors",
		"morning_slot_ids": []string{slots[0].ID},
		"active_days":      []string{"mon", "wed"},
	})
	testutil.RequireStatus(t, resp, http.StatusCreated)

	var academy model.Program
	resp.Decode(t, &academy)

	resp = srv.POST(t, "/api/v1/memberships", map[string]any{
		"ground_id":        ground.ID,
		"name":             "Club Nights",
		"morning_slot_ids": []string{slots[0].ID},
	})
	testutil.RequireStatus(t, resp, http.StatusConflict)

	resp = srv.POST(t, "/api/v1/memberships", map[string]any{
		"ground_id":        ground.ID,
		"name":             "Early Birds",
		"morning_slot_ids": []string{slots[1].ID},
	})
	testutil.RequireStatus(t, resp, http.StatusCreated)

	resp = srv.POST(t, "/api/v1/academies", map[string]any{
		"ground_id":        ground.ID,
		"name":             "Weekend Juniors",
		"morning_slot_ids": []string{slots[0].ID},
		"active_days":      []string{"sat", "sun"},
	})
	testutil.RequireStatus(t, resp, http.StatusCreated)

	resp = srv.POST(t, "/api/v1/academies/id/"+academy.ID+"/deactivate", nil)
	testutil.RequireStatus(t, resp, http.StatusOK)

	resp = srv.GET(t, "/api/v1/grounds/id/"+ground.ID+"/academies")
	testutil.RequireStatus(t, resp, http.StatusOK)
}

func TestIdempotentCreateReplays(t *testing.T) {
	srv := testutil.NewServer(t)
	ground, slots := createGround(t, srv)
	c := customer(srv)

	body := map[string]any{
		"ground_id":   ground.ID,
		"customer_id": c.ID,
		"date":        day(1),
		"slot_ids":    []string{slots[0].ID},
	}
	headers := map[string]string{"Idempotency-Key": "booking-1"}

	first := srv.POSTWithHeaders(t, "/api/v1/bookings", body, headers)
	testutil.RequireStatus(t, first, http.StatusCreated)
	second := srv.POSTWithHeaders(t, "/api/v1/bookings", body, headers)
	testutil.RequireStatus(t, second, http.StatusCreated)

	assert.JSONEq(t, string(first.Body), string(second.Body))
	assert.Len(t, srv.Published.Events(), 1)
}
