package settlement

import (
	"context"
	"errors"
	"testing"

	"turfslot/internal/claims"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/kafka"
	"turfslot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	calls   []string
	changed bool
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, id string) (bool, error) {
	f.calls = append(f.calls, id)
	return f.changed, f.err
}

func (f *fakeCompleter) CompleteSlot(_ context.Context, id string) (bool, error) {
	f.calls = append(f.calls, id)
	return f.changed, f.err
}

func notice(t *testing.T, kind claims.Kind, id string) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(id).
		WithEventType(EventTypeSettled).
		WithJSON(Notice{ClaimKind: kind, ClaimID: id}).
		Build()
	require.NoError(t, err)
	return msg
}

func TestHandler_RoutesByKind(t *testing.T) {
	bookings := &fakeCompleter{changed: true}
	slots := &fakeCompleter{changed: true}
	h := NewHandler(bookings, slots, logger.Discard())

	require.NoError(t, h.Handle(context.Background(), notice(t, claims.KindBooking, "b1")))
	require.NoError(t, h.Handle(context.Background(), notice(t, claims.KindReservationSlot, "s1")))

	assert.Equal(t, []string{"b1"}, bookings.calls)
	assert.Equal(t, []string{"s1"}, slots.calls)
}

func TestHandler_AlreadyTerminalIsSuccess(t *testing.T) {
	bookings := &fakeCompleter{changed: false}
	h := NewHandler(bookings, &fakeCompleter{}, logger.Discard())

	assert.NoError(t, h.Handle(context.Background(), notice(t, claims.KindBooking, "b1")))
	assert.NoError(t, h.Handle(context.Background(), notice(t, claims.KindBooking, "b1")))
	assert.Len(t, bookings.calls, 2)
}

func TestHandler_Classification(t *testing.T) {
	tests := []struct {
		name string
		msg  func(t *testing.T) kafka.Message
		err  error
		want kafka.ErrorType
	}{
		{
			name: "malformed payload",
			msg: func(t *testing.T) kafka.Message {
				return kafka.Message{Value: []byte("{"), Headers: map[string]string{}}
			},
			want: kafka.ErrorTypePermanent,
		},
		{
			name: "unknown kind",
			msg:  func(t *testing.T) kafka.Message { return notice(t, claims.KindAcademy, "a1") },
			want: kafka.ErrorTypePermanent,
		},
		{
			name: "missing claim",
			msg:  func(t *testing.T) kafka.Message { return notice(t, claims.KindBooking, "b1") },
			err:  apperrors.NotFoundWithID("Booking", "b1"),
			want: kafka.ErrorTypePermanent,
		},
		{
			name: "lock contention",
			msg:  func(t *testing.T) kafka.Message { return notice(t, claims.KindBooking, "b1") },
			err:  apperrors.Conflict("ground is busy"),
			want: kafka.ErrorTypeTransient,
		},
		{
			name: "store failure",
			msg:  func(t *testing.T) kafka.Message { return notice(t, claims.KindBooking, "b1") },
			err:  errors.New("server selection timeout"),
			want: kafka.ErrorTypeTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeCompleter{err: tt.err}, &fakeCompleter{err: tt.err}, logger.Discard())
			err := h.Handle(context.Background(), tt.msg(t))
			require.Error(t, err)
			assert.Equal(t, tt.want, kafka.ClassifyError(err))
		})
	}
}

type fakeConsumer struct {
	started, closed bool
}

func (c *fakeConsumer) Start(ctx context.Context) error {
	c.started = true
	<-ctx.Done()
	return ctx.Err()
}

func (c *fakeConsumer) Close() error {
	c.closed = true
	return nil
}

func TestWorker_RunUntilCancelled(t *testing.T) {
	c := &fakeConsumer{}
	w := NewWorker(c)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
	assert.NoError(t, w.Close())
	assert.True(t, c.started)
	assert.True(t, c.closed)
	assert.Equal(t, "settlement", w.Name())
}
