// Package settlement consumes downstream settlement notices and moves the
// settled dated claims from booked to completed.
package settlement

import (
	"context"
	"fmt"

	"turfslot/internal/claims"
	apperrors "turfslot/pkg/errors"
	"turfslot/pkg/kafka"
	"turfslot/pkg/logger"
)

const EventTypeSettled = "claim.settled"

// Notice is the inbound payload.
type Notice struct {
	ClaimKind claims.Kind `json:"claim_kind"`
	ClaimID   string      `json:"claim_id"`
}

type BookingCompleter interface {
	Complete(ctx context.Context, id string) (bool, error)
}

type SlotCompleter interface {
	CompleteSlot(ctx context.Context, slotID string) (bool, error)
}

type Handler struct {
	bookings     BookingCompleter
	reservations SlotCompleter
	log          *logger.Logger
}

func NewHandler(bookings BookingCompleter, reservations SlotCompleter, log *logger.Logger) *Handler {
	return &Handler{
		bookings:     bookings,
		reservations: reservations,
		log:          log,
	}
}

// Handle is a kafka.MessageHandler. Redelivered notices for claims that
// are already terminal succeed without changes.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var notice Notice
	if err := msg.DecodeValue(&notice); err != nil {
		return kafka.Permanent("malformed settlement notice", err)
	}
	if notice.ClaimID == "" {
		return kafka.Permanent("settlement notice without claim_id", nil)
	}

	var (
		changed bool
		err     error
	)
	switch notice.ClaimKind {
	case claims.KindBooking:
		changed, err = h.bookings.Complete(ctx, notice.ClaimID)
	case claims.KindReservationSlot:
		changed, err = h.reservations.CompleteSlot(ctx, notice.ClaimID)
	default:
		return kafka.Permanent(fmt.Sprintf("unsupported claim kind %q", notice.ClaimKind), nil)
	}
	if err != nil {
		return classify(notice, err)
	}

	h.log.Info("Claim settled",
		"claim_kind", notice.ClaimKind,
		"claim_id", notice.ClaimID,
		"changed", changed,
		"event_id", msg.EventID(),
	)
	return nil
}

// classify retries lock contention and infrastructure failures; anything
// the claim itself rejects goes to the dead-letter topic.
func classify(notice Notice, err error) error {
	msg := fmt.Sprintf("settle %s %s", notice.ClaimKind, notice.ClaimID)
	switch {
	case apperrors.HasCode(err, apperrors.CodeConflict),
		apperrors.HasCode(err, apperrors.CodeInternal),
		apperrors.HasCode(err, apperrors.CodeTimeout),
		apperrors.HasCode(err, apperrors.CodeUnavailable):
		return kafka.Transient(msg, err)
	case apperrors.IsAppError(err):
		return kafka.Permanent(msg, err)
	}
	return kafka.Transient(msg, err)
}

type consumer interface {
	Start(ctx context.Context) error
	Close() error
}

// Worker runs the settlement consumer as a background loop.
type Worker struct {
	consumer consumer
}

func NewWorker(c consumer) *Worker {
	return &Worker{consumer: c}
}

func (w *Worker) Name() string {
	return "settlement"
}

func (w *Worker) Run(ctx context.Context) error {
	return w.consumer.Start(ctx)
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}
