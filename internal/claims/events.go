package claims

import (
	"context"
	"sync"
	"time"

	"turfslot/pkg/calendar"
	"turfslot/pkg/kafka"
)

type EventType string

const (
	EventCreated  EventType = "claim.created"
	EventUpdated  EventType = "claim.updated"
	EventReleased EventType = "claim.released"
)

const eventSchemaVersion = "1"

// Event announces a committed change to a claim.
type Event struct {
	Type      EventType `json:"type"`
	Kind      Kind      `json:"kind"`
	ID        string    `json:"id"`
	GroundIDs []string  `json:"ground_ids"`
	SlotIDs   []string  `json:"slot_ids"`
	Date      string    `json:"date,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
}

func NewEvent(t EventType, c Claim) Event {
	evt := Event{
		Type:      t,
		Kind:      c.Kind,
		ID:        c.ID,
		GroundIDs: c.GroundIDs,
		SlotIDs:   c.SlotIDs,
	}
	if from, to, ok := c.Recurrence.Window(); ok {
		if from.Equal(to) {
			evt.Date = calendar.Format(from)
		} else {
			evt.From, evt.To = calendar.Format(from), calendar.Format(to)
		}
	}
	return evt
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher keys messages by the first ground so one ground's events
// stay ordered on a partition.
type KafkaPublisher struct {
	producer messagePublisher
	source   string
}

func NewKafkaPublisher(producer messagePublisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	key := evt.ID
	if len(evt.GroundIDs) > 0 {
		key = evt.GroundIDs[0]
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithJSON(evt).
		WithEventType(string(evt.Type)).
		WithSource(p.source).
		WithSchemaVersion(eventSchemaVersion).
		Build()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.producer.Publish(ctx, msg)
}

// RecordingPublisher keeps published events in memory. Used by tests.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *RecordingPublisher) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *RecordingPublisher) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
