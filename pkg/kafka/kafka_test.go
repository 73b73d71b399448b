package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"turfslot/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("ground-1").
		WithJSON(map[string]string{"kind": "booking"}).
		WithEventType("claim.created").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "ground-1", msg.Key)
	assert.JSONEq(t, `{"kind":"booking"}`, string(msg.Value))
	assert.Equal(t, "claim.created", msg.EventType())
	assert.NotEmpty(t, msg.EventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithJSON(make(chan int)).Build()
	assert.Error(t, err)
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "ground-claims", logger.Discard())

	var seen []string
	p.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("g1").WithJSON("x").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	assert.Equal(t, []string{"ground-claims"}, seen)
	require.Len(t, w.written, 1)
	assert.Equal(t, "g1", string(w.written[0].Key))
}

func TestProducer_RejectsInvalidAndClosed(t *testing.T) {
	p := newProducer(&fakeWriter{}, "t", logger.Discard())

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}), ErrProducerClosed)
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"nil", nil, 0, false},
		{"transient", Transient("store", errors.New("x")), 0, true},
		{"transient exhausted", Transient("store", errors.New("x")), 3, false},
		{"permanent", Permanent("bad payload", errors.New("x")), 0, false},
		{"network sniffed", errors.New("dial tcp: connection refused"), 1, true},
		{"unknown", errors.New("boom"), 0, false},
		{"deadline", context.DeadlineExceeded, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(tt.err, tt.attempt, 3))
		})
	}
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Key: []byte("a"), Value: []byte(`{}`), Offset: 1},
			{Key: []byte("b"), Value: []byte(`{}`), Offset: 2},
		},
	}
	dlq := &fakeWriter{}

	calls := map[string]int{}
	handler := func(_ context.Context, msg Message) error {
		calls[msg.Key]++
		if msg.Key == "a" {
			return Transient("store unavailable", errors.New("x"))
		}
		return nil
	}

	c := newConsumer(reader, dlq, "claim-settlements", "g", handler, logger.Discard())
	c.maxRetries = 2

	err := c.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 3, calls["a"])
	assert.Equal(t, 1, calls["b"])
	assert.Equal(t, []int64{1, 2}, reader.committed)
	require.Len(t, dlq.written, 1)
	assert.Equal(t, "a", string(dlq.written[0].Key))
}
