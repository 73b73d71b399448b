package kafkamiddleware

import (
	"context"
	"time"

	"turfslot/pkg/kafka"
	"turfslot/pkg/logger"
)

// Logging records every publish or consume with its outcome and latency.
// direction is "publish" or "consume".
func Logging(log *logger.Logger, direction string) kafka.Middleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"direction", direction,
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if direction == "consume" {
			attrs = append(attrs, "partition", msg.Partition, "offset", msg.Offset, "retry", msg.RetryCount())
		}

		if err != nil {
			log.Warn("kafka message failed", append(attrs, "error", err)...)
			return err
		}
		log.Debug("kafka message handled", attrs...)
		return nil
	}
}
