package claims

import (
	"context"

	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/lock"
	"turfslot/pkg/logger"
)

// Coordinator runs claim commands: it holds the ground locks for the
// duration of one transaction, and announces committed changes.
type Coordinator struct {
	Detector  *Detector
	Horizon   Horizon
	locker    lock.Locker
	tx        mongotx.TransactionManager
	publisher Publisher
	log       *logger.Logger
}

func NewCoordinator(
	detector *Detector,
	horizon Horizon,
	locker lock.Locker,
	tx mongotx.TransactionManager,
	publisher Publisher,
	log *logger.Logger,
) *Coordinator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Coordinator{
		Detector:  detector,
		Horizon:   horizon,
		locker:    locker,
		tx:        tx,
		publisher: publisher,
		log:       log,
	}
}

// Commit locks keys then runs fn in a transaction. The context passed to
// fn must be used for every read and write that belongs to the command.
func (c *Coordinator) Commit(ctx context.Context, keys []string, fn mongotx.TransactionFunc) error {
	release, err := c.locker.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer release()

	return c.tx.ExecuteTransaction(ctx, fn)
}

// Announce publishes events for a committed command. Failures are logged
// and never undo the command.
func (c *Coordinator) Announce(ctx context.Context, events ...Event) {
	for _, evt := range events {
		if err := c.publisher.Publish(ctx, evt); err != nil {
			c.log.Warn("Failed to publish claim event",
				"type", evt.Type,
				"kind", evt.Kind,
				"id", evt.ID,
				"error", err,
			)
		}
	}
}
