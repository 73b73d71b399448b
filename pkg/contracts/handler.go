package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck interface {
	Name() string
	Ping(ctx context.Context) error
}

// Worker is a long-running background loop that stops when ctx is done.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
	Close() error
}
