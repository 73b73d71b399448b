package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"turfslot/internal/allocation"
	"turfslot/internal/claims"
	"turfslot/internal/memstore"
	"turfslot/pkg/app"
	"turfslot/pkg/client"
	"turfslot/pkg/config"
	"turfslot/pkg/contracts"
	"turfslot/pkg/lock"
	"turfslot/pkg/logger"
)

// Server is the full allocation HTTP stack over the in-memory store.
type Server struct {
	*Client
	Store     *memstore.Store
	Published *claims.RecordingPublisher
	Config    *config.Config
}

func NewServer(t *testing.T, tweak ...func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:                 config.DefaultPort,
		RequestTimeout:       5 * time.Second,
		IdempotencyTTL:       time.Minute,
		MaxRequestSize:       config.DefaultMaxRequestSize,
		ReadTimeout:          config.DefaultReadTimeout,
		WriteTimeout:         config.DefaultWriteTimeout,
		IdleTimeout:          config.DefaultIdleTimeout,
		ShutdownTimeout:      config.DefaultShutdownTimeout,
		StoreBackend:         config.StoreMemory,
		LockBackend:          config.LockMemory,
		LockWaitTimeout:      2 * time.Second,
		TimeZone:             "UTC",
		Location:             time.UTC,
		BookingHorizonDays:   30,
		DefaultSlotPrice:     config.DefaultSlotPrice,
		ProgramOverlapScope:  config.ProgramScopeGlobal,
		EventDuplicatePolicy: config.EventPolicyExact,
		Log:                  logger.Discard(),
		Client:               client.NewClient(),
	}
	for _, fn := range tweak {
		fn(cfg)
	}

	store := memstore.New()
	published := &claims.RecordingPublisher{}
	engine := allocation.New(
		cfg,
		allocation.MemoryStores(store),
		lock.NewMemoryLocker(cfg.LockWaitTimeout),
		published,
		claims.NewHorizon(cfg.Location, cfg.BookingHorizonDays),
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(nil, []contracts.HealthCheck{store}, engine.Handlers()...)

	srv := httptest.NewServer(serverApp.Handler())
	t.Cleanup(srv.Close)

	return &Server{
		Client:    NewClient(srv.URL),
		Store:     store,
		Published: published,
		Config:    cfg,
	}
}
