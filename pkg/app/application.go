package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"turfslot/pkg/config"
	"turfslot/pkg/contracts"
	"turfslot/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	healthHandler    http.Handler
	appHandler       http.Handler
	workers          []contracts.Worker
	workersCancel    context.CancelFunc
	workersDone      sync.WaitGroup
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp builds the HTTP stack. A nil store falls back to the in-memory
// idempotency cache.
func (a *Application) SetApp(store middleware.IdempotencyStore, checks []contracts.HealthCheck, handlers ...contracts.Handler) {
	if store == nil {
		store = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	}
	a.idempotencyStore = store
	a.setHealthHandler(checks)
	a.setAppHandler(handlers)
	a.setAppServer()
}

func (a *Application) AddWorker(w contracts.Worker) {
	a.workers = append(a.workers, w)
}

// Handler exposes the assembled mux. Used by handler tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler(checks []contracts.HealthCheck) {
	router := httprouter.New()
	NewHealthHandler(a.cfg.Log, checks...).RegisterRoutes(router)

	var h http.Handler = router
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.healthHandler = h
}

func (a *Application) setAppHandler(handlers []contracts.Handler) {
	router := httprouter.New()
	for _, handler := range handlers {
		handler.RegisterRoutes(router)
	}

	var h http.Handler = router
	h = middleware.Idempotency(a.idempotencyStore, middleware.DefaultIdempotencyHeader)(h)
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RateLimit(a.rateLimiter(), a.cfg.Log)(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.appHandler = h
}

func (a *Application) rateLimiter() *middleware.RateLimiter {
	if a.cfg.RateLimitPerSecond <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(float64(a.cfg.RateLimitPerSecond), a.cfg.RateLimitBurst)
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) startWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	a.workersCancel = cancel

	for _, w := range a.workers {
		a.workersDone.Add(1)
		go func(w contracts.Worker) {
			defer a.workersDone.Done()
			a.cfg.Log.Info("Starting background worker", "worker", w.Name())
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.cfg.Log.Error("Background worker stopped", "worker", w.Name(), "error", err)
			}
		}(w)
	}
}

func (a *Application) Run() {
	a.startWorkers()

	serverErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)
	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	if a.workersCancel != nil {
		a.workersCancel()
	}
	for _, w := range a.workers {
		if err := w.Close(); err != nil {
			a.cfg.Log.Warn("Worker close failed", "worker", w.Name(), "error", err)
		}
	}
	a.workersDone.Wait()
	a.idempotencyStore.Stop()

	a.cfg.Log.Info("Server stopped gracefully")
}
