package app

import (
	"context"
	"net/http"
	"time"

	"turfslot/pkg/contracts"
	httputil "turfslot/pkg/http"
	"turfslot/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	checks []contracts.HealthCheck
	log    *logger.Logger
}

func NewHealthHandler(log *logger.Logger, checks ...contracts.HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, log: log}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Error("Dependency health check failed", "dependency", check.Name(), "error", err)
			deps[check.Name()] = "error"
			status, code = "unavailable", http.StatusServiceUnavailable
			continue
		}
		deps[check.Name()] = "ok"
	}

	if err := httputil.WriteJSON(w, code, HealthResponse{Status: status, Dependencies: deps}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

type mongoCheck struct{ client *mongo.Client }

func MongoCheck(client *mongo.Client) contracts.HealthCheck { return mongoCheck{client} }

func (mongoCheck) Name() string { return "mongo" }

func (c mongoCheck) Ping(ctx context.Context) error { return c.client.Ping(ctx, readpref.Primary()) }

type redisCheck struct{ client *redis.Client }

func RedisCheck(client *redis.Client) contracts.HealthCheck { return redisCheck{client} }

func (redisCheck) Name() string { return "redis" }

func (c redisCheck) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }
