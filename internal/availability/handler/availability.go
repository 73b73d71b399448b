package handler

import (
	"net/http"

	"turfslot/internal/availability/service"
	httputil "turfslot/pkg/http"
	"turfslot/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.DateParam(r, "date")
	if err != nil {
		h.writeError(w, "GetAvailability", err)
		return
	}

	slots, err := h.service.GetAvailability(r.Context(), ps.ByName("id"), date)
	if err != nil {
		h.writeError(w, "GetAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/grounds/id/:id/availability", h.GetAvailability)
}
