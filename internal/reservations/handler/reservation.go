package handler

import (
	"net/http"

	"turfslot/internal/reservations/service"
	httputil "turfslot/pkg/http"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

type removeRequest struct {
	IDs []string `json:"ids"`
}

type removeResponse struct {
	Removed int64 `json:"removed"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	detail, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, detail); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) AddSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var entry model.ReservationEntry
	if err := httputil.DecodeJSON(r, &entry); err != nil {
		h.writeError(w, "AddSlot", err)
		return
	}

	slot, err := h.service.AddSlot(r.Context(), ps.ByName("id"), &entry)
	if err != nil {
		h.writeError(w, "AddSlot", err)
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "AddSlot", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.CancelReservation(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Remove(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req removeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Remove", err)
		return
	}

	removed, err := h.service.Remove(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, "Remove", err)
		return
	}

	if err := httputil.WriteSuccess(w, removeResponse{Removed: removed}); err != nil {
		h.log.Error("failed to write success response", "handler", "Remove", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) EditSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ReservationSlotUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "EditSlot", err)
		return
	}

	slot, err := h.service.EditSlot(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "EditSlot", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "EditSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) CancelSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.service.CancelSlot(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CancelSlot", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.POST("/api/v1/reservations/remove", h.Remove)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.POST("/api/v1/reservations/id/:id/slots", h.AddSlot)
	router.POST("/api/v1/reservations/id/:id/cancel", h.Cancel)
	router.PATCH("/api/v1/reservation-slots/id/:id", h.EditSlot)
	router.POST("/api/v1/reservation-slots/id/:id/cancel", h.CancelSlot)
}
