package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"turfslot/internal/catalog/service"
	httputil "turfslot/pkg/http"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) CreateGround(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var ground model.Ground
	if err := httputil.DecodeJSON(r, &ground); err != nil {
		h.writeError(w, "CreateGround", err)
		return
	}

	slots, err := h.service.CreateGround(r.Context(), &ground)
	if err != nil {
		h.writeError(w, "CreateGround", err)
		return
	}

	if err := httputil.WriteCreated(w, model.GroundCatalog{Ground: &ground, Slots: slots}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateGround", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) GetGround(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	catalog, err := h.service.GetGround(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetGround", err)
		return
	}

	if err := httputil.WriteSuccess(w, catalog); err != nil {
		h.log.Error("failed to write success response", "handler", "GetGround", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListGrounds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListGrounds", err)
		return
	}

	grounds, total, err := h.service.ListGrounds(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListGrounds", err)
		return
	}

	if err := httputil.WritePaginated(w, grounds, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListGrounds", "operation", "WritePaginated", "error", err)
	}
}

func (h *CatalogHandler) UpdateGround(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.GroundUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "UpdateGround", err)
		return
	}

	if err := h.service.UpdateGround(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateGround", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slots, err := h.service.ListSlots(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) GetSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.service.GetSlot(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetSlot", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SlotUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "UpdateSlot", err)
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "UpdateSlot", err)
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/grounds", h.CreateGround)
	router.GET("/api/v1/grounds", h.ListGrounds)
	router.GET("/api/v1/grounds/id/:id", h.GetGround)
	router.PATCH("/api/v1/grounds/id/:id", h.UpdateGround)
	router.GET("/api/v1/grounds/id/:id/slots", h.ListSlots)
	router.GET("/api/v1/slots/id/:id", h.GetSlot)
	router.PATCH("/api/v1/slots/id/:id", h.UpdateSlot)
}
