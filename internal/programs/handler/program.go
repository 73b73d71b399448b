package handler

import (
	"net/http"

	"turfslot/internal/programs/service"
	httputil "turfslot/pkg/http"
	"turfslot/pkg/logger"
	"turfslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// ProgramHandler serves one program kind; academies and memberships are
// mounted under their own paths.
type ProgramHandler struct {
	kind    model.ProgramKind
	service service.ProgramService
	log     *logger.Logger
}

func NewProgramHandler(kind model.ProgramKind, service service.ProgramService, log *logger.Logger) *ProgramHandler {
	return &ProgramHandler{
		kind:    kind,
		service: service,
		log:     log,
	}
}

func (h *ProgramHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ProgramRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	program, err := h.service.Register(r.Context(), h.kind, &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, program); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *ProgramHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	program, err := h.service.GetByID(r.Context(), h.kind, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, program); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProgramHandler) ListByGround(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	programs, err := h.service.List(r.Context(), h.kind, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListByGround", err)
		return
	}

	if err := httputil.WriteSuccess(w, programs); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByGround", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ProgramUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	program, err := h.service.Update(r.Context(), h.kind, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, program); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProgramHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	program, err := h.service.Deactivate(r.Context(), h.kind, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Deactivate", err)
		return
	}

	if err := httputil.WriteSuccess(w, program); err != nil {
		h.log.Error("failed to write success response", "handler", "Deactivate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProgramHandler) Activate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	program, err := h.service.Activate(r.Context(), h.kind, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Activate", err)
		return
	}

	if err := httputil.WriteSuccess(w, program); err != nil {
		h.log.Error("failed to write success response", "handler", "Activate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProgramHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "kind", h.kind, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ProgramHandler) basePath() string {
	if h.kind == model.ProgramMembership {
		return "memberships"
	}
	return "academies"
}

func (h *ProgramHandler) RegisterRoutes(router *httprouter.Router) {
	base := "/api/v1/" + h.basePath()
	router.POST(base, h.Register)
	router.GET(base+"/id/:id", h.GetByID)
	router.PATCH(base+"/id/:id", h.Update)
	router.POST(base+"/id/:id/deactivate", h.Deactivate)
	router.POST(base+"/id/:id/activate", h.Activate)
	router.GET("/api/v1/grounds/id/:id/"+h.basePath(), h.ListByGround)
}
