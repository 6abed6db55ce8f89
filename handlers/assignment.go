package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"guardops/middleware"
	"guardops/scheduling"
)

type AssignmentHandler struct {
	engine *scheduling.Engine
	log    zerolog.Logger
}

func NewAssignmentHandler(engine *scheduling.Engine, log zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{engine: engine, log: log}
}

type assignRequest struct {
	GuardID    uint   `json:"guard_id"`
	PostID     uint   `json:"post_id"`
	SlotNumber int    `json:"slot_number"`
	StartDate  string `json:"start_date"`
	Reason     string `json:"reason"`
}

// Assign handles POST /assignments.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(w, "start_date must be YYYY-MM-DD")
		return
	}

	assignment, err := h.engine.Assign(r.Context(), identity.TenantID, identity.Actor, scheduling.AssignInput{
		GuardID:    req.GuardID,
		PostID:     req.PostID,
		SlotNumber: req.SlotNumber,
		StartDate:  start,
		Reason:     req.Reason,
	})
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}

type unassignRequest struct {
	EndDate string `json:"end_date"`
	Reason  string `json:"reason"`
}

// Close handles POST /assignments/{id}/close.
func (h *AssignmentHandler) Close(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		badRequest(w, "invalid assignment id")
		return
	}
	var req unassignRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	assignment, err := h.engine.Unassign(r.Context(), identity.TenantID, identity.Actor, id, end, req.Reason)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

// CheckExisting handles GET /guards/{id}/assignment. It warns the UI
// before a transfer and never mutates state.
func (h *AssignmentHandler) CheckExisting(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		badRequest(w, "invalid guard id")
		return
	}

	assignment, err := h.engine.CheckExisting(r.Context(), identity.TenantID, id)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	if assignment == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"assigned": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assigned":   true,
		"assignment": assignment,
	})
}
