package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"guardops/middleware"
	"guardops/scheduling"
)

type AuditHandler struct {
	engine *scheduling.Engine
	log    zerolog.Logger
}

func NewAuditHandler(engine *scheduling.Engine, log zerolog.Logger) *AuditHandler {
	return &AuditHandler{engine: engine, log: log}
}

// Trail handles GET /audit?entity_type=&entity_id=&limit=.
func (h *AuditHandler) Trail(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	entries, err := h.engine.AuditTrail(r.Context(), identity.TenantID,
		r.URL.Query().Get("entity_type"), queryUint(r, "entity_id"), queryInt(r, "limit"))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
