package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"guardops/middleware"
	"guardops/models"
	"guardops/scheduling"
)

type AttendanceHandler struct {
	engine *scheduling.Engine
	log    zerolog.Logger
}

func NewAttendanceHandler(engine *scheduling.Engine, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{engine: engine, log: log}
}

// DaySheet handles GET /attendance/day?installation_id=&date=. Missing
// records for painted work days are created as pending.
func (h *AttendanceHandler) DaySheet(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	installationID := queryUint(r, "installation_id")
	if installationID == 0 {
		badRequest(w, "installation_id is required")
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}

	records, err := h.engine.DaySheet(r.Context(), identity.TenantID, identity.Actor, installationID, date)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// Update handles PATCH /attendance/{id}.
func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		badRequest(w, "invalid attendance record id")
		return
	}
	var patch scheduling.AttendancePatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	record, err := h.engine.UpdateAttendance(r.Context(), identity.TenantID, identity.Actor, id, patch)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// ListExtraShifts handles GET /extra-shifts?installation_id=&year=&month=.
func (h *AttendanceHandler) ListExtraShifts(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	shifts, err := h.engine.ListExtraShifts(r.Context(), identity.TenantID,
		queryUint(r, "installation_id"), queryInt(r, "year"), queryInt(r, "month"))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"extra_shifts": shifts})
}

// Approve handles POST /extra-shifts/{id}/approve.
func (h *AttendanceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.engine.ApproveExtraShift)
}

// Reject handles POST /extra-shifts/{id}/reject.
func (h *AttendanceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.engine.RejectExtraShift)
}

// Pay handles POST /extra-shifts/{id}/pay.
func (h *AttendanceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.engine.PayExtraShift)
}

func (h *AttendanceHandler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, tenantID uint, actor string, shiftID uint) (*models.ExtraShift, error)) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		badRequest(w, "invalid extra shift id")
		return
	}
	shift, err := fn(r.Context(), identity.TenantID, identity.Actor, id)
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, shift)
}

// ExportCSV handles GET /extra-shifts/export/csv?installation_id=&year=&month=.
func (h *AttendanceHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	year := queryInt(r, "year")
	month := queryInt(r, "month")
	shifts, err := h.engine.ListExtraShifts(r.Context(), identity.TenantID,
		queryUint(r, "installation_id"), year, month)
	if err != nil {
		respondError(h.log, w, err)
		return
	}

	filename := fmt.Sprintf("extra_shifts_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Guard", "Rut", "Post", "Date", "Amount CLP", "Status"})

	for _, shift := range shifts {
		guardName := ""
		guardRut := ""
		if shift.Guard != nil {
			guardName = shift.Guard.FullName
			guardRut = shift.Guard.Rut
		}
		postName := ""
		if shift.Post != nil {
			postName = shift.Post.Name
		}
		writer.Write([]string{
			guardName,
			guardRut,
			postName,
			shift.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", shift.AmountClp),
			string(shift.Status),
		})
	}
}
