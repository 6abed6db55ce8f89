package handlers

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"guardops/middleware"
	"guardops/models"
	"guardops/scheduling"
)

type ScheduleHandler struct {
	engine *scheduling.Engine
	log    zerolog.Logger
}

func NewScheduleHandler(engine *scheduling.Engine, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{engine: engine, log: log}
}

type paintSeriesRequest struct {
	PostID        uint   `json:"post_id"`
	SlotNumber    int    `json:"slot_number"`
	PatternCode   string `json:"pattern_code"`
	PatternWork   int    `json:"pattern_work"`
	PatternOff    int    `json:"pattern_off"`
	StartDate     string `json:"start_date"`
	StartPosition int    `json:"start_position"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
}

// PaintSeries handles POST /series/paint.
func (h *ScheduleHandler) PaintSeries(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req paintSeriesRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(w, "start_date must be YYYY-MM-DD")
		return
	}

	series, err := h.engine.PaintSeries(r.Context(), identity.TenantID, identity.Actor, scheduling.PaintSeriesInput{
		PostID:        req.PostID,
		SlotNumber:    req.SlotNumber,
		PatternCode:   req.PatternCode,
		PatternWork:   req.PatternWork,
		PatternOff:    req.PatternOff,
		StartDate:     start,
		StartPosition: req.StartPosition,
		Year:          req.Year,
		Month:         req.Month,
	})
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, series)
}

// GetMonth handles GET /schedule/month?installation_id=&year=&month=.
func (h *ScheduleHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	installationID := queryUint(r, "installation_id")
	if installationID == 0 {
		badRequest(w, "installation_id is required")
		return
	}
	cells, err := h.engine.GetMonth(r.Context(), identity.TenantID, installationID,
		queryInt(r, "year"), queryInt(r, "month"))
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"cells": cells})
}

type upsertCellRequest struct {
	PostID         uint              `json:"post_id"`
	SlotNumber     int               `json:"slot_number"`
	Date           string            `json:"date"`
	ShiftCode      string            `json:"shift_code"`
	PlannedGuardID *uint             `json:"planned_guard_id"`
	ClearPlanned   bool              `json:"clear_planned"`
	Status         models.CellStatus `json:"status"`
	Notes          *string           `json:"notes"`
}

// UpsertCell handles PUT /schedule/cell.
func (h *ScheduleHandler) UpsertCell(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req upsertCellRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}

	cell, err := h.engine.UpsertCell(r.Context(), identity.TenantID, identity.Actor, scheduling.UpsertCellInput{
		PostID:         req.PostID,
		SlotNumber:     req.SlotNumber,
		Date:           date,
		ShiftCode:      req.ShiftCode,
		PlannedGuardID: req.PlannedGuardID,
		ClearPlanned:   req.ClearPlanned,
		Status:         req.Status,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cell)
}

// ExportMonth handles GET /schedule/export?installation_id=&year=&month=
// and streams the pauta as a spreadsheet: one row per slot, one column
// per day.
func (h *ScheduleHandler) ExportMonth(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	installationID := queryUint(r, "installation_id")
	year := queryInt(r, "year")
	month := queryInt(r, "month")
	if installationID == 0 {
		badRequest(w, "installation_id is required")
		return
	}
	cells, err := h.engine.GetMonth(r.Context(), identity.TenantID, installationID, year, month)
	if err != nil {
		respondError(h.log, w, err)
		return
	}

	file := excelize.NewFile()
	sheet := fmt.Sprintf("Pauta %04d-%02d", year, month)
	file.SetSheetName("Sheet1", sheet)

	// Header: post, slot, then one column per day of the month.
	lastDay := 0
	for _, cell := range cells {
		if cell.Date.Day() > lastDay {
			lastDay = cell.Date.Day()
		}
	}
	headers := []string{"Post", "Slot"}
	for d := 1; d <= lastDay; d++ {
		headers = append(headers, fmt.Sprintf("%d", d))
	}
	for i, hdr := range headers {
		ref, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, ref, hdr)
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startRef, _ := excelize.CoordinatesToCellName(1, 1)
		endRef, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = file.SetCellStyle(sheet, startRef, endRef, style)
	}

	// One row per (post, slot), in first-seen order, which GetMonth
	// already sorts by post then slot.
	type slotKey struct {
		postID uint
		slot   int
	}
	rows := map[slotKey]int{}
	nextRow := 2
	for _, cell := range cells {
		key := slotKey{cell.PostID, cell.SlotNumber}
		row, ok := rows[key]
		if !ok {
			row = nextRow
			nextRow++
			rows[key] = row
			postName := fmt.Sprintf("post %d", cell.PostID)
			if cell.Post != nil {
				postName = cell.Post.Name
			}
			ref, _ := excelize.CoordinatesToCellName(1, row)
			_ = file.SetCellValue(sheet, ref, postName)
			ref, _ = excelize.CoordinatesToCellName(2, row)
			_ = file.SetCellValue(sheet, ref, cell.SlotNumber)
		}
		value := cell.ShiftCode
		if cell.IsWorkDay() && cell.PlannedGuard != nil {
			value = fmt.Sprintf("T (%s)", cell.PlannedGuard.FullName)
		}
		ref, _ := excelize.CoordinatesToCellName(2+cell.Date.Day(), row)
		_ = file.SetCellValue(sheet, ref, value)
	}

	filename := fmt.Sprintf("pauta_%d_%04d_%02d.xlsx", installationID, year, month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := file.Write(w); err != nil {
		respondError(h.log, w, err)
	}
}
