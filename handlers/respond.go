package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"guardops/scheduling"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the engine taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage failure: logged and returned as a
// bare 500 so internals never leak.
func respondError(log zerolog.Logger, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, scheduling.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, scheduling.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, scheduling.ErrConflict):
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("internal error")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func queryUint(r *http.Request, name string) uint {
	v, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

func pathID(param string) (uint, bool) {
	v, err := strconv.ParseUint(param, 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
