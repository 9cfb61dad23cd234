package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tcg-tools/cardvault/internal/errs"
)

type httpError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// listResponse is the uniform envelope for list endpoints.
type listResponse struct {
	Success    bool `json:"success"`
	Data       any  `json:"data"`
	TotalCount int  `json:"totalCount"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: data, TotalCount: total})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	e := httpError{}
	e.Error.Code = code
	e.Error.Message = msg
	writeJSON(w, status, e)
}

// writeServiceError maps sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrAuthRequired), errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "ALREADY_EXISTS", "already exists")
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, errs.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many attempts")
	case errors.Is(err, errs.ErrUpstream):
		writeError(w, http.StatusBadGateway, "UPSTREAM", "card catalog unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}
