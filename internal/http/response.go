package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps ledger errors onto HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, core.ErrConfirmationRequired):
		return http.StatusPreconditionFailed
	case errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrRuleNotFound),
		errors.Is(err, core.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server-side failures and hides their detail from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}
