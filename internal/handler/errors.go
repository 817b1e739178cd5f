package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"aichat/internal/domain"
	"aichat/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Typed errors carry their own status; bare sentinels are mapped after that.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		status := httpErr.StatusCode()
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "error", err)
			httputil.RespondError(w, status, "internal server error")
			return
		}
		httputil.RespondError(w, status, httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseBody decodes the JSON body into dest, writing a 400/413 and returning false on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
