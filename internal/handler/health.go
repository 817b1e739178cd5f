package handler

import (
	"net/http"

	"aichat/internal/httputil"
)

// Health reports liveness
// GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
