package handler

import (
	"fmt"
	"net/http"
	"strings"

	"aichat/internal/httputil"
)

// PathParam extracts a required path parameter, writing a 400 and returning false if it is blank
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("%s is required", label))
		return "", false
	}
	return value, true
}

// statusResponse is the body of mutation endpoints that return no resource
type statusResponse struct {
	Status string `json:"status"`
}
