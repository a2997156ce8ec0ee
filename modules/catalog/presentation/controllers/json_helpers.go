package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/cmdvault/cmdvault/pkg/composables"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already gone; nothing sensible left to do.
		return
	}
}

// writeError renders a general error body under the "detail" key the
// console looks for.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeFieldErrors renders a 400 validation body keyed by field name.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logger := composables.UseLogger(r.Context())
	logger.WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}
