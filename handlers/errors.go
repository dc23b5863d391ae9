package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/models"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeLocked renders the entitlement "locked" state: the content exists
// but the tier does not cover it. Distinct from an error so the UI can
// show an upsell instead of a failure.
func writeLocked(w http.ResponseWriter, body map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	body["locked"] = true
	writeJSON(w, http.StatusForbidden, body)
}

// respondError maps the error taxonomy onto stable, minimal client
// responses. Anything unrecognized is a 500 with no internal detail.
func respondError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeErrorResponse(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, models.ErrUnknownTier):
		writeErrorResponse(w, http.StatusBadRequest, "Invalid tier")
	case errors.Is(err, models.ErrDuplicateEmail):
		writeErrorResponse(w, http.StatusConflict, "An account with this email already exists. Please log in instead.")
	case errors.Is(err, models.ErrTierDowngrade):
		writeErrorResponse(w, http.StatusConflict, "Target tier is not an upgrade")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrUnauthorized):
		writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, models.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		logger.Error("Internal error", map[string]interface{}{
			"error": err.Error(),
		})
		writeErrorResponse(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
