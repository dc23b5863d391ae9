package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/internal/passcode"
	"letterstosanta.app/cloud/internal/session"
	"letterstosanta.app/cloud/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Passcode string `json:"passcode"`
}

// Login authenticates a family by email and passcode. Unknown email and
// wrong passcode are indistinguishable to the caller.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow(remoteAddr(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.Passcode)
	if email == "" || code == "" {
		respondError(w, models.Invalid("credentials", "email and passcode are required"))
		return
	}

	customer, err := s.Storage.FindCustomerByEmail(r.Context(), email)
	if err != nil {
		respondError(w, err)
		return
	}
	if customer == nil || !passcode.Verify(customer.PasscodeHash, code) {
		respondError(w, models.ErrInvalidCredentials)
		return
	}

	if err := s.Sessions.SetCookie(w, customer.ID, customer.FirstName, customer.LastName); err != nil {
		respondError(w, err)
		return
	}

	logger.Info("Customer logged in", map[string]interface{}{
		"customer_id": customer.ID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"customer": customer.Summary(),
	})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; logout is advisory, not revocation.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
