package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"letterstosanta.app/cloud/models"
)

// loadOwnedChild resolves the dashboard-path content gate: the caller
// must hold a valid session, the child must exist, and it must belong to
// the session's customer. Ownership failures are reported as not-found so
// child ids cannot be probed.
func (s *Server) loadOwnedChild(w http.ResponseWriter, r *http.Request) (*models.Child, *models.Customer, bool) {
	claims, ok := s.Sessions.FromRequest(r)
	if !ok {
		respondError(w, models.ErrUnauthorized)
		return nil, nil, false
	}

	ctx := r.Context()
	child, err := s.Storage.GetChild(ctx, chi.URLParam(r, "childID"))
	if err != nil {
		respondError(w, err)
		return nil, nil, false
	}
	if child == nil || child.CustomerID != claims.CustomerID {
		respondError(w, models.ErrNotFound)
		return nil, nil, false
	}

	customer, err := s.Storage.GetCustomer(ctx, child.CustomerID)
	if err != nil {
		respondError(w, err)
		return nil, nil, false
	}
	if customer == nil {
		respondError(w, models.ErrNotFound)
		return nil, nil, false
	}

	return child, customer, true
}

func (s *Server) SantaLetterView(w http.ResponseWriter, r *http.Request) {
	child, customer, ok := s.loadOwnedChild(w, r)
	if !ok {
		return
	}

	if !customer.Tier.HasSantaLetterAccess() {
		writeLocked(w, map[string]any{"childName": child.Name})
		return
	}

	letter, err := s.Storage.FindLetterByChild(r.Context(), child.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, santaLetterProjection(child, letter))
}

func (s *Server) CertificateView(w http.ResponseWriter, r *http.Request) {
	child, customer, ok := s.loadOwnedChild(w, r)
	if !ok {
		return
	}

	if !customer.Tier.HasSantaLetterAccess() {
		writeLocked(w, map[string]any{"childName": child.Name})
		return
	}

	letter, err := s.Storage.FindLetterByChild(r.Context(), child.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, certificateProjection(child, letter))
}
