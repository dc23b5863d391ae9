package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"letterstosanta.app/cloud/models"
)

// requireAdmin gates the admin surface behind its own shared secret,
// separate from family sessions and the automation/cron secrets.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		expected := "Bearer " + s.Config.AdminSecret
		if s.Config.AdminSecret == "" ||
			subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) != 1 {
			writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type AdminOrder struct {
	Customer *models.Customer `json:"customer"`
	Children []AdminChild     `json:"children"`
}

type AdminChild struct {
	Child  *models.Child  `json:"child"`
	Letter *models.Letter `json:"letter,omitempty"`
}

func (s *Server) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	customers, err := s.Storage.ListCustomers(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	orders := make([]AdminOrder, 0, len(customers))
	for _, customer := range customers {
		children, err := s.Storage.FindChildrenByCustomer(ctx, customer.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		order := AdminOrder{Customer: customer}
		for _, child := range children {
			letter, err := s.Storage.FindLetterByChild(ctx, child.ID)
			if err != nil {
				respondError(w, err)
				return
			}
			order.Children = append(order.Children, AdminChild{Child: child, Letter: letter})
		}
		orders = append(orders, order)
	}

	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) AdminListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.Storage.ListReviews(r.Context(), false, 0)
	if err != nil {
		respondError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

type ModerateReviewRequest struct {
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
}

func (s *Server) AdminModerateReview(w http.ResponseWriter, r *http.Request) {
	var req ModerateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ID == "" {
		respondError(w, models.Invalid("id", "required"))
		return
	}

	ctx := r.Context()
	review, err := s.Storage.GetReview(ctx, req.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if review == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	review.Approved = req.Approved
	if err := s.Storage.SaveReview(ctx, review); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) AdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, models.Invalid("id", "required"))
		return
	}

	ctx := r.Context()
	review, err := s.Storage.GetReview(ctx, id)
	if err != nil {
		respondError(w, err)
		return
	}
	if review == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	if err := s.Storage.DeleteReview(ctx, id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
