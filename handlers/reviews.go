package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"letterstosanta.app/cloud/models"
)

const publicReviewLimit = 20

func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.Storage.ListReviews(r.Context(), true, publicReviewLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

type CreateReviewRequest struct {
	Name     string `json:"name"`
	Comment  string `json:"comment"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

func (s *Server) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.Name)
	comment := strings.TrimSpace(req.Comment)
	if name == "" {
		respondError(w, models.Invalid("name", "required"))
		return
	}
	if comment == "" {
		respondError(w, models.Invalid("comment", "required"))
		return
	}

	review := &models.Review{
		ID:        uuid.Must(uuid.NewRandom()).String(),
		Name:      name,
		Comment:   comment,
		PhotoURL:  strings.TrimSpace(req.PhotoURL),
		Approved:  false,
		CreatedAt: time.Now(),
	}
	if err := s.Storage.SaveReview(r.Context(), review); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"review":  review,
	})
}
