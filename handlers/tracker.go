package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/models"
)

type TrackerUpdateRequest struct {
	TrackerID              string           `json:"trackerId"`
	Milestone              models.Milestone `json:"milestone"`
	MilestoneIndex         *int             `json:"milestoneIndex,omitempty"`
	StoryText              string           `json:"storyText,omitempty"`
	SantaLetterPDFURL      string           `json:"santaLetterPdfUrl,omitempty"`
	NiceListCertificateURL string           `json:"niceListCertificateUrl,omitempty"`
}

// UpdateTracker lets the trusted automation partner set a child's
// progression directly. Unlike the advancer this endpoint does not
// enforce monotonic progression: corrections, including backward jumps,
// are allowed, so the caller must be trusted.
func (s *Server) UpdateTracker(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Automation-Secret")
	// Missing and wrong secrets are indistinguishable to the caller.
	if s.Config.AutomationSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.Config.AutomationSecret)) != 1 {
		writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req TrackerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.TrackerID == "" {
		respondError(w, models.Invalid("trackerId", "required"))
		return
	}
	catalogIndex := models.MilestoneIndex(req.Milestone)
	if catalogIndex < 0 {
		respondError(w, models.Invalid("milestone", "unknown milestone value"))
		return
	}

	ctx := r.Context()
	child, err := s.Storage.FindChildByTrackerID(ctx, req.TrackerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if child == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	index := catalogIndex
	if req.MilestoneIndex != nil {
		index = *req.MilestoneIndex
	}

	child.CurrentMilestone = req.Milestone
	child.MilestoneIndex = index
	if req.StoryText != "" {
		child.CurrentStoryText = req.StoryText
	}
	child.UpdatedAt = time.Now()
	if err := s.Storage.SaveChild(ctx, child); err != nil {
		respondError(w, err)
		return
	}

	letter, err := s.Storage.FindLetterByChild(ctx, child.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if letter != nil && (req.SantaLetterPDFURL != "" || req.NiceListCertificateURL != "") {
		// Only the provided asset fields are touched.
		if req.SantaLetterPDFURL != "" {
			letter.SantaLetterPDFURL = req.SantaLetterPDFURL
		}
		if req.NiceListCertificateURL != "" {
			letter.NiceListCertificateURL = req.NiceListCertificateURL
		}
		letter.UpdatedAt = time.Now()
		if err := s.Storage.SaveLetter(ctx, letter); err != nil {
			respondError(w, err)
			return
		}
	}

	customer, err := s.Storage.GetCustomer(ctx, child.CustomerID)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Info("Tracker updated", map[string]interface{}{
		"tracker_id": req.TrackerID,
		"milestone":  req.Milestone,
		"index":      index,
	})

	response := map[string]any{
		"success":        true,
		"trackerId":      req.TrackerID,
		"milestone":      req.Milestone,
		"milestoneIndex": index,
		"child":          child,
		"letter":         letter,
	}
	if customer != nil {
		response["customer"] = customer.Summary()
	}
	writeJSON(w, http.StatusOK, response)
}

// TrackerView is the public, anonymous milestone lookup. The tracker id
// itself is the capability; tier gating is the only check.
func (s *Server) TrackerView(w http.ResponseWriter, r *http.Request) {
	trackerID := chi.URLParam(r, "trackerID")

	ctx := r.Context()
	child, err := s.Storage.FindChildByTrackerID(ctx, trackerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if child == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	customer, err := s.Storage.GetCustomer(ctx, child.CustomerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if customer == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	if !customer.Tier.HasTrackerAccess() {
		writeLocked(w, map[string]any{
			"childName":      child.Name,
			"milestoneCount": models.FinalMilestoneIndex() + 1,
		})
		return
	}

	letter, err := s.Storage.FindLetterByChild(ctx, child.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trackerProjection(child, customer, letter))
}
