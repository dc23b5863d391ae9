package handlers

import (
	"net/http"
	"time"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/internal/stories"
	"letterstosanta.app/cloud/models"
)

// AdvanceTrackers moves every eligible child forward by exactly one
// milestone. Triggered once per day by an external scheduler; the
// scheduler, not this handler, is responsible for at-most-one run per day
// and for avoiding overlapping invocations.
func (s *Server) AdvanceTrackers(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+s.Config.CronSecret {
		writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx := r.Context()
	children, err := s.Storage.ListAdvanceableChildren(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	advanced := 0
	notified := 0
	for _, child := range children {
		newIndex := child.MilestoneIndex + 1
		info := models.MilestoneAt(newIndex)

		child.MilestoneIndex = newIndex
		child.CurrentMilestone = info.ID
		child.CurrentStoryText = info.StoryText
		child.UpdatedAt = time.Now()

		// Per-child isolation: one failing child never aborts the rest.
		if err := s.Storage.SaveChild(ctx, child); err != nil {
			logger.Error("Failed to advance child", map[string]interface{}{
				"error":    err.Error(),
				"child_id": child.ID,
			})
			continue
		}
		advanced++

		if !models.MilestoneEmailable(newIndex) {
			continue
		}
		if s.sendDailyStory(r, child, newIndex) {
			notified++
		}
	}

	logger.Info("Trackers advanced", map[string]interface{}{
		"advanced": advanced,
		"notified": notified,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"advanced": advanced,
		"notified": notified,
	})
}

// sendDailyStory attempts the day's story email for one child. Only
// customers whose tier grants tracker content receive daily stories.
func (s *Server) sendDailyStory(r *http.Request, child *models.Child, newIndex int) bool {
	ctx := r.Context()

	customer, err := s.Storage.GetCustomer(ctx, child.CustomerID)
	if err != nil || customer == nil {
		logger.Error("Customer lookup failed for daily story", map[string]interface{}{
			"child_id":    child.ID,
			"customer_id": child.CustomerID,
		})
		return false
	}
	if !customer.Tier.HasTrackerAccess() {
		return false
	}

	// Delivery day carries the call-to-action links for tiers entitled
	// to the personalized reply.
	var santaLetterURL, certificateURL string
	if newIndex == models.FinalMilestoneIndex()-1 && customer.Tier.HasSantaLetterAccess() {
		santaLetterURL = s.Config.BaseURL + "/santa-letter/" + child.ID
		certificateURL = s.Config.BaseURL + "/certificate/" + child.ID
	}

	email, ok := stories.ComposeDaily(customer.Email, customer.FirstName, child.Name, newIndex, santaLetterURL, certificateURL)
	if !ok {
		return false
	}

	outcome := s.DailyEmailNotifier.Attempt(ctx, email)
	if !outcome.Delivered {
		logger.Error("Failed to send daily story email", map[string]interface{}{
			"error":    outcome.Err.Error(),
			"child_id": child.ID,
			"day":      newIndex,
		})
		return false
	}
	return true
}
