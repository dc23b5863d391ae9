package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Child struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customerId"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	TrackerID        string    `json:"trackerId"`
	CurrentMilestone Milestone `json:"currentMilestone"`
	MilestoneIndex   int       `json:"milestoneIndex"`
	CurrentStoryText string    `json:"currentStoryText"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

const (
	MinChildAge = 1
	MaxChildAge = 18
)

// NewTrackerID generates the opaque public identifier used as the only
// credential for anonymous milestone lookup.
func NewTrackerID() string {
	raw := strings.ReplaceAll(uuid.Must(uuid.NewRandom()).String(), "-", "")
	return raw[:12]
}
