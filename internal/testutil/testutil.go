// Package testutil wires up servers and fixture data for handler tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"letterstosanta.app/cloud/internal/config"
	"letterstosanta.app/cloud/models"
	"letterstosanta.app/cloud/storage"
)

// TestConfig returns a config with stable secrets and no outbound URLs.
// Stripe signature verification is skipped so webhook tests can post
// hand-built events.
func TestConfig() *config.Config {
	return &config.Config{
		Port:                      "8080",
		StripeSecret:              "sk_test_123",
		StripeWebhookSecret:       "whsec_test",
		SessionSecret:             "test-session-secret-32-chars-min",
		CronSecret:                "cron-secret",
		AutomationSecret:          "automation-secret",
		AdminSecret:               "admin-secret",
		BaseURL:                   "http://localhost:8080",
		InsecureSkipWebhookVerify: true,
	}
}

// TestPasscode is the plaintext behind every fixture customer's hash.
const TestPasscode = "1234"

func passcodeHash() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPasscode), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
}

// CreateTestCustomer seeds a customer with one child and letter at the
// first milestone, returning all three.
func CreateTestCustomer(db storage.Storage, email string, tier models.Tier) (*models.Customer, *models.Child, *models.Letter) {
	now := time.Now()
	customer := &models.Customer{
		ID:           uuid.Must(uuid.NewRandom()).String(),
		FirstName:    "Holly",
		LastName:     "Garland",
		Email:        email,
		PasscodeHash: passcodeHash(),
		Tier:         tier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	first := models.FirstMilestone()
	child := &models.Child{
		ID:               uuid.Must(uuid.NewRandom()).String(),
		CustomerID:       customer.ID,
		Name:             "Noelle",
		Age:              7,
		TrackerID:        models.NewTrackerID(),
		CurrentMilestone: first.ID,
		MilestoneIndex:   0,
		CurrentStoryText: first.StoryText,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	letter := &models.Letter{
		ID:         uuid.Must(uuid.NewRandom()).String(),
		ChildID:    child.ID,
		LetterText: "Dear Santa, I would like a sled.",
		Wishlist:   "sled, mittens",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx := context.Background()
	if err := db.CreateOrder(ctx, customer, []*models.Child{child}, []*models.Letter{letter}); err != nil {
		panic(fmt.Sprintf("failed to seed customer %s: %v", email, err))
	}
	return customer, child, letter
}

// SetChildMilestone moves a seeded child to the given catalog index.
func SetChildMilestone(db storage.Storage, child *models.Child, index int) {
	info := models.MilestoneAt(index)
	child.MilestoneIndex = index
	child.CurrentMilestone = info.ID
	child.CurrentStoryText = info.StoryText
	child.UpdatedAt = time.Now()
	if err := db.SaveChild(context.Background(), child); err != nil {
		panic(fmt.Sprintf("failed to set milestone: %v", err))
	}
}
