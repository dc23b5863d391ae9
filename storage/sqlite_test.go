package storage

import (
	"context"
	"path/filepath"
	"testing"

	"letterstosanta.app/cloud/models"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	db, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteOrderRoundtrip(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	customer, children, letters := testOrder("holly@example.com")
	customer.StripeCustomerID = "cus_123"
	letters[0].Wishlist = "a sled, a scarf"
	if err := db.CreateOrder(ctx, customer, children, letters); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	got, err := db.FindCustomerByEmail(ctx, "holly@example.com")
	if err != nil {
		t.Fatalf("FindCustomerByEmail failed: %v", err)
	}
	if got == nil || got.ID != customer.ID {
		t.Fatalf("unexpected customer: %+v", got)
	}
	if got.StripeCustomerID != "cus_123" {
		t.Errorf("stripe customer id not persisted: %q", got.StripeCustomerID)
	}

	child, err := db.FindChildByTrackerID(ctx, children[0].TrackerID)
	if err != nil {
		t.Fatalf("FindChildByTrackerID failed: %v", err)
	}
	if child == nil || child.CustomerID != customer.ID {
		t.Fatalf("unexpected child: %+v", child)
	}

	letter, err := db.FindLetterByChild(ctx, child.ID)
	if err != nil {
		t.Fatalf("FindLetterByChild failed: %v", err)
	}
	if letter == nil || letter.Wishlist != "a sled, a scarf" {
		t.Fatalf("unexpected letter: %+v", letter)
	}
	if letter.PhotoURL != "" {
		t.Errorf("empty optional field should stay empty, got %q", letter.PhotoURL)
	}
}

func TestSQLiteDuplicateEmailRollsBack(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	customer, children, letters := testOrder("holly@example.com")
	if err := db.CreateOrder(ctx, customer, children, letters); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	dup, dupChildren, dupLetters := testOrder("holly@example.com")
	if err := db.CreateOrder(ctx, dup, dupChildren, dupLetters); err == nil {
		t.Fatal("expected unique email constraint to fail the order")
	}

	if child, _ := db.GetChild(ctx, dupChildren[0].ID); child != nil {
		t.Error("failed order must not leave child rows behind")
	}
	customers, err := db.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(customers) != 1 {
		t.Errorf("expected 1 customer, got %d", len(customers))
	}
}

func TestSQLiteMissingRowsReturnNil(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	if c, err := db.GetCustomer(ctx, "nope"); err != nil || c != nil {
		t.Errorf("GetCustomer = %v, %v", c, err)
	}
	if c, err := db.FindChildByTrackerID(ctx, "nope"); err != nil || c != nil {
		t.Errorf("FindChildByTrackerID = %v, %v", c, err)
	}
	if l, err := db.FindLetterByChild(ctx, "nope"); err != nil || l != nil {
		t.Errorf("FindLetterByChild = %v, %v", l, err)
	}
	if r, err := db.GetReview(ctx, "nope"); err != nil || r != nil {
		t.Errorf("GetReview = %v, %v", r, err)
	}
}

func TestSQLiteMilestoneUpdate(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	customer, children, letters := testOrder("holly@example.com")
	if err := db.CreateOrder(ctx, customer, children, letters); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	child := children[0]
	child.MilestoneIndex = 3
	info := models.MilestoneAt(3)
	child.CurrentMilestone = info.ID
	child.CurrentStoryText = info.StoryText
	if err := db.SaveChild(ctx, child); err != nil {
		t.Fatalf("SaveChild failed: %v", err)
	}

	got, err := db.GetChild(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetChild failed: %v", err)
	}
	if got.MilestoneIndex != 3 || got.CurrentMilestone != info.ID {
		t.Errorf("milestone not updated: %s/%d", got.CurrentMilestone, got.MilestoneIndex)
	}

	advanceable, err := db.ListAdvanceableChildren(ctx)
	if err != nil {
		t.Fatalf("ListAdvanceableChildren failed: %v", err)
	}
	if len(advanceable) != 1 {
		t.Fatalf("expected 1 advanceable child, got %d", len(advanceable))
	}

	child.MilestoneIndex = models.FinalMilestoneIndex()
	child.CurrentMilestone = models.MilestoneAt(child.MilestoneIndex).ID
	if err := db.SaveChild(ctx, child); err != nil {
		t.Fatalf("SaveChild failed: %v", err)
	}
	advanceable, err = db.ListAdvanceableChildren(ctx)
	if err != nil {
		t.Fatalf("ListAdvanceableChildren failed: %v", err)
	}
	if len(advanceable) != 0 {
		t.Errorf("terminal child must not be advanceable")
	}
}

func TestSQLiteReviews(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	review := &models.Review{
		ID:      "rev_1",
		Name:    "Holly E.",
		Comment: "Magical mornings all December.",
	}
	if err := db.SaveReview(ctx, review); err != nil {
		t.Fatalf("SaveReview failed: %v", err)
	}

	if got, _ := db.ListReviews(ctx, true, 0); len(got) != 0 {
		t.Error("unapproved review appeared in approved list")
	}

	review.Approved = true
	if err := db.SaveReview(ctx, review); err != nil {
		t.Fatalf("SaveReview failed: %v", err)
	}
	got, err := db.ListReviews(ctx, true, 0)
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if len(got) != 1 || !got[0].Approved {
		t.Fatalf("unexpected reviews: %+v", got)
	}

	if err := db.DeleteReview(ctx, review.ID); err != nil {
		t.Fatalf("DeleteReview failed: %v", err)
	}
	if r, _ := db.GetReview(ctx, review.ID); r != nil {
		t.Error("deleted review still present")
	}
}
