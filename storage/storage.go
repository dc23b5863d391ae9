package storage

import (
	"context"

	"letterstosanta.app/cloud/models"
)

// Storage is the single source of truth for customers, children, letters,
// and reviews. Save methods are upserts keyed by entity id; uniqueness of
// customer email and child tracker id is enforced by the backing store.
type Storage interface {
	// CreateOrder persists one customer, its children, and their letters
	// as a single atomic write: either all rows land or none do.
	CreateOrder(ctx context.Context, customer *models.Customer, children []*models.Child, letters []*models.Letter) error

	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	SaveCustomer(ctx context.Context, customer *models.Customer) error
	ListCustomers(ctx context.Context) ([]*models.Customer, error)

	GetChild(ctx context.Context, id string) (*models.Child, error)
	FindChildByTrackerID(ctx context.Context, trackerID string) (*models.Child, error)
	FindChildrenByCustomer(ctx context.Context, customerID string) ([]*models.Child, error)
	// ListAdvanceableChildren returns every child whose milestone index is
	// strictly below the catalog's final index.
	ListAdvanceableChildren(ctx context.Context) ([]*models.Child, error)
	SaveChild(ctx context.Context, child *models.Child) error

	FindLetterByChild(ctx context.Context, childID string) (*models.Letter, error)
	SaveLetter(ctx context.Context, letter *models.Letter) error

	GetReview(ctx context.Context, id string) (*models.Review, error)
	ListReviews(ctx context.Context, approvedOnly bool, limit int) ([]*models.Review, error)
	SaveReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id string) error

	Close() error
}
