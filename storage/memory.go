package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"letterstosanta.app/cloud/models"
)

// MemoryStorage keeps everything in process maps. Used by tests and as a
// fallback when no database path is configured.
type MemoryStorage struct {
	mu        sync.RWMutex
	Customers map[string]models.Customer
	Children  map[string]models.Child
	Letters   map[string]models.Letter
	Reviews   map[string]models.Review
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Customers: make(map[string]models.Customer),
		Children:  make(map[string]models.Child),
		Letters:   make(map[string]models.Letter),
		Reviews:   make(map[string]models.Review),
	}
}

func (m *MemoryStorage) CreateOrder(ctx context.Context, customer *models.Customer, children []*models.Child, letters []*models.Letter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.Customers {
		if existing.Email == customer.Email && id != customer.ID {
			return fmt.Errorf("customer email %s already taken", customer.Email)
		}
	}
	m.Customers[customer.ID] = *customer
	for _, child := range children {
		m.Children[child.ID] = *child
	}
	for _, letter := range letters {
		m.Letters[letter.ID] = *letter
	}
	return nil
}

func (m *MemoryStorage) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, exists := m.Customers[id]
	if !exists {
		return nil, nil
	}
	return &customer, nil
}

func (m *MemoryStorage) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, customer := range m.Customers {
		if customer.Email == email {
			c := customer
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.Customers {
		if existing.Email == customer.Email && id != customer.ID {
			return fmt.Errorf("customer email %s already taken", customer.Email)
		}
	}
	m.Customers[customer.ID] = *customer
	return nil
}

func (m *MemoryStorage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customers := make([]*models.Customer, 0, len(m.Customers))
	for _, customer := range m.Customers {
		c := customer
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	return customers, nil
}

func (m *MemoryStorage) GetChild(ctx context.Context, id string) (*models.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	child, exists := m.Children[id]
	if !exists {
		return nil, nil
	}
	return &child, nil
}

func (m *MemoryStorage) FindChildByTrackerID(ctx context.Context, trackerID string) (*models.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, child := range m.Children {
		if child.TrackerID == trackerID {
			c := child
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) FindChildrenByCustomer(ctx context.Context, customerID string) ([]*models.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var children []*models.Child
	for _, child := range m.Children {
		if child.CustomerID == customerID {
			c := child
			children = append(children, &c)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children, nil
}

func (m *MemoryStorage) ListAdvanceableChildren(ctx context.Context) ([]*models.Child, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var children []*models.Child
	for _, child := range m.Children {
		if child.MilestoneIndex < models.FinalMilestoneIndex() {
			c := child
			children = append(children, &c)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].ID < children[j].ID
	})
	return children, nil
}

func (m *MemoryStorage) SaveChild(ctx context.Context, child *models.Child) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Customers[child.CustomerID]; !exists {
		return fmt.Errorf("customer %s not found", child.CustomerID)
	}
	m.Children[child.ID] = *child
	return nil
}

func (m *MemoryStorage) FindLetterByChild(ctx context.Context, childID string) (*models.Letter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, letter := range m.Letters {
		if letter.ChildID == childID {
			l := letter
			return &l, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) SaveLetter(ctx context.Context, letter *models.Letter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Children[letter.ChildID]; !exists {
		return fmt.Errorf("child %s not found", letter.ChildID)
	}
	m.Letters[letter.ID] = *letter
	return nil
}

func (m *MemoryStorage) GetReview(ctx context.Context, id string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, exists := m.Reviews[id]
	if !exists {
		return nil, nil
	}
	return &review, nil
}

func (m *MemoryStorage) ListReviews(ctx context.Context, approvedOnly bool, limit int) ([]*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reviews []*models.Review
	for _, review := range m.Reviews {
		if approvedOnly && !review.Approved {
			continue
		}
		r := review
		reviews = append(reviews, &r)
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (m *MemoryStorage) SaveReview(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reviews[review.ID] = *review
	return nil
}

func (m *MemoryStorage) DeleteReview(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Reviews, id)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
