package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"letterstosanta.app/cloud/models"
)

type SQLiteStorage struct {
	db   *sql.DB
	path string
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStorage{db: db, path: path}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const customerColumns = `id, first_name, last_name, email, passcode_hash, tier,
	extra_children_count, stripe_customer_id, stripe_payment_id, stripe_session_id,
	created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	var stripeCustomerID, stripePaymentID, stripeSessionID sql.NullString
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.PasscodeHash,
		&c.Tier,
		&c.ExtraChildrenCount,
		&stripeCustomerID,
		&stripePaymentID,
		&stripeSessionID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.StripeCustomerID = stripeCustomerID.String
	c.StripePaymentID = stripePaymentID.String
	c.StripeSessionID = stripeSessionID.String
	return &c, nil
}

func (s *SQLiteStorage) CreateOrder(ctx context.Context, customer *models.Customer, children []*models.Child, letters []*models.Letter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	customerQuery := `INSERT INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, customerQuery,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.PasscodeHash,
		customer.Tier,
		customer.ExtraChildrenCount,
		nullable(customer.StripeCustomerID),
		nullable(customer.StripePaymentID),
		nullable(customer.StripeSessionID),
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	childQuery := `INSERT INTO children (` + childColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, child := range children {
		_, err = tx.ExecContext(ctx, childQuery,
			child.ID,
			child.CustomerID,
			child.Name,
			child.Age,
			child.TrackerID,
			child.CurrentMilestone,
			child.MilestoneIndex,
			child.CurrentStoryText,
			child.CreatedAt,
			child.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert child: %w", err)
		}
	}

	letterQuery := `INSERT INTO letters (` + letterColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, letter := range letters {
		_, err = tx.ExecContext(ctx, letterQuery,
			letter.ID,
			letter.ChildID,
			letter.LetterText,
			nullable(letter.Wishlist),
			nullable(letter.GoodThings),
			nullable(letter.PetsAndFamily),
			nullable(letter.PhotoURL),
			nullable(letter.SantaLetterPDFURL),
			nullable(letter.NiceListCertificateURL),
			letter.CreatedAt,
			letter.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert letter: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	customer, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return customer, err
}

func (s *SQLiteStorage) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = ?`
	customer, err := scanCustomer(s.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return customer, err
}

func (s *SQLiteStorage) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	query := `INSERT OR REPLACE INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.PasscodeHash,
		customer.Tier,
		customer.ExtraChildrenCount,
		nullable(customer.StripeCustomerID),
		nullable(customer.StripePaymentID),
		nullable(customer.StripeSessionID),
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

const childColumns = `id, customer_id, name, age, tracker_id, current_milestone,
	milestone_index, current_story_text, created_at, updated_at`

func scanChild(row interface{ Scan(...any) error }) (*models.Child, error) {
	var c models.Child
	err := row.Scan(
		&c.ID,
		&c.CustomerID,
		&c.Name,
		&c.Age,
		&c.TrackerID,
		&c.CurrentMilestone,
		&c.MilestoneIndex,
		&c.CurrentStoryText,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStorage) GetChild(ctx context.Context, id string) (*models.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE id = ?`
	child, err := scanChild(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return child, err
}

func (s *SQLiteStorage) FindChildByTrackerID(ctx context.Context, trackerID string) (*models.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE tracker_id = ?`
	child, err := scanChild(s.db.QueryRowContext(ctx, query, trackerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return child, err
}

func (s *SQLiteStorage) FindChildrenByCustomer(ctx context.Context, customerID string) ([]*models.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE customer_id = ? ORDER BY created_at ASC`
	return s.queryChildren(ctx, query, customerID)
}

func (s *SQLiteStorage) ListAdvanceableChildren(ctx context.Context) ([]*models.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE milestone_index < ? ORDER BY id ASC`
	return s.queryChildren(ctx, query, models.FinalMilestoneIndex())
}

func (s *SQLiteStorage) queryChildren(ctx context.Context, query string, args ...any) ([]*models.Child, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []*models.Child
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, rows.Err()
}

func (s *SQLiteStorage) SaveChild(ctx context.Context, child *models.Child) error {
	query := `INSERT OR REPLACE INTO children (` + childColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		child.ID,
		child.CustomerID,
		child.Name,
		child.Age,
		child.TrackerID,
		child.CurrentMilestone,
		child.MilestoneIndex,
		child.CurrentStoryText,
		child.CreatedAt,
		child.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save child: %w", err)
	}
	return nil
}

const letterColumns = `id, child_id, letter_text, wishlist, good_things,
	pets_and_family, photo_url, santa_letter_pdf_url, nice_list_certificate_url,
	created_at, updated_at`

func scanLetter(row interface{ Scan(...any) error }) (*models.Letter, error) {
	var l models.Letter
	var wishlist, goodThings, petsAndFamily, photoURL, santaPDF, certURL sql.NullString
	err := row.Scan(
		&l.ID,
		&l.ChildID,
		&l.LetterText,
		&wishlist,
		&goodThings,
		&petsAndFamily,
		&photoURL,
		&santaPDF,
		&certURL,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Wishlist = wishlist.String
	l.GoodThings = goodThings.String
	l.PetsAndFamily = petsAndFamily.String
	l.PhotoURL = photoURL.String
	l.SantaLetterPDFURL = santaPDF.String
	l.NiceListCertificateURL = certURL.String
	return &l, nil
}

func (s *SQLiteStorage) FindLetterByChild(ctx context.Context, childID string) (*models.Letter, error) {
	query := `SELECT ` + letterColumns + ` FROM letters WHERE child_id = ?`
	letter, err := scanLetter(s.db.QueryRowContext(ctx, query, childID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return letter, err
}

func (s *SQLiteStorage) SaveLetter(ctx context.Context, letter *models.Letter) error {
	query := `INSERT OR REPLACE INTO letters (` + letterColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		letter.ID,
		letter.ChildID,
		letter.LetterText,
		nullable(letter.Wishlist),
		nullable(letter.GoodThings),
		nullable(letter.PetsAndFamily),
		nullable(letter.PhotoURL),
		nullable(letter.SantaLetterPDFURL),
		nullable(letter.NiceListCertificateURL),
		letter.CreatedAt,
		letter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save letter: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetReview(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT id, name, comment, photo_url, approved, created_at FROM reviews WHERE id = ?`

	var r models.Review
	var photoURL sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID,
		&r.Name,
		&r.Comment,
		&photoURL,
		&r.Approved,
		&r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.PhotoURL = photoURL.String
	return &r, nil
}

func (s *SQLiteStorage) ListReviews(ctx context.Context, approvedOnly bool, limit int) ([]*models.Review, error) {
	query := `SELECT id, name, comment, photo_url, approved, created_at FROM reviews`
	if approvedOnly {
		query += ` WHERE approved = 1`
	}
	query += ` ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var r models.Review
		var photoURL sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.Comment, &photoURL, &r.Approved, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.PhotoURL = photoURL.String
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}

func (s *SQLiteStorage) SaveReview(ctx context.Context, review *models.Review) error {
	query := `INSERT OR REPLACE INTO reviews (id, name, comment, photo_url, approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		review.ID,
		review.Name,
		review.Comment,
		nullable(review.PhotoURL),
		review.Approved,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteReview(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
