package models

import "time"

type Customer struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email"`
	PasscodeHash       string    `json:"-"`
	Tier               Tier      `json:"tier"`
	ExtraChildrenCount int       `json:"extraChildrenCount"`
	StripeCustomerID   string    `json:"-"`
	StripePaymentID    string    `json:"-"`
	StripeSessionID    string    `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CustomerSummary is the projection safe to return alongside child data.
// No credentials, no payment correlation ids.
type CustomerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Tier      Tier   `json:"tier"`
}

func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Tier:      c.Tier,
	}
}
