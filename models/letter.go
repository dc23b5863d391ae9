package models

import "time"

type Letter struct {
	ID                     string    `json:"id"`
	ChildID                string    `json:"childId"`
	LetterText             string    `json:"letterText"`
	Wishlist               string    `json:"wishlist,omitempty"`
	GoodThings             string    `json:"goodThings,omitempty"`
	PetsAndFamily          string    `json:"petsAndFamily,omitempty"`
	PhotoURL               string    `json:"photoUrl,omitempty"`
	SantaLetterPDFURL      string    `json:"santaLetterPdfUrl,omitempty"`
	NiceListCertificateURL string    `json:"niceListCertificateUrl,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}
