package handlers

import (
	"letterstosanta.app/cloud/models"
)

// Projections returned by the content gate. Each includes only what the
// caller's tier entitles them to; fields present in storage but outside
// the entitlement never leave the server.

type TrackerProjection struct {
	ChildName              string                 `json:"childName"`
	TrackerID              string                 `json:"trackerId"`
	CurrentMilestone       models.Milestone       `json:"currentMilestone"`
	MilestoneIndex         int                    `json:"milestoneIndex"`
	StoryText              string                 `json:"storyText"`
	Journey                []models.MilestoneInfo `json:"journey"`
	SantaLetterPDFURL      string                 `json:"santaLetterPdfUrl,omitempty"`
	NiceListCertificateURL string                 `json:"niceListCertificateUrl,omitempty"`
}

func trackerProjection(child *models.Child, customer *models.Customer, letter *models.Letter) TrackerProjection {
	p := TrackerProjection{
		ChildName:        child.Name,
		TrackerID:        child.TrackerID,
		CurrentMilestone: child.CurrentMilestone,
		MilestoneIndex:   child.MilestoneIndex,
		StoryText:        child.CurrentStoryText,
		Journey:          models.MilestoneCatalog(),
	}
	if letter != nil && customer.Tier.HasSantaLetterAccess() {
		p.SantaLetterPDFURL = letter.SantaLetterPDFURL
		p.NiceListCertificateURL = letter.NiceListCertificateURL
	}
	return p
}

type SantaLetterProjection struct {
	ChildID           string `json:"childId"`
	ChildName         string `json:"childName"`
	Wishlist          string `json:"wishlist,omitempty"`
	GoodThings        string `json:"goodThings,omitempty"`
	PetsAndFamily     string `json:"petsAndFamily,omitempty"`
	SantaLetterPDFURL string `json:"santaLetterPdfUrl,omitempty"`
}

func santaLetterProjection(child *models.Child, letter *models.Letter) SantaLetterProjection {
	p := SantaLetterProjection{
		ChildID:   child.ID,
		ChildName: child.Name,
	}
	if letter != nil {
		p.Wishlist = letter.Wishlist
		p.GoodThings = letter.GoodThings
		p.PetsAndFamily = letter.PetsAndFamily
		p.SantaLetterPDFURL = letter.SantaLetterPDFURL
	}
	return p
}

type CertificateProjection struct {
	ChildID                string `json:"childId"`
	ChildName              string `json:"childName"`
	ChildAge               int    `json:"childAge"`
	NiceListCertificateURL string `json:"niceListCertificateUrl,omitempty"`
}

func certificateProjection(child *models.Child, letter *models.Letter) CertificateProjection {
	p := CertificateProjection{
		ChildID:   child.ID,
		ChildName: child.Name,
		ChildAge:  child.Age,
	}
	if letter != nil {
		p.NiceListCertificateURL = letter.NiceListCertificateURL
	}
	return p
}
