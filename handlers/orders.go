package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/internal/passcode"
	"letterstosanta.app/cloud/models"
)

type ChildRequest struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	LetterText    string `json:"letterText"`
	Wishlist      string `json:"wishlist,omitempty"`
	GoodThings    string `json:"goodThings,omitempty"`
	PetsAndFamily string `json:"petsAndFamily,omitempty"`
}

type CreateOrderRequest struct {
	ParentFirstName string         `json:"parentFirstName"`
	ParentLastName  string         `json:"parentLastName"`
	ParentEmail     string         `json:"parentEmail"`
	Passcode        string         `json:"passcode"`
	Tier            string         `json:"tier"`
	Children        []ChildRequest `json:"children"`
}

// orderInput is the validated, normalized form of an intake request.
type orderInput struct {
	ParentFirstName string
	ParentLastName  string
	ParentEmail     string
	Passcode        string
	Tier            models.Tier
	Children        []ChildRequest
}

// stripeRefs carries the payment correlation ids for orders created on
// payment confirmation. Zero value for the free/direct path.
type stripeRefs struct {
	CustomerID string
	PaymentID  string
	SessionID  string
}

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	in, err := validateOrder(req)
	if err != nil {
		respondError(w, err)
		return
	}

	// Paid tiers defer record creation to the payment webhook; the order
	// is carried opaquely through the checkout session metadata.
	if in.Tier.RequiresPayment() {
		s.redirectToCheckout(w, r, in)
		return
	}

	customer, children, err := s.persistOrder(r.Context(), in, stripeRefs{})
	if err != nil {
		respondError(w, err)
		return
	}

	s.emitNewOrderNotification(r.Context(), customer, children)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"customerId":    customer.ID,
		"childrenCount": len(children),
		"tier":          customer.Tier,
		"totalPrice":    float64(in.Tier.PriceCents(len(children))) / 100.0,
		"message":       "Order created successfully",
	})
}

func validateOrder(req CreateOrderRequest) (orderInput, error) {
	in := orderInput{
		ParentFirstName: strings.TrimSpace(req.ParentFirstName),
		ParentLastName:  strings.TrimSpace(req.ParentLastName),
		ParentEmail:     strings.ToLower(strings.TrimSpace(req.ParentEmail)),
		Passcode:        strings.TrimSpace(req.Passcode),
	}

	if in.ParentFirstName == "" {
		return in, models.Invalid("parentFirstName", "required")
	}
	if in.ParentLastName == "" {
		return in, models.Invalid("parentLastName", "required")
	}
	if in.ParentEmail == "" {
		return in, models.Invalid("parentEmail", "required")
	}
	if !passcode.ValidFormat(in.Passcode) {
		return in, models.Invalid("passcode", "must be 4-6 letters or digits")
	}

	tier, err := models.ParseTier(req.Tier)
	if err != nil {
		return in, err
	}
	in.Tier = tier

	if len(req.Children) == 0 {
		return in, models.Invalid("children", "at least one child is required")
	}
	for _, child := range req.Children {
		name := strings.TrimSpace(child.Name)
		if name == "" {
			return in, models.Invalid("children.name", "required")
		}
		if child.Age < models.MinChildAge || child.Age > models.MaxChildAge {
			return in, models.Invalid("children.age", fmt.Sprintf("must be between %d and %d", models.MinChildAge, models.MaxChildAge))
		}
		if strings.TrimSpace(child.LetterText) == "" {
			return in, models.Invalid("children.letterText", "required")
		}
		in.Children = append(in.Children, ChildRequest{
			Name:          name,
			Age:           child.Age,
			LetterText:    strings.TrimSpace(child.LetterText),
			Wishlist:      strings.TrimSpace(child.Wishlist),
			GoodThings:    strings.TrimSpace(child.GoodThings),
			PetsAndFamily: strings.TrimSpace(child.PetsAndFamily),
		})
	}

	return in, nil
}

// persistOrder creates the customer, children, and letters exactly once.
// The duplicate-email check is the idempotency boundary: an existing
// account is a conflict, never a silent merge.
func (s *Server) persistOrder(ctx context.Context, in orderInput, refs stripeRefs) (*models.Customer, []*models.Child, error) {
	existing, err := s.Storage.FindCustomerByEmail(ctx, in.ParentEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if existing != nil {
		return nil, nil, models.ErrDuplicateEmail
	}

	passcodeHash, err := passcode.Hash(in.Passcode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash passcode: %w", err)
	}

	extraChildren := len(in.Children) - 1
	if extraChildren < 0 {
		extraChildren = 0
	}

	now := time.Now()
	customer := &models.Customer{
		ID:                 uuid.Must(uuid.NewRandom()).String(),
		FirstName:          in.ParentFirstName,
		LastName:           in.ParentLastName,
		Email:              in.ParentEmail,
		PasscodeHash:       passcodeHash,
		Tier:               in.Tier,
		ExtraChildrenCount: extraChildren,
		StripeCustomerID:   refs.CustomerID,
		StripePaymentID:    refs.PaymentID,
		StripeSessionID:    refs.SessionID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	first := models.FirstMilestone()
	var children []*models.Child
	var letters []*models.Letter
	for _, c := range in.Children {
		child := &models.Child{
			ID:               uuid.Must(uuid.NewRandom()).String(),
			CustomerID:       customer.ID,
			Name:             c.Name,
			Age:              c.Age,
			TrackerID:        models.NewTrackerID(),
			CurrentMilestone: first.ID,
			MilestoneIndex:   0,
			CurrentStoryText: first.StoryText,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		children = append(children, child)
		letters = append(letters, &models.Letter{
			ID:            uuid.Must(uuid.NewRandom()).String(),
			ChildID:       child.ID,
			LetterText:    c.LetterText,
			Wishlist:      c.Wishlist,
			GoodThings:    c.GoodThings,
			PetsAndFamily: c.PetsAndFamily,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.Storage.CreateOrder(ctx, customer, children, letters); err != nil {
		return nil, nil, fmt.Errorf("failed to persist order: %w", err)
	}

	logger.Info("Order created", map[string]interface{}{
		"customer_id":    customer.ID,
		"customer_email": customer.Email,
		"tier":           customer.Tier,
		"children":       len(children),
	})

	return customer, children, nil
}

// NewOrderNotification is the payload handed to the automation sink when
// an order lands.
type NewOrderNotification struct {
	OrderID            string                 `json:"orderId"`
	Customer           models.CustomerSummary `json:"customer"`
	Tier               models.Tier            `json:"tier"`
	ExtraChildrenCount int                    `json:"extraChildrenCount"`
	TotalPrice         float64                `json:"totalPrice"`
	Children           []NewOrderChild        `json:"children"`
	CreatedAt          time.Time              `json:"createdAt"`
}

type NewOrderChild struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	TrackerID  string `json:"trackerId"`
	TrackerURL string `json:"trackerUrl"`
}

func (s *Server) emitNewOrderNotification(ctx context.Context, customer *models.Customer, children []*models.Child) {
	payload := NewOrderNotification{
		OrderID:            customer.ID,
		Customer:           customer.Summary(),
		Tier:               customer.Tier,
		ExtraChildrenCount: customer.ExtraChildrenCount,
		TotalPrice:         float64(customer.Tier.PriceCents(len(children))) / 100.0,
		CreatedAt:          customer.CreatedAt,
	}
	for _, child := range children {
		payload.Children = append(payload.Children, NewOrderChild{
			ID:         child.ID,
			Name:       child.Name,
			Age:        child.Age,
			TrackerID:  child.TrackerID,
			TrackerURL: s.Config.BaseURL + "/track/" + child.TrackerID,
		})
	}

	outcome := s.NewOrderNotifier.Attempt(ctx, payload)
	if !outcome.Delivered {
		logger.Error("Failed to send new order notification", map[string]interface{}{
			"error":       outcome.Err.Error(),
			"customer_id": customer.ID,
		})
		return
	}
	logger.Info("New order notification sent", map[string]interface{}{
		"customer_id": customer.ID,
	})
}

// redirectToCheckout creates a Stripe Checkout session for a paid-tier
// order. The validated order travels through session metadata and is
// re-hydrated on the confirmed-payment callback.
func (s *Server) redirectToCheckout(w http.ResponseWriter, r *http.Request, in orderInput) {
	// Duplicate accounts are rejected before the customer ever pays.
	existing, err := s.Storage.FindCustomerByEmail(r.Context(), in.ParentEmail)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing != nil {
		respondError(w, models.ErrDuplicateEmail)
		return
	}

	orderData, err := json.Marshal(CreateOrderRequest{
		ParentFirstName: in.ParentFirstName,
		ParentLastName:  in.ParentLastName,
		ParentEmail:     in.ParentEmail,
		Passcode:        in.Passcode,
		Tier:            string(in.Tier),
		Children:        in.Children,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	stripe.Key = s.Config.StripeSecret

	lineItems := []*stripe.CheckoutSessionLineItemParams{
		{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Santa's Magic"),
					Description: stripe.String("Visual Flight Tracker + Personalized Santa Reply + Nice List Certificate"),
				},
				UnitAmount: stripe.Int64(in.Tier.PriceCents(1)),
			},
			Quantity: stripe.Int64(1),
		},
	}
	if extra := len(in.Children) - 1; extra > 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("Additional Child"),
					Description: stripe.String("Add another child to your magical experience"),
				},
				UnitAmount: stripe.Int64(in.Tier.ExtraChildCents()),
			},
			Quantity: stripe.Int64(int64(extra)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(s.Config.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(s.Config.BaseURL + "/write-letter?tier=" + string(in.Tier)),
		CustomerEmail:      stripe.String(in.ParentEmail),
		Metadata: map[string]string{
			"tier":          string(in.Tier),
			"childrenCount": strconv.Itoa(len(in.Children)),
			"orderData":     string(orderData),
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		logger.Error("Stripe checkout session creation failed", map[string]interface{}{
			"error": err.Error(),
			"email": in.ParentEmail,
		})
		writeErrorResponse(w, http.StatusBadGateway, "Payment service unavailable. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}
