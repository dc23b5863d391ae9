package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/models"
)

type UpgradeRequest struct {
	CustomerID string `json:"customerId"`
	TargetTier string `json:"targetTier"`
}

// CreateUpgrade starts a checkout for raising an existing customer's
// tier. Only strictly upward moves are accepted.
func (s *Server) CreateUpgrade(w http.ResponseWriter, r *http.Request) {
	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	target, err := models.ParseTier(req.TargetTier)
	if err != nil {
		respondError(w, err)
		return
	}

	customer, err := s.Storage.GetCustomer(r.Context(), req.CustomerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if customer == nil {
		respondError(w, models.ErrNotFound)
		return
	}
	if !models.UpgradeAllowed(customer.Tier, target) {
		respondError(w, models.ErrTierDowngrade)
		return
	}

	stripe.Key = s.Config.StripeSecret

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Upgrade to Santa's Magic"),
						Description: stripe.String("Visual Flight Tracker + Personalized Santa Reply + Nice List Certificate"),
					},
					UnitAmount: stripe.Int64(target.PriceCents(1)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(s.Config.BaseURL + "/upgrade/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.Config.BaseURL + "/dashboard"),
		CustomerEmail: stripe.String(customer.Email),
		Metadata: map[string]string{
			"upgradeType": "tier_upgrade",
			"customerId":  customer.ID,
			"currentTier": string(customer.Tier),
			"targetTier":  string(target),
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		logger.Error("Stripe upgrade session creation failed", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customer.ID,
		})
		writeErrorResponse(w, http.StatusBadGateway, "Payment service unavailable. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}

type CompleteUpgradeRequest struct {
	SessionID string `json:"sessionId"`
}

// CompleteUpgrade applies the tier raise after the success redirect, for
// deployments where the webhook lags the redirect. Idempotent: the
// webhook may already have applied the same upgrade.
func (s *Server) CompleteUpgrade(w http.ResponseWriter, r *http.Request) {
	var req CompleteUpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.SessionID == "" {
		respondError(w, models.Invalid("sessionId", "required"))
		return
	}

	stripe.Key = s.Config.StripeSecret

	sess, err := checkoutsession.Get(req.SessionID, nil)
	if err != nil {
		logger.Error("Stripe session retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		writeErrorResponse(w, http.StatusBadGateway, "Payment service unavailable. Please try again.")
		return
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		writeErrorResponse(w, http.StatusBadRequest, "Payment not completed")
		return
	}

	customerID := sess.Metadata["customerId"]
	target, err := models.ParseTier(sess.Metadata["targetTier"])
	if err != nil {
		respondError(w, err)
		return
	}

	ctx := r.Context()
	customer, err := s.Storage.GetCustomer(ctx, customerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if customer == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	if models.UpgradeAllowed(customer.Tier, target) {
		customer.Tier = target
		if sess.PaymentIntent != nil {
			customer.StripePaymentID = sess.PaymentIntent.ID
		}
		customer.UpdatedAt = time.Now()
		if err := s.Storage.SaveCustomer(ctx, customer); err != nil {
			respondError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"customerId": customer.ID,
		"newTier":    customer.Tier,
	})
}
