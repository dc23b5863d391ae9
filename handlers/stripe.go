package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/models"
)

// Stripe is the payment confirmation callback. Signature verification is
// the sole authentication for this channel: any failure rejects the whole
// request with no partial processing.
func (s *Server) Stripe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	var event stripe.Event
	if s.Config.InsecureSkipWebhookVerify {
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Error("Failed to parse webhook JSON", map[string]interface{}{
				"error": err.Error(),
			})
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	} else {
		signatureHeader := r.Header.Get("Stripe-Signature")
		event, err = webhook.ConstructEvent(payload, signatureHeader, s.Config.StripeWebhookSecret)
		if err != nil {
			logger.Error("Webhook signature verification failed", map[string]interface{}{
				"error": err.Error(),
			})
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	logger.Info("Stripe event received", map[string]interface{}{
		"event_type": event.Type,
		"event_id":   event.ID,
	})

	switch event.Type {
	case "checkout.session.completed":
		var checkoutSession stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
			logger.Error("Failed to unmarshal checkout session", map[string]interface{}{
				"error":    err.Error(),
				"event_id": event.ID,
			})
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := s.handleCheckoutComplete(ctx, &checkoutSession); err != nil {
			logger.Error("Failed to handle checkout completion", map[string]interface{}{
				"error":      err.Error(),
				"session_id": checkoutSession.ID,
			})
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		logger.Info("Unhandled webhook event type", map[string]interface{}{
			"event_type": event.Type,
			"event_id":   event.ID,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

func (s *Server) handleCheckoutComplete(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.Metadata["upgradeType"] == "tier_upgrade" {
		return s.applyTierUpgrade(ctx, session)
	}
	return s.createPaidOrder(ctx, session)
}

// createPaidOrder performs the deferred intake once payment clears. The
// event is delivered at least once; re-delivery for an email that already
// has an account refreshes the payment correlation ids instead of
// creating duplicate rows.
func (s *Server) createPaidOrder(ctx context.Context, session *stripe.CheckoutSession) error {
	var req CreateOrderRequest
	if err := json.Unmarshal([]byte(session.Metadata["orderData"]), &req); err != nil {
		return fmt.Errorf("failed to parse order metadata: %w", err)
	}
	if tier := session.Metadata["tier"]; tier != "" {
		req.Tier = tier
	}

	in, err := validateOrder(req)
	if err != nil {
		return fmt.Errorf("order metadata failed validation: %w", err)
	}

	refs := stripeRefs{SessionID: session.ID}
	if session.Customer != nil {
		refs.CustomerID = session.Customer.ID
	}
	if session.PaymentIntent != nil {
		refs.PaymentID = session.PaymentIntent.ID
	}

	existing, err := s.Storage.FindCustomerByEmail(ctx, in.ParentEmail)
	if err != nil {
		return fmt.Errorf("customer lookup failed: %w", err)
	}
	if existing != nil {
		logger.Warn("Duplicate payment event for existing customer", map[string]interface{}{
			"customer_id": existing.ID,
			"session_id":  session.ID,
		})
		existing.StripeCustomerID = refs.CustomerID
		existing.StripePaymentID = refs.PaymentID
		existing.StripeSessionID = refs.SessionID
		if models.UpgradeAllowed(existing.Tier, in.Tier) {
			existing.Tier = in.Tier
		}
		existing.UpdatedAt = time.Now()
		return s.Storage.SaveCustomer(ctx, existing)
	}

	customer, children, err := s.persistOrder(ctx, in, refs)
	if err != nil {
		return err
	}

	logger.Info("Paid order created from webhook", map[string]interface{}{
		"customer_id": customer.ID,
		"session_id":  session.ID,
	})

	s.emitNewOrderNotification(ctx, customer, children)
	return nil
}

func (s *Server) applyTierUpgrade(ctx context.Context, session *stripe.CheckoutSession) error {
	customerID := session.Metadata["customerId"]
	target, err := models.ParseTier(session.Metadata["targetTier"])
	if err != nil {
		return fmt.Errorf("upgrade metadata: %w", err)
	}

	customer, err := s.Storage.GetCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("customer lookup failed: %w", err)
	}
	if customer == nil {
		return fmt.Errorf("upgrade for unknown customer %s: %w", customerID, models.ErrNotFound)
	}

	// Re-delivered upgrade events land here as a no-op.
	if !models.UpgradeAllowed(customer.Tier, target) {
		logger.Info("Upgrade event ignored, customer already at or above target", map[string]interface{}{
			"customer_id": customer.ID,
			"tier":        customer.Tier,
		})
		return nil
	}

	customer.Tier = target
	if session.PaymentIntent != nil {
		customer.StripePaymentID = session.PaymentIntent.ID
	}
	customer.UpdatedAt = time.Now()
	if err := s.Storage.SaveCustomer(ctx, customer); err != nil {
		return fmt.Errorf("failed to save upgraded customer: %w", err)
	}

	logger.Info("Customer upgraded", map[string]interface{}{
		"customer_id": customer.ID,
		"new_tier":    target,
	})
	return nil
}
