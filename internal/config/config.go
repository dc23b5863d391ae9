package config

import (
	"errors"
	"os"
)

// Config is the explicit process configuration. Loaded once in main;
// business logic never reads the environment directly.
type Config struct {
	Port string

	// DatabasePath is the sqlite file. Empty means in-memory storage
	// (useful for local development, loses data on restart).
	DatabasePath string

	StripeSecret        string
	StripeWebhookSecret string

	// SessionSecret signs family session tokens.
	SessionSecret string
	// CronSecret protects the daily milestone advancer trigger.
	CronSecret string
	// AutomationSecret protects the external tracker update endpoint.
	AutomationSecret string
	// AdminSecret protects the admin endpoints. Distinct from the family
	// session mechanism and from the other shared secrets.
	AdminSecret string

	// NewOrderWebhookURL and DailyEmailWebhookURL are the outbound
	// notification sinks. Empty disables the corresponding notification.
	NewOrderWebhookURL   string
	DailyEmailWebhookURL string

	// BaseURL is the public site origin used in checkout redirects and
	// tracker links.
	BaseURL string

	SentryDSN string

	// InsecureSkipWebhookVerify disables Stripe signature verification.
	// Only ever set by tests; there is deliberately no env var for it.
	InsecureSkipWebhookVerify bool
}

func New() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	stripeSecret := os.Getenv("STRIPE_SECRET_KEY")
	if stripeSecret == "" {
		return nil, errors.New("STRIPE_SECRET_KEY environment variable is required")
	}

	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if stripeWebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET environment variable is required")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable is required")
	}

	cronSecret := os.Getenv("CRON_SECRET")
	if cronSecret == "" {
		return nil, errors.New("CRON_SECRET environment variable is required")
	}

	automationSecret := os.Getenv("AUTOMATION_SECRET")
	if automationSecret == "" {
		return nil, errors.New("AUTOMATION_SECRET environment variable is required")
	}

	adminSecret := os.Getenv("ADMIN_SECRET")
	if adminSecret == "" {
		return nil, errors.New("ADMIN_SECRET environment variable is required")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	return &Config{
		Port:                 port,
		DatabasePath:         os.Getenv("DATABASE_PATH"),
		StripeSecret:         stripeSecret,
		StripeWebhookSecret:  stripeWebhookSecret,
		SessionSecret:        sessionSecret,
		CronSecret:           cronSecret,
		AutomationSecret:     automationSecret,
		AdminSecret:          adminSecret,
		NewOrderWebhookURL:   os.Getenv("NEW_ORDER_WEBHOOK_URL"),
		DailyEmailWebhookURL: os.Getenv("DAILY_EMAIL_WEBHOOK_URL"),
		BaseURL:              baseURL,
		SentryDSN:            os.Getenv("SENTRY_DSN"),
	}, nil
}
