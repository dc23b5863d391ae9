package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"letterstosanta.app/cloud/internal/config"
	"letterstosanta.app/cloud/internal/notify"
	"letterstosanta.app/cloud/internal/ratelimit"
	"letterstosanta.app/cloud/internal/session"
	"letterstosanta.app/cloud/storage"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

type Server struct {
	Router   chi.Router
	Storage  storage.Storage
	Config   *config.Config
	Sessions *session.Manager

	// NewOrderNotifier and DailyEmailNotifier are best-effort sinks;
	// their failures are logged and never fail the primary operation.
	NewOrderNotifier   notify.Notifier
	DailyEmailNotifier notify.Notifier

	loginLimiter ratelimit.RateLimit
}

func NewHttpServer(cfg *config.Config, db storage.Storage, newOrder, dailyEmail notify.Notifier) *Server {
	s := &Server{
		Storage:            db,
		Config:             cfg,
		Sessions:           session.NewManager(cfg.SessionSecret),
		NewOrderNotifier:   newOrder,
		DailyEmailNotifier: dailyEmail,
		loginLimiter:       ratelimit.New(10, 10*time.Minute),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Automation-Secret"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/orders", s.CreateOrder)
		r.Post("/webhooks/stripe", s.Stripe)

		r.Post("/trackers/advance", s.AdvanceTrackers)
		r.Post("/trackers/update", s.UpdateTracker)
		r.Get("/track/{trackerID}", s.TrackerView)

		r.Post("/auth/login", s.Login)
		r.Post("/auth/logout", s.Logout)

		r.Get("/children/{childID}/letter", s.SantaLetterView)
		r.Get("/children/{childID}/certificate", s.CertificateView)

		r.Get("/reviews", s.ListReviews)
		r.Post("/reviews", s.CreateReview)

		r.Post("/upgrade", s.CreateUpgrade)
		r.Post("/upgrade/complete", s.CompleteUpgrade)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/orders", s.AdminListOrders)
			r.Get("/reviews", s.AdminListReviews)
			r.Patch("/reviews", s.AdminModerateReview)
			r.Delete("/reviews", s.AdminDeleteReview)
		})
	})

	s.Router = r
	return s
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "healthy",
		Version:   version,
		Timestamp: time.Now(),
	})
}
