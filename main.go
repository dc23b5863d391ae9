package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"letterstosanta.app/cloud/handlers"
	"letterstosanta.app/cloud/internal/config"
	"letterstosanta.app/cloud/internal/logger"
	"letterstosanta.app/cloud/internal/notify"
	"letterstosanta.app/cloud/storage"
)

var version = "dev"

func main() {
	if versionBytes, err := os.ReadFile("VERSION"); err == nil {
		version = strings.TrimSpace(string(versionBytes))
	}
	handlers.SetVersion(version)

	godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
	}

	var db storage.Storage
	if cfg.DatabasePath != "" {
		db, err = storage.NewSQLiteStorage(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
	} else {
		logger.Warn("No DATABASE_PATH configured, using in-memory storage")
		db = storage.NewMemoryStorage()
	}
	defer db.Close()

	server := handlers.NewHttpServer(cfg, db,
		notify.NewWebhookNotifier(cfg.NewOrderWebhookURL),
		notify.NewWebhookNotifier(cfg.DailyEmailWebhookURL),
	)

	logger.Info("Letters to Santa API starting", map[string]interface{}{
		"version": version,
		"port":    cfg.Port,
	})
	log.Fatal(http.ListenAndServe(":"+cfg.Port, server.Router))
}
