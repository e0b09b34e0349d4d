package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/palomitas/crypto-reply-bot/internal/bot"
	"github.com/palomitas/crypto-reply-bot/internal/composer"
	"github.com/palomitas/crypto-reply-bot/internal/config"
	"github.com/palomitas/crypto-reply-bot/internal/history"
	"github.com/palomitas/crypto-reply-bot/internal/notifications"
	"github.com/palomitas/crypto-reply-bot/internal/ratelimit"
	"github.com/palomitas/crypto-reply-bot/internal/storage"
	"github.com/palomitas/crypto-reply-bot/internal/twitter"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Missing credentials are the one fatal startup condition
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Crypto Reply Bot")

	// Pick the history backend: Azure Blob when configured, local file otherwise
	var backend storage.Interface
	if cfg.StorageAccount != "" {
		backend, err = storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize Azure storage: %v", err)
		}
		logrus.Infof("Using Azure Blob Storage for reply history (account %s)", cfg.StorageAccount)
	} else {
		backend, err = storage.NewFileStorage(".")
		if err != nil {
			logrus.Fatalf("Failed to initialize file storage: %v", err)
		}
	}

	historyStore := history.NewStore(backend, cfg.HistoryFile)
	governor := ratelimit.New()
	replyComposer := composer.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	client := twitter.NewAPIClient(cfg.TwitterBearerToken, governor)

	var notifier notifications.Notifier
	if svc := notifications.NewService(cfg); svc.Enabled() {
		notifier = svc
	}

	botService := bot.NewService(cfg, client, historyStore, replyComposer, governor, notifier)

	if cfg.RunMode == "serve" {
		serve(cfg, botService)
		return
	}

	// Default: run one batch and exit. Exit status reports "batch
	// completed" regardless of how many replies inside it succeeded.
	summary := botService.RunBatch(context.Background())
	logrus.Infof("Run complete: %d replies posted", summary.RepliesPosted)
}

// serve exposes health, metrics and a manual trigger endpoint. Recurring
// invocation stays external: something has to POST /trigger per run.
func serve(cfg *config.Config, botService *bot.Service) {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(botService)).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(botService)).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(botService *bot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(botService.MetricsJSON()))
	}
}

func triggerHandler(botService *bot.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !botService.TriggerBatch(context.Background()) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"a batch run is already in progress"}`))
			return
		}

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"Batch run triggered"}`))
	}
}
