package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noirqr/config"
	"noirqr/notify-svc/internal/service"
	"noirqr/telegram"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "notify-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func main() {
	var cfg config.Notify
	if err := config.Load(&cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := config.NewLogger(cfg.LogLevel)

	if !cfg.Kafka.Enabled() {
		log.Fatal("KAFKA_BROKER is required")
	}
	if cfg.Telegram.Token == "" {
		log.Warn("TELEGRAM_BOT_TOKEN is empty, every notification will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := config.NewKafkaReader(cfg.Kafka, cfg.GroupID)
	defer reader.Close()

	client := telegram.New(telegram.Config{BaseURL: cfg.Telegram.APIURL, Token: cfg.Telegram.Token})
	consumer := service.NewConsumer(reader, client, log)

	r := mux.NewRouter()
	r.HandleFunc("/health", healthCheck).Methods("GET")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health server failed")
		}
	}()

	log.WithFields(logrus.Fields{"topic": cfg.Kafka.OrderTopic, "group": cfg.GroupID}).Info("Notify Service starting")
	consumer.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
