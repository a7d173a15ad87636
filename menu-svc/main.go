package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noirqr/config"
	httpapi "noirqr/menu-svc/internal/api/http"
	"noirqr/menu-svc/internal/metrics"
	"noirqr/menu-svc/internal/service"
	"noirqr/menu-svc/internal/storage"
	"noirqr/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	var cfg config.Menu
	if err := config.Load(&cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	var cache service.MenuCache
	if cfg.Redis.Enabled() {
		rdb := config.MustInitRedis(cfg.Redis, log)
		defer rdb.Close()
		cache = storage.NewRedisMenuCache(rdb, cfg.MenuCacheTTL)
	}

	images, err := storage.NewDiskImageStore(cfg.UploadsDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to prepare uploads directory")
	}

	m := metrics.New()
	publisher, closePublisher := newPublisher(cfg, log)
	defer closePublisher()

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := httpapi.NewHandler(httpapi.Services{
		Auth:    service.NewAuthService(store, tokens, cfg.AdminToken),
		Venues:  service.NewVenueService(store, cache, log),
		Menu:    service.NewMenuService(store, store, cache, log),
		Orders:  service.NewOrderService(store, store, store, publisher != nil),
		QR:      service.NewQRService(store, service.DefaultQRGenerator{Size: service.DefaultQRSize}, cfg.FrontendURL),
		Uploads: service.NewUploadService(images, "/uploads/"),
	}, log)
	handler.Metrics = m
	handler.UploadsDir = cfg.UploadsDir
	handler.OrderLimiter = httpapi.NewRateLimiter(cfg.OrderRatePerMinute)
	handler.AuthLimiter = httpapi.NewRateLimiter(cfg.AuthRatePerMinute)
	clients, err := httpapi.NewClientResolver(cfg.TrustedProxies)
	if err != nil {
		log.WithError(err).Fatal("Invalid TRUSTED_PROXIES")
	}
	handler.Clients = clients

	if publisher != nil {
		relay := service.NewOutboxRelay(store, publisher, m, log)
		go relay.Run(ctx)
	} else {
		log.Warn("no KAFKA_BROKER or TELEGRAM_BOT_TOKEN configured, order notifications disabled")
	}
	if cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN is empty, operator access disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("Menu Service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg config.Menu, log *logrus.Logger) (service.Store, func()) {
	if cfg.StoreDriver == config.StorePostgres {
		db := config.MustInitPostgres(cfg.Postgres, log)
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("Failed to ensure schema")
		}
		return repo, func() { db.Close() }
	}

	fs := storage.NewFileStore(cfg.DBPath, log)
	if _, err := fs.Load(); err != nil {
		log.WithError(err).WithField("path", cfg.DBPath).Fatal("Failed to open data file")
	}
	return fs, func() {}
}

// newPublisher returns nil when neither Kafka nor Telegram is configured.
func newPublisher(cfg config.Menu, log *logrus.Logger) (service.OrderPublisher, func()) {
	if cfg.Kafka.Enabled() {
		w := config.NewKafkaWriter(cfg.Kafka)
		log.WithField("topic", cfg.Kafka.OrderTopic).Info("publishing order events to Kafka")
		return storage.NewKafkaPublisher(w), func() { w.Close() }
	}
	if cfg.Telegram.Token != "" {
		client := telegram.New(telegram.Config{BaseURL: cfg.Telegram.APIURL, Token: cfg.Telegram.Token})
		log.Info("delivering order notifications directly to Telegram")
		return storage.NewTelegramPublisher(client), func() {}
	}
	return nil, func() {}
}
