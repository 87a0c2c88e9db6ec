package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/spiceroute/storefront/internal/catalog"
	"github.com/spiceroute/storefront/internal/config"
	"github.com/spiceroute/storefront/internal/es"
	"github.com/spiceroute/storefront/internal/events"
	"github.com/spiceroute/storefront/internal/handlers"
	"github.com/spiceroute/storefront/internal/logging"
	"github.com/spiceroute/storefront/internal/middleware/csrf"
	"github.com/spiceroute/storefront/internal/pricing"
	"github.com/spiceroute/storefront/internal/service/token"
	"github.com/spiceroute/storefront/internal/telemetry"
	httpserver "github.com/spiceroute/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	menu := catalog.Default()

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := es.IndexMenu(ctx, esClient, "menu", menu); err != nil {
			logger.Warn("menu indexing failed", "error", err)
		}
		cancel()
	}

	calc := pricing.Calculator{
		DeliveryFeeCents:   configuration.DeliveryFeeCents,
		TaxRateBasisPoints: configuration.TaxRateBasisPoints,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(httpserver.RequestLogger(logger))
	e.Use(telemetry.Middleware())
	if configuration.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:    true,
			SkipPaths: []string{"/health/live", "/health/ready", "/metrics"},
		}))
	}

	deps := httpserver.Deps{
		DB:          db,
		AuthHandler: &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: producer},
		MenuHandler: &handlers.MenuHandler{Catalog: menu, ES: esClient, Index: "menu"},
		CartHandler: &handlers.CartHandler{DB: db, Catalog: menu, Producer: producer},
		OrderHandler: &handlers.OrderHandler{
			DB: db, Catalog: menu, Producer: producer, Pricing: calc,
		},
		ReservationHandler: &handlers.ReservationHandler{DB: db, Producer: producer},
		ContactHandler:     &handlers.ContactHandler{DB: db},
		TokenService:       &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.Addr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
