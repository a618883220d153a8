package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/config"
	"ingresso-platform/internal/database"
	"ingresso-platform/internal/handlers"
	"ingresso-platform/internal/middleware"
	"ingresso-platform/internal/repositories"
	"ingresso-platform/internal/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketTypeRepo := repositories.NewTicketTypeRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)

	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	eventService := services.NewEventService(eventRepo, ticketTypeRepo, logger)
	checkoutService := services.NewCheckoutService(
		repositories.NewCheckoutRepository(db.DB, ticketTypeRepo, orderRepo),
		userRepo,
		logger,
	)
	orderService := services.NewOrderService(orderRepo, ticketTypeRepo, logger)
	pixService := services.NewPixService(orderRepo, services.PixConfig{
		MerchantName: cfg.Pix.MerchantName,
		MerchantCity: cfg.Pix.MerchantCity,
		Key:          cfg.Pix.Key,
	}, logger)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:     handlers.NewAuthHandler(authService, logger),
		Events:   handlers.NewEventHandler(eventService, logger),
		Cart:     handlers.NewCartHandler(sessionStore, logger),
		Orders:   handlers.NewOrderHandler(checkoutService, orderService, logger),
		Payments: handlers.NewPaymentHandler(pixService, logger),
		Sales:    handlers.NewSalesHandler(orderService, logger),
		AuthMW:   middleware.NewAuthMiddleware(authService),
		Logger:   logger,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("addr", addr).Info("Server listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}
