package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"razorpayBack/internal/config"
	"razorpayBack/internal/handlers"
	"razorpayBack/internal/ratelimit"
	"razorpayBack/internal/razorpay"
	"razorpayBack/internal/secrets"
	services "razorpayBack/internal/services"
	"razorpayBack/utils"
)

type application struct {
	errorLog       *log.Logger
	infoLog        *log.Logger
	paymentHandler *handlers.PaymentHandler
	limiter        *ratelimit.Limiter
	tokens         *utils.Manager
}

func initializeApp(cfg config.Config, bundle secrets.Bundle, rdb *redis.Client, errorLog, infoLog *log.Logger) (*application, error) {
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	logger := slog.Default()

	// Gateway
	client, err := razorpay.NewClient(razorpay.ClientConfig{
		KeyID:   bundle.KeyID,
		Secret:  bundle.KeySecret,
		BaseURL: cfg.Razorpay.BaseURL,
		Timeout: time.Duration(cfg.Razorpay.TimeoutSeconds) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	// Services
	orderService, err := services.NewOrderService(services.OrderServiceConfig{
		Gateway:       client,
		Currencies:    cfg.Razorpay.Currencies,
		MaxAmount:     cfg.Razorpay.MaxAmount,
		ReceiptPrefix: cfg.Razorpay.ReceiptPrefix,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	verificationService := services.NewVerificationService(services.VerificationConfig{
		Verifier:        razorpay.NewVerifier(bundle.KeySecret),
		WebhookVerifier: razorpay.NewVerifier(bundle.WebhookSecret),
		Logger:          logger,
	})
	if bundle.WebhookSecret.Empty() {
		infoLog.Print("RAZORPAY_WEBHOOK_SECRET not set, webhooks will be rejected")
	}

	app := &application{
		errorLog:       errorLog,
		infoLog:        infoLog,
		paymentHandler: handlers.NewPaymentHandler(orderService, verificationService),
	}

	// Optional
	if rdb != nil {
		app.limiter = ratelimit.New(rdb, "create-order", cfg.Redis.RateLimit, time.Duration(cfg.Redis.RateWindowSeconds)*time.Second)
	}
	if cfg.Auth.JWTSecret != "" {
		tokens, err := utils.NewManager(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		app.tokens = tokens
	}

	return app, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
