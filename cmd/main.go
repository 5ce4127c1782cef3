package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"razorpayBack/internal/config"
	"razorpayBack/internal/secrets"
	"razorpayBack/internal/telemetry"
)

const (
	secretsLoadTimeout = 10 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	addr := flag.String("addr", cfg.Server.Address, "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, "")
	if err != nil {
		errorLog.Fatal(err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			errorLog.Printf("telemetry shutdown: %v", err)
		}
	}()

	bundle, err := loadSecrets(ctx, cfg.Secrets)
	if err != nil {
		errorLog.Fatal(err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	app, err := initializeApp(cfg, bundle, rdb, errorLog, infoLog)
	if err != nil {
		errorLog.Fatal(err)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      addSecurityHeaders(c.Handler(app.routes())),
		IdleTimeout:  time.Minute,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		infoLog.Printf("Starting server on %s", *addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			errorLog.Print(err)
		}
		return
	case <-ctx.Done():
	}

	infoLog.Print("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errorLog.Printf("server shutdown: %v", err)
	}
}

func loadSecrets(ctx context.Context, cfg config.SecretsConfig) (secrets.Bundle, error) {
	src, err := secrets.NewSource(cfg)
	if err != nil {
		return secrets.Bundle{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, secretsLoadTimeout)
	defer cancel()

	return src.Load(ctx)
}
