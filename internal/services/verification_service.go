package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"razorpayBack/internal/models"
	"razorpayBack/internal/razorpay"
)

type VerificationConfig struct {
	Verifier *razorpay.Verifier
	// Optional; webhooks are rejected without it.
	WebhookVerifier *razorpay.Verifier
	Logger          *slog.Logger
}

type VerificationService struct {
	verifier        *razorpay.Verifier
	webhookVerifier *razorpay.Verifier
	logger          *slog.Logger
	counter         metric.Int64Counter
}

func NewVerificationService(cfg VerificationConfig) *VerificationService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	counter, err := otel.Meter("razorpayBack/services").Int64Counter(
		"payments.verifications",
		metric.WithDescription("Payment signature verifications by kind and result"),
	)
	if err != nil {
		logger.Warn("verification counter unavailable", "err", err)
		counter = noop.Int64Counter{}
	}
	return &VerificationService{
		verifier:        cfg.Verifier,
		webhookVerifier: cfg.WebhookVerifier,
		logger:          logger,
		counter:         counter,
	}
}

// VerifyPayment checks a checkout callback. Missing fields are a failure.
func (s *VerificationService) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) models.VerificationResult {
	logger := s.logger.With("op", "VerifyPayment", "order_id", req.OrderID, "payment_id", req.PaymentID)

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		s.record(ctx, "payment", models.StatusFailure)
		logger.WarnContext(ctx, "payment verification failed", "reason", "missing fields")
		return models.VerificationResult{Verified: false}
	}

	ok := s.verifier.Verify(req.OrderID, req.PaymentID, req.Signature)
	result := models.VerificationResult{Verified: ok}
	s.record(ctx, "payment", result.Status())
	if ok {
		logger.InfoContext(ctx, "payment verified")
	} else {
		logger.WarnContext(ctx, "payment verification failed", "reason", "signature mismatch")
	}
	return result
}

// VerifyWebhook checks the signature of a raw webhook body and decodes it.
func (s *VerificationService) VerifyWebhook(ctx context.Context, body []byte, signature string) (models.WebhookEvent, bool) {
	logger := s.logger.With("op", "VerifyWebhook")

	if !s.webhookVerifier.VerifyBody(body, signature) {
		s.record(ctx, "webhook", models.StatusFailure)
		logger.WarnContext(ctx, "webhook verification failed", "bytes", len(body))
		return models.WebhookEvent{}, false
	}

	var ev models.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.record(ctx, "webhook", models.StatusFailure)
		logger.WarnContext(ctx, "webhook body is not valid JSON", "err", err)
		return models.WebhookEvent{}, false
	}
	s.record(ctx, "webhook", models.StatusSuccess)
	logger.InfoContext(ctx, "webhook verified", "event", ev.Event, "account_id", ev.AccountID)
	return ev, true
}

func (s *VerificationService) record(ctx context.Context, kind, result string) {
	s.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}
