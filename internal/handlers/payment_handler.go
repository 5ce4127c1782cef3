package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"razorpayBack/internal/models"
	"razorpayBack/internal/razorpay"
	"razorpayBack/internal/services"
)

const maxBodyBytes = 1 << 20

type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (json.RawMessage, error)
}

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) models.VerificationResult
	VerifyWebhook(ctx context.Context, body []byte, signature string) (models.WebhookEvent, bool)
}

type PaymentHandler struct {
	Orders        OrderCreator
	Verifications PaymentVerifier
}

func NewPaymentHandler(orders OrderCreator, verifications PaymentVerifier) *PaymentHandler {
	return &PaymentHandler{Orders: orders, Verifications: verifications}
}

// POST /create-order
// { "amount": 50000, "currency": "INR" }
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h.Orders == nil {
		writeError(w, http.StatusInternalServerError, models.ErrorBody{Code: "SERVER_ERROR", Description: "payments not initialized"})
		return
	}

	var req models.CreateOrderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, models.ErrorBody{Code: "BAD_REQUEST_ERROR", Description: "invalid JSON body"})
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), req)
	if err != nil {
		status, body := orderErrorResponse(err)
		writeError(w, status, body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(order)
}

func orderErrorResponse(err error) (int, models.ErrorBody) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, models.ErrorBody{Code: "BAD_REQUEST_ERROR", Description: verr.Field + " " + verr.Message, Field: verr.Field}
	}
	var apiErr *razorpay.GatewayError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return http.StatusInternalServerError, models.ErrorBody{Code: apiErr.Code, Description: apiErr.Description}
	}
	if errors.Is(err, services.ErrGateway) {
		return http.StatusInternalServerError, models.ErrorBody{Code: "GATEWAY_ERROR", Description: "payment gateway unavailable"}
	}
	return http.StatusInternalServerError, models.ErrorBody{Code: "SERVER_ERROR", Description: "internal server error"}
}

// POST /verify-payment
// { "razorpay_order_id": "...", "razorpay_payment_id": "...", "razorpay_signature": "..." }
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if h.Verifications == nil {
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFailure})
		return
	}

	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slog.WarnContext(r.Context(), "verify payment: malformed body", "err", err)
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFailure})
		return
	}

	res := h.Verifications.VerifyPayment(r.Context(), req)
	status := http.StatusOK
	if !res.Verified {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, models.StatusResponse{Status: res.Status()})
}

// POST /webhook, signed with the webhook secret in X-Razorpay-Signature.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.Verifications == nil {
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFailure})
		return
	}
	signature := r.Header.Get("X-Razorpay-Signature")
	if signature == "" {
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFailure})
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFailure})
		return
	}

	if _, ok := h.Verifications.VerifyWebhook(r.Context(), body, signature); !ok {
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFailure})
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusOK})
}

func (h *PaymentHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusOK})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body models.ErrorBody) {
	writeJSON(w, status, models.ErrorResponse{Status: models.StatusError, Error: body})
}
