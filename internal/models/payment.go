package models

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusError   = "error"
	StatusOK      = "ok"
)

// CreateOrderRequest: amount is in the smallest currency unit (paise for INR).
type CreateOrderRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerificationResult struct {
	Verified bool `json:"-"`
}

func (r VerificationResult) Status() string {
	if r.Verified {
		return StatusSuccess
	}
	return StatusFailure
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Field       string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}

// WebhookEvent is the part of a gateway webhook this service looks at.
type WebhookEvent struct {
	Event     string   `json:"event"`
	AccountID string   `json:"account_id"`
	Contains  []string `json:"contains"`
	CreatedAt int64    `json:"created_at"`
}
