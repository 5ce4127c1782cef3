package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks signatures produced by the gateway with a shared secret.
type Verifier struct {
	secret *Credential
}

// NewVerifier returns a Verifier keyed by secret.
func NewVerifier(secret *Credential) *Verifier {
	return &Verifier{secret: secret}
}

// CanonicalMessage is the exact string the gateway signs for a checkout payment.
func CanonicalMessage(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

// Signature returns the lowercase hex HMAC-SHA256 of the canonical message,
// or "" when no secret is configured.
func (v *Verifier) Signature(orderID, paymentID string) string {
	if v == nil || v.secret.Empty() {
		return ""
	}
	return v.sign([]byte(CanonicalMessage(orderID, paymentID)))
}

// Verify reports whether signature was produced for orderID and paymentID.
// Missing input is a failed verification.
func (v *Verifier) Verify(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := v.Signature(orderID, paymentID)
	if expected == "" {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyBody checks a webhook signature computed over the raw request body.
func (v *Verifier) VerifyBody(body []byte, signature string) bool {
	if v == nil || v.secret.Empty() || len(body) == 0 || signature == "" {
		return false
	}
	return hmac.Equal([]byte(v.sign(body)), []byte(signature))
}

func (v *Verifier) sign(msg []byte) string {
	mac := hmac.New(sha256.New, v.secret.key())
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}
