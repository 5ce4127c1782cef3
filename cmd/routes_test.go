package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"razorpayBack/internal/config"
	"razorpayBack/internal/models"
	"razorpayBack/internal/razorpay"
	"razorpayBack/internal/secrets"
	"razorpayBack/utils"
)

const testOrder = `{"id":"order_1","entity":"order","amount":50000,"currency":"INR","status":"created"}`

func newGateway(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, testOrder)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestApp(t *testing.T, mutate func(*config.Config), rdb *redis.Client) *application {
	t.Helper()
	cfg := config.Default()
	cfg.Razorpay.BaseURL = newGateway(t).URL
	if mutate != nil {
		mutate(&cfg)
	}
	bundle := secrets.Bundle{
		KeyID:         "rzp_test_1",
		KeySecret:     razorpay.NewCredential("whsec_test"),
		WebhookSecret: razorpay.NewCredential("hook-secret"),
	}
	discard := log.New(io.Discard, "", 0)
	app, err := initializeApp(cfg, bundle, rdb, discard, discard)
	if err != nil {
		t.Fatalf("initializeApp: %v", err)
	}
	return app
}

func hexMAC(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func do(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutesCreateOrder(t *testing.T) {
	h := newTestApp(t, nil, nil).routes()

	rec := do(t, h, http.MethodPost, "/create-order", `{"amount":50000,"currency":"INR"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != testOrder {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("X-Frame-Options") != "deny" {
		t.Error("secure headers missing")
	}

	rec = do(t, h, http.MethodPost, "/create-order", `{"amount":-1,"currency":"INR"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRoutesVerifyPayment(t *testing.T) {
	h := newTestApp(t, nil, nil).routes()
	sig := hexMAC("whsec_test", "order_ABC123|pay_XYZ789")

	cases := []struct {
		sig    string
		status int
		result string
	}{
		{sig, http.StatusOK, models.StatusSuccess},
		{strings.ToUpper(sig), http.StatusBadRequest, models.StatusFailure},
		{"", http.StatusBadRequest, models.StatusFailure},
	}
	for _, c := range cases {
		body := `{"razorpay_order_id":"order_ABC123","razorpay_payment_id":"pay_XYZ789","razorpay_signature":"` + c.sig + `"}`
		rec := do(t, h, http.MethodPost, "/verify-payment", body, nil)
		if rec.Code != c.status {
			t.Fatalf("expected %d, got %d", c.status, rec.Code)
		}
		var resp models.StatusResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != c.result {
			t.Errorf("expected %q, got %q", c.result, resp.Status)
		}
	}
}

func TestRoutesWebhookAndHealth(t *testing.T) {
	h := newTestApp(t, nil, nil).routes()
	body := `{"event":"payment.captured"}`

	rec := do(t, h, http.MethodPost, "/webhook", body, http.Header{"X-Razorpay-Signature": {hexMAC("hook-secret", body)}})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: expected 200, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
}

func TestRoutesMethodNotAllowed(t *testing.T) {
	h := newTestApp(t, nil, nil).routes()
	rec := do(t, h, http.MethodGet, "/verify-payment", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRoutesBearerGuard(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) { cfg.Auth.JWTSecret = "jwt-secret" }, nil)
	h := app.routes()
	body := `{"amount":50000,"currency":"INR"}`

	if rec := do(t, h, http.MethodPost, "/create-order", body, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/create-order", body, http.Header{"Authorization": {"Bearer nope"}}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}

	m, _ := utils.NewManager("jwt-secret")
	token, err := m.NewJWT("merchant-1", time.Minute)
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	if rec := do(t, h, http.MethodPost, "/create-order", body, http.Header{"Authorization": {"Bearer " + token}}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	// verification stays open
	sig := hexMAC("whsec_test", "o|p")
	if rec := do(t, h, http.MethodPost, "/verify-payment", `{"razorpay_order_id":"o","razorpay_payment_id":"p","razorpay_signature":"`+sig+`"}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("verify-payment must not require a token, got %d", rec.Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	app := newTestApp(t, func(cfg *config.Config) { cfg.Redis.RateLimit = 1 }, rdb)
	if !app.limiter.Enabled() {
		t.Fatal("limiter should be enabled")
	}

	h := app.routes()
	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/create-order", `{"amount":50000,"currency":"INR"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 while redis is down, got %d", i, rec.Code)
		}
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t, nil, nil)
	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("Connection") != "close" {
		t.Error("expected Connection: close")
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Error.Code != "SERVER_ERROR" {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	if got := clientIP(r); got != "10.0.0.7" {
		t.Fatalf("unexpected ip %q", got)
	}
	r.RemoteAddr = "no-port"
	if got := clientIP(r); got != "no-port" {
		t.Fatalf("unexpected ip %q", got)
	}
}

func TestInitializeAppRequiresCredentials(t *testing.T) {
	discard := log.New(io.Discard, "", 0)
	if _, err := initializeApp(config.Default(), secrets.Bundle{KeyID: "rzp_test_1"}, nil, discard, discard); err == nil {
		t.Fatal("expected error without key secret")
	}
}
