package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func expectedHex(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCanonicalMessage(t *testing.T) {
	if got := CanonicalMessage("order_ABC123", "pay_XYZ789"); got != "order_ABC123|pay_XYZ789" {
		t.Fatalf("unexpected canonical message %q", got)
	}
}

func TestVerifyKnownVector(t *testing.T) {
	v := NewVerifier(NewCredential("whsec_test"))
	want := expectedHex("whsec_test", "order_ABC123|pay_XYZ789")

	if got := v.Signature("order_ABC123", "pay_XYZ789"); got != want {
		t.Fatalf("signature mismatch: got %s want %s", got, want)
	}
	if !v.Verify("order_ABC123", "pay_XYZ789", want) {
		t.Fatal("expected signature to be valid")
	}

	other := strings.Repeat("0", len(want))
	if v.Verify("order_ABC123", "pay_XYZ789", other) {
		t.Fatal("unexpected valid signature")
	}
}

func TestSignatureDeterministic(t *testing.T) {
	cases := []struct{ secret, order, payment string }{
		{"whsec_test", "order_ABC123", "pay_XYZ789"},
		{"s", "o", "p"},
		{"secret with spaces", "order|pipe", "pay"},
	}
	for _, c := range cases {
		v := NewVerifier(NewCredential(c.secret))
		first := v.Signature(c.order, c.payment)
		second := v.Signature(c.order, c.payment)
		if first != second {
			t.Fatalf("non-deterministic signature for %+v", c)
		}
		if first != strings.ToLower(first) || len(first) != sha256.Size*2 {
			t.Fatalf("expected lowercase hex digest, got %q", first)
		}
		if !v.Verify(c.order, c.payment, first) {
			t.Fatalf("own signature rejected for %+v", c)
		}
	}
}

func TestVerifyRejectsSingleBitMutation(t *testing.T) {
	v := NewVerifier(NewCredential("whsec_test"))
	sig := v.Signature("order_ABC123", "pay_XYZ789")

	for i := 0; i < len(sig); i++ {
		for bit := 0; bit < 8; bit++ {
			b := []byte(sig)
			b[i] ^= 1 << bit
			if v.Verify("order_ABC123", "pay_XYZ789", string(b)) {
				t.Fatalf("mutation at byte %d bit %d accepted", i, bit)
			}
		}
	}
}

func TestVerifyIsCaseSensitive(t *testing.T) {
	v := NewVerifier(NewCredential("whsec_test"))
	sig := v.Signature("order_ABC123", "pay_XYZ789")
	upper := strings.ToUpper(sig)
	if upper == sig {
		t.Skip("digest has no hex letters")
	}
	if v.Verify("order_ABC123", "pay_XYZ789", upper) {
		t.Fatal("uppercase digest must not verify")
	}
}

func TestVerifyRejectsTruncatedAndExtended(t *testing.T) {
	v := NewVerifier(NewCredential("whsec_test"))
	sig := v.Signature("order_ABC123", "pay_XYZ789")
	if v.Verify("order_ABC123", "pay_XYZ789", sig[:len(sig)-1]) {
		t.Fatal("truncated signature accepted")
	}
	if v.Verify("order_ABC123", "pay_XYZ789", sig+"0") {
		t.Fatal("extended signature accepted")
	}
}

func TestVerifyOrderMatters(t *testing.T) {
	v := NewVerifier(NewCredential("whsec_test"))
	a := v.Signature("order_ABC123", "pay_XYZ789")
	b := v.Signature("pay_XYZ789", "order_ABC123")
	if a == b {
		t.Fatal("swapping ids must change the signature")
	}
	if v.Verify("pay_XYZ789", "order_ABC123", a) {
		t.Fatal("signature for swapped ids accepted")
	}
}

func TestVerifyMissingInput(t *testing.T) {
	v := NewVerifier(NewCredential("whsec_test"))
	sig := v.Signature("order_ABC123", "pay_XYZ789")

	t.Run("empty fields", func(t *testing.T) {
		if v.Verify("", "pay_XYZ789", sig) {
			t.Error("empty order id accepted")
		}
		if v.Verify("order_ABC123", "", sig) {
			t.Error("empty payment id accepted")
		}
		if v.Verify("order_ABC123", "pay_XYZ789", "") {
			t.Error("empty signature accepted")
		}
	})

	t.Run("no secret", func(t *testing.T) {
		var nilVerifier *Verifier
		if nilVerifier.Verify("order_ABC123", "pay_XYZ789", sig) {
			t.Error("nil verifier accepted signature")
		}
		if NewVerifier(nil).Verify("order_ABC123", "pay_XYZ789", sig) {
			t.Error("nil credential accepted signature")
		}
		empty := NewVerifier(NewCredential(""))
		if empty.Verify("order_ABC123", "pay_XYZ789", expectedHex("", "order_ABC123|pay_XYZ789")) {
			t.Error("empty secret accepted signature")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if v.Verify("order_ABC123", "pay_XYZ789", "not-hex-at-all") {
			t.Error("garbage accepted")
		}
	})
}

func TestVerifyBody(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	v := NewVerifier(NewCredential("webhook_secret"))
	sig := expectedHex("webhook_secret", string(body))

	if !v.VerifyBody(body, sig) {
		t.Fatal("expected webhook signature to be valid")
	}
	if v.VerifyBody(body, "deadbeef") {
		t.Fatal("unexpected valid webhook signature")
	}
	if v.VerifyBody(nil, sig) {
		t.Fatal("empty body accepted")
	}
	if NewVerifier(nil).VerifyBody(body, sig) {
		t.Fatal("nil credential accepted webhook")
	}
}
