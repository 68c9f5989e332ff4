package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/labpoint/labportal/config"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "rzp_test_secret"
	good := sign("order_1", "pay_1", secret)

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{"valid", "order_1", "pay_1", good, secret, true},
		{"wrong order", "order_2", "pay_1", good, secret, false},
		{"wrong payment", "order_1", "pay_2", good, secret, false},
		{"forged signature", "order_1", "pay_1", "deadbeef", secret, false},
		{"wrong secret", "order_1", "pay_1", good, "other_secret", false},
		{"empty order", "", "pay_1", good, secret, false},
		{"empty payment", "order_1", "", good, secret, false},
		{"empty signature", "order_1", "pay_1", "", secret, false},
		{"empty secret", "order_1", "pay_1", good, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := VerifySignature(tc.orderID, tc.paymentID, tc.signature, tc.secret); got != tc.want {
				t.Errorf("VerifySignature(%q, %q, ...) = %v, want %v", tc.orderID, tc.paymentID, got, tc.want)
			}
		})
	}
}

func TestGatewayVerifySignatureUsesConfiguredSecret(t *testing.T) {
	g := NewRazorpayGateway(config.PaymentConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		Currency:  "INR",
	})

	if !g.VerifySignature("order_1", "pay_1", sign("order_1", "pay_1", "rzp_test_secret")) {
		t.Error("signature minted with the configured secret should verify")
	}
	if g.VerifySignature("order_1", "pay_1", sign("order_1", "pay_1", "another")) {
		t.Error("signature minted with a different secret must not verify")
	}
}

func TestCreateOrderUnconfigured(t *testing.T) {
	g := NewRazorpayGateway(config.PaymentConfig{})
	if _, err := g.CreateOrder(100, "receipt-1"); err == nil {
		t.Fatal("expected ErrGatewayUnavailable without credentials")
	}
}
