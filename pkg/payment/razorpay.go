package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/labpoint/labportal/config"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable or misconfigured")

// Order is the gateway-side order a client completes payment against.
type Order struct {
	ID       string
	Amount   float64
	Currency string
	KeyID    string
}

// Gateway is the payment-provider port. The Razorpay implementation is the
// only one in-tree; tests substitute their own.
type Gateway interface {
	CreateOrder(amount float64, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type RazorpayGateway struct {
	cfg    config.PaymentConfig
	client *razorpay.Client
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	g := &RazorpayGateway{cfg: cfg}
	if cfg.KeyID != "" {
		g.client = razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	}
	return g
}

// CreateOrder registers an order with the gateway. Amounts are rupees on
// our side and paise on the wire.
func (g *RazorpayGateway) CreateOrder(amount float64, receipt string) (*Order, error) {
	if g.client == nil {
		return nil, ErrGatewayUnavailable
	}

	data := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": g.cfg.Currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: order id missing in response", ErrGatewayUnavailable)
	}

	return &Order{
		ID:       id,
		Amount:   amount,
		Currency: g.cfg.Currency,
		KeyID:    g.cfg.KeyID,
	}, nil
}

// VerifySignature checks the Razorpay payment signature:
// HMAC-SHA256(orderID + "|" + paymentID) keyed with the API secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, g.cfg.KeySecret)
}

func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
