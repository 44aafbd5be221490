// Package payment wraps the external checkout gateway. Billing is entirely
// delegated: this service only builds checkout URLs and verifies webhook
// signatures; card handling never touches this codebase.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"os"
)

type CheckoutRequest struct {
	UserID     string
	PlanCode   string
	SuccessURL string
	CancelURL  string
}

type Gateway interface {
	// CreateCheckoutURL returns the hosted checkout page the operator is
	// redirected to. The gateway calls back via the billing webhook.
	CreateCheckoutURL(ctx context.Context, req CheckoutRequest) (string, error)

	// VerifySignature checks the HMAC-SHA256 signature the gateway attaches
	// to webhook payloads.
	VerifySignature(payload []byte, signature string) bool
}

type hostedGateway struct {
	checkoutBase  string
	webhookSecret []byte
}

// NewFromEnv reads PAYMENT_CHECKOUT_URL and PAYMENT_WEBHOOK_SECRET.
func NewFromEnv() Gateway {
	base := os.Getenv("PAYMENT_CHECKOUT_URL")
	if base == "" {
		base = "https://checkout.example.com/session"
	}
	return &hostedGateway{
		checkoutBase:  base,
		webhookSecret: []byte(os.Getenv("PAYMENT_WEBHOOK_SECRET")),
	}
}

func (g *hostedGateway) CreateCheckoutURL(_ context.Context, req CheckoutRequest) (string, error) {
	u, err := url.Parse(g.checkoutBase)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("client_reference_id", req.UserID)
	q.Set("plan", req.PlanCode)
	q.Set("success_url", req.SuccessURL)
	q.Set("cancel_url", req.CancelURL)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (g *hostedGateway) VerifySignature(payload []byte, signature string) bool {
	if len(g.webhookSecret) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, g.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
