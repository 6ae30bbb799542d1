// Package payment bridges the order workflow to Razorpay: creating gateway
// orders for online checkout and verifying webhook signatures.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// EventPaymentCaptured is the only webhook event the workflow acts on.
const EventPaymentCaptured = "payment.captured"

// CheckoutParams is what the client needs to complete an online payment.
type CheckoutParams struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

type Gateway struct {
	client   *razorpay.Client
	keyID    string
	currency string
}

func NewGateway(keyID, keySecret, currency string) *Gateway {
	return &Gateway{
		client:   razorpay.NewClient(keyID, keySecret),
		keyID:    keyID,
		currency: currency,
	}
}

// CreateOrder opens a gateway order for the given amount, tagged with
// {userId, orderId} notes so the webhook can find its way back. Amount is
// converted to minor units (paise).
func (g *Gateway) CreateOrder(orderID, userID string, amount float64) (CheckoutParams, error) {
	minor := int64(amount * 100)
	data := map[string]interface{}{
		"amount":   minor,
		"currency": g.currency,
		"receipt":  orderID,
		"notes": map[string]interface{}{
			"userId":  userID,
			"orderId": orderID,
		},
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return CheckoutParams{}, fmt.Errorf("razorpay order create: %w", err)
	}

	params := CheckoutParams{
		Amount:   minor,
		Currency: g.currency,
		KeyID:    g.keyID,
	}
	if id, ok := body["id"].(string); ok {
		params.OrderID = id
	}
	if v, ok := body["amount"].(float64); ok {
		params.Amount = int64(v)
	}
	if v, ok := body["currency"].(string); ok {
		params.Currency = v
	}
	return params, nil
}

// VerifySignature checks the x-razorpay-signature header against an
// HMAC-SHA256 hex digest of the exact raw body, in constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Event is the slice of the webhook payload the order workflow needs.
type Event struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string `json:"id"`
				Notes struct {
					OrderID string `json:"orderId"`
					UserID  string `json:"userId"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentID is the gateway's id for the captured payment, used as the
// replay-ledger key.
func (e Event) PaymentID() string {
	return e.Payload.Payment.Entity.ID
}

func ParseEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("decode webhook event: %w", err)
	}
	return e, nil
}
