// Package payments fronts the payment provider used for booking deposits.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidSignature = errors.New("payment signature mismatch")
	ErrMissingSecret    = errors.New("payment key secret is required")
)

// Amounts are in the smallest currency unit (paise for INR).
type Order struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Receipt   string    `json:"receipt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Refund struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"paymentId"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	Refund(ctx context.Context, paymentID string, amount int64) (*Refund, error)
}

var (
	orderNamespace  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://connectspace.local/payments/orders"))
	refundNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://connectspace.local/payments/refunds"))
)

// SandboxGateway is a deterministic offline gateway. Signatures follow the
// Razorpay checkout scheme: hex(HMAC-SHA256(secret, orderId + "|" + paymentId)).
type SandboxGateway struct {
	secret []byte
	now    func() time.Time
}

func NewSandboxGateway(keySecret string) (*SandboxGateway, error) {
	if keySecret == "" {
		return nil, ErrMissingSecret
	}
	return &SandboxGateway{secret: []byte(keySecret), now: time.Now}, nil
}

func shortID(prefix string, ns uuid.UUID, name string) string {
	id := uuid.NewSHA1(ns, []byte(name))
	return prefix + strings.ReplaceAll(id.String(), "-", "")[:14]
}

func (g *SandboxGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "INR"
	}
	return &Order{
		ID:        shortID("order_", orderNamespace, fmt.Sprintf("%s|%d|%s", receipt, amount, currency)),
		Amount:    amount,
		Currency:  currency,
		Receipt:   receipt,
		Status:    "created",
		CreatedAt: g.now().UTC(),
	}, nil
}

// Sign returns the signature the checkout would post back for a payment.
func (g *SandboxGateway) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *SandboxGateway) VerifySignature(orderID, paymentID, signature string) error {
	expected := g.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return ErrInvalidSignature
	}
	return nil
}

func (g *SandboxGateway) Refund(ctx context.Context, paymentID string, amount int64) (*Refund, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if paymentID == "" {
		return nil, errors.New("payment id is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Refund{
		ID:        shortID("rfnd_", refundNamespace, fmt.Sprintf("%s|%d", paymentID, amount)),
		PaymentID: paymentID,
		Amount:    amount,
		Status:    "processed",
		CreatedAt: g.now().UTC(),
	}, nil
}
