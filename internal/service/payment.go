package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var paymentMethods = map[string]string{
	"upi":       "UPI",
	"phonepe":   "PhonePe",
	"googlepay": "Google Pay",
}

type PaymentReceipt struct {
	Reference string    `json:"reference"`
	Method    string    `json:"method"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentSimulator stands in for a payment provider: it approves every charge after a
// fixed delay, bounded by timeout.
type PaymentSimulator struct {
	delay   time.Duration
	timeout time.Duration
}

func NewPaymentSimulator(delay, timeout time.Duration) *PaymentSimulator {
	return &PaymentSimulator{delay: delay, timeout: timeout}
}

func ValidPaymentMethod(method string) bool {
	_, ok := paymentMethods[method]
	return ok
}

func (p *PaymentSimulator) Charge(ctx context.Context, method string, amount float64) (PaymentReceipt, error) {
	if !ValidPaymentMethod(method) {
		return PaymentReceipt{}, invalid("payment_method", "unsupported payment method %q", method)
	}
	if amount <= 0 {
		return PaymentReceipt{}, invalid("amount", "amount must be positive")
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		slog.Warn("payment aborted", "method", method, "amount", amount, "error", ctx.Err())
		return PaymentReceipt{}, fmt.Errorf("%w: %v", ErrPaymentFailed, ctx.Err())
	case <-timer.C:
	}

	receipt := PaymentReceipt{
		Reference: "PAY-" + uuid.NewString()[:8],
		Method:    paymentMethods[method],
		Amount:    amount,
		PaidAt:    time.Now().UTC(),
	}
	slog.Info("payment approved", "reference", receipt.Reference, "method", method, "amount", amount)
	return receipt, nil
}
