package refund

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentProvider is the outbound port to the external payment gateway that
// moves the refunded money back to the buyer. The gateway itself is another
// system; this service only records whether its call succeeded.
type PaymentProvider interface {
	RefundPayment(ctx context.Context, paymentTransactionID string, amount decimal.Decimal) error
}

// NoopProvider is the default provider used when no gateway is wired in; it
// accepts every refund
type NoopProvider struct{}

// RefundPayment always succeeds
func (NoopProvider) RefundPayment(ctx context.Context, paymentTransactionID string, amount decimal.Decimal) error {
	return nil
}
