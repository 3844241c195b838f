package escrow

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an escrow entry.
//
// Held → Released                      (terminal)
// Held → Refunded                      (terminal, full refund)
// Held → PartiallyRefunded → Refunded  (terminal once fully refunded)
// PartiallyRefunded → Released         (partial refund does not block release)
type Status string

const (
	StatusHeld              Status = "HELD"
	StatusReleased          Status = "RELEASED"
	StatusPartiallyRefunded Status = "PARTIALLY_REFUNDED"
	StatusRefunded          Status = "REFUNDED"
)

// EscrowEntry is the marketplace-held funds for one seller on one order
type EscrowEntry struct {
	ID                   string          `json:"id"`
	OrderID              string          `json:"order_id"`
	PaymentTransactionID string          `json:"payment_transaction_id"`
	SellerID             string          `json:"seller_id"`
	Amount               decimal.Decimal `json:"amount"`
	RefundedAmount       decimal.Decimal `json:"refunded_amount"`
	Currency             string          `json:"currency"`
	Status               Status          `json:"status"`
	IsEligibleForPayout  bool            `json:"is_eligible_for_payout"`
	AuditNote            string          `json:"audit_note"`
	CreatedAt            time.Time       `json:"created_at"`
	LastUpdatedAt        time.Time       `json:"last_updated_at"`
	ReleasedAt           *time.Time      `json:"released_at,omitempty"`
	RefundedAt           *time.Time      `json:"refunded_at,omitempty"`
}

// Remaining is the portion of the held amount not yet refunded
func (e *EscrowEntry) Remaining() decimal.Decimal {
	return e.Amount.Sub(e.RefundedAmount)
}

// IsClosed reports whether the entry rejects any further release or refund
func (e *EscrowEntry) IsClosed() bool {
	return e.Status == StatusReleased || e.Status == StatusRefunded
}
