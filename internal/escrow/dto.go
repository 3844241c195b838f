package escrow

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReleaseRequest represents the request to release an order's escrow
type ReleaseRequest struct {
	SellerID  *string `json:"seller_id,omitempty"`
	AuditNote *string `json:"audit_note,omitempty"`
}

// RefundRequest represents the request to fully refund an order's escrow
type RefundRequest struct {
	SellerID *string `json:"seller_id,omitempty"`
}

// PartialRefundRequest represents the request to partially refund one seller's escrow
type PartialRefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// EntryResponse represents an escrow entry in API responses
type EntryResponse struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"order_id"`
	PaymentTransactionID string     `json:"payment_transaction_id"`
	SellerID             string     `json:"seller_id"`
	Amount               string     `json:"amount"`
	RefundedAmount       string     `json:"refunded_amount"`
	Remaining            string     `json:"remaining"`
	Currency             string     `json:"currency"`
	Status               Status     `json:"status"`
	IsEligibleForPayout  bool       `json:"is_eligible_for_payout"`
	AuditNote            string     `json:"audit_note"`
	CreatedAt            time.Time  `json:"created_at"`
	ReleasedAt           *time.Time `json:"released_at,omitempty"`
	RefundedAt           *time.Time `json:"refunded_at,omitempty"`
}

// ToResponse converts an EscrowEntry model to an EntryResponse DTO
func (e *EscrowEntry) ToResponse() *EntryResponse {
	return &EntryResponse{
		ID:                   e.ID,
		OrderID:              e.OrderID,
		PaymentTransactionID: e.PaymentTransactionID,
		SellerID:             e.SellerID,
		Amount:               e.Amount.StringFixed(2),
		RefundedAmount:       e.RefundedAmount.StringFixed(2),
		Remaining:            e.Remaining().StringFixed(2),
		Currency:             e.Currency,
		Status:               e.Status,
		IsEligibleForPayout:  e.IsEligibleForPayout,
		AuditNote:            e.AuditNote,
		CreatedAt:            e.CreatedAt,
		ReleasedAt:           e.ReleasedAt,
		RefundedAt:           e.RefundedAt,
	}
}

// PartialRefundResponse represents the outcome of a partial refund
type PartialRefundResponse struct {
	Entry          *EntryResponse `json:"entry"`
	AmountRefunded string         `json:"amount_refunded"`
	Remaining      string         `json:"remaining"`
}

// ToResponse converts a PartialRefundResult to its DTO
func (r *PartialRefundResult) ToResponse() *PartialRefundResponse {
	return &PartialRefundResponse{
		Entry:          r.Entry.ToResponse(),
		AmountRefunded: r.AmountRefunded.StringFixed(2),
		Remaining:      r.Remaining.StringFixed(2),
	}
}

// SweepResponse reports how many entries a payout eligibility sweep flagged
type SweepResponse struct {
	Flagged int64 `json:"flagged"`
}
