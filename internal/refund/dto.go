package refund

import (
	"time"

	"github.com/shopspring/decimal"
)

// FullRefundRequest represents the request to refund a whole order
type FullRefundRequest struct {
	OrderID              string  `json:"order_id" validate:"required"`
	PaymentTransactionID string  `json:"payment_transaction_id" validate:"required"`
	Reason               string  `json:"reason" validate:"required"`
	AuditNote            *string `json:"audit_note,omitempty"`
}

// PartialRefundRequest represents the request to refund part of one seller's funds
type PartialRefundRequest struct {
	OrderID              string          `json:"order_id" validate:"required"`
	PaymentTransactionID string          `json:"payment_transaction_id" validate:"required"`
	SellerID             string          `json:"seller_id" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
	Reason               string          `json:"reason" validate:"required"`
}

// RefundResponse represents a refund record in API responses
type RefundResponse struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"order_id"`
	PaymentTransactionID string     `json:"payment_transaction_id"`
	SellerID             *string    `json:"seller_id,omitempty"`
	Type                 Type       `json:"type"`
	Amount               string     `json:"amount"`
	EscrowRefunded       string     `json:"escrow_refunded"`
	CommissionRefunded   string     `json:"commission_refunded"`
	Reason               string     `json:"reason"`
	InitiatedByUserID    string     `json:"initiated_by_user_id"`
	InitiatedByRole      string     `json:"initiated_by_role"`
	Status               Status     `json:"status"`
	FailureMessage       string     `json:"failure_message,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// ToResponse converts a Refund model to a RefundResponse DTO
func (r *Refund) ToResponse() *RefundResponse {
	return &RefundResponse{
		ID:                   r.ID,
		OrderID:              r.OrderID,
		PaymentTransactionID: r.PaymentTransactionID,
		SellerID:             r.SellerID,
		Type:                 r.Type,
		Amount:               r.Amount.StringFixed(2),
		EscrowRefunded:       r.EscrowRefunded.StringFixed(2),
		CommissionRefunded:   r.CommissionRefunded.StringFixed(2),
		Reason:               r.Reason,
		InitiatedByUserID:    r.InitiatedByUserID,
		InitiatedByRole:      r.InitiatedByRole,
		Status:               r.Status,
		FailureMessage:       r.FailureMessage,
		CreatedAt:            r.CreatedAt,
		CompletedAt:          r.CompletedAt,
	}
}

// ResultResponse represents a processed refund outcome
type ResultResponse struct {
	Refund               *RefundResponse `json:"refund"`
	EscrowRefunded       string          `json:"escrow_refunded"`
	CommissionRefunded   string          `json:"commission_refunded"`
	HasProviderErrors    bool            `json:"has_provider_errors,omitempty"`
	ProviderErrorMessage string          `json:"provider_error_message,omitempty"`
}

// ToResponse converts a Result to its DTO
func (r *Result) ToResponse() *ResultResponse {
	return &ResultResponse{
		Refund:               r.Refund.ToResponse(),
		EscrowRefunded:       r.EscrowRefunded.StringFixed(2),
		CommissionRefunded:   r.CommissionRefunded.StringFixed(2),
		HasProviderErrors:    r.HasProviderErrors,
		ProviderErrorMessage: r.ProviderErrorMessage,
	}
}

// EligibilityResponse answers a seller eligibility check
type EligibilityResponse struct {
	IsEligible          bool   `json:"is_eligible"`
	MaxRefundableAmount string `json:"max_refundable_amount,omitempty"`
	IneligibilityReason string `json:"ineligibility_reason,omitempty"`
}

// ToResponse converts an EligibilityResult to its DTO
func (r *EligibilityResult) ToResponse() *EligibilityResponse {
	resp := &EligibilityResponse{
		IsEligible:          r.IsEligible,
		IneligibilityReason: r.IneligibilityReason,
	}
	if r.IsEligible {
		resp.MaxRefundableAmount = r.MaxRefundableAmount.StringFixed(2)
	}
	return resp
}
