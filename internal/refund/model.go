package refund

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes full-order refunds from single-seller partial refunds
type Type string

const (
	TypeFull    Type = "FULL"
	TypePartial Type = "PARTIAL"
)

// Status represents the lifecycle of a refund record
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Refund is the durable audit record of one refund action. It is persisted
// before any money moves and updated with the outcome, so a crashed or
// provider-failed refund leaves a visible trace instead of a silent gap.
type Refund struct {
	ID                   string          `json:"id"`
	OrderID              string          `json:"order_id"`
	PaymentTransactionID string          `json:"payment_transaction_id"`
	SellerID             *string         `json:"seller_id,omitempty"` // nil spans all sellers on the order
	Type                 Type            `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	EscrowRefunded       decimal.Decimal `json:"escrow_refunded"`
	CommissionRefunded   decimal.Decimal `json:"commission_refunded"`
	Reason               string          `json:"reason"`
	InitiatedByUserID    string          `json:"initiated_by_user_id"`
	InitiatedByRole      string          `json:"initiated_by_role"`
	Status               Status          `json:"status"`
	FailureMessage       string          `json:"failure_message,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

// EligibilityResult answers a seller self-service refund eligibility check
type EligibilityResult struct {
	IsEligible          bool
	MaxRefundableAmount decimal.Decimal
	IneligibilityReason string
}

// Ineligibility reasons returned by the seller self-service policy
const (
	ReasonExpiredWindow         = "expired window"
	ReasonSellerRefundsDisabled = "seller refunds disabled"
	ReasonAlreadyReleased       = "already released"
	ReasonExceedsMaxRefundable  = "exceeds maximum refundable amount"
)
