package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRuleRequest represents the request to create a commission rule
type CreateRuleRequest struct {
	SellerID      *string          `json:"seller_id,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	Rate          decimal.Decimal  `json:"rate"`
	MinCommission *decimal.Decimal `json:"min_commission,omitempty"`
	MaxCommission *decimal.Decimal `json:"max_commission,omitempty"`
	Priority      int              `json:"priority"`
	ValidFrom     time.Time        `json:"valid_from"`
	ValidUntil    *time.Time       `json:"valid_until,omitempty"`
}

// ToCommand converts the request into a service command
func (r *CreateRuleRequest) ToCommand() CreateRuleCommand {
	return CreateRuleCommand{
		SellerID:      r.SellerID,
		CategoryID:    r.CategoryID,
		Rate:          r.Rate,
		MinCommission: r.MinCommission,
		MaxCommission: r.MaxCommission,
		Priority:      r.Priority,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
	}
}

// RuleResponse represents a commission rule in API responses
type RuleResponse struct {
	ID            string     `json:"id"`
	SellerID      *string    `json:"seller_id,omitempty"`
	CategoryID    *string    `json:"category_id,omitempty"`
	MatchKind     string     `json:"match_kind"`
	Rate          string     `json:"rate"`
	MinCommission *string    `json:"min_commission,omitempty"`
	MaxCommission *string    `json:"max_commission,omitempty"`
	Priority      int        `json:"priority"`
	IsActive      bool       `json:"is_active"`
	ValidFrom     time.Time  `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts a CommissionRule model to a RuleResponse DTO
func (r *CommissionRule) ToResponse() *RuleResponse {
	return &RuleResponse{
		ID:            r.ID,
		SellerID:      r.SellerID,
		CategoryID:    r.CategoryID,
		MatchKind:     r.MatchKind().String(),
		Rate:          r.Rate.String(),
		MinCommission: fixedPtr(r.MinCommission),
		MaxCommission: fixedPtr(r.MaxCommission),
		Priority:      r.Priority,
		IsActive:      r.IsActive,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		CreatedAt:     r.CreatedAt,
	}
}

// RecordResponse represents a commission record in API responses
type RecordResponse struct {
	ID                       string     `json:"id"`
	PaymentTransactionID     string     `json:"payment_transaction_id"`
	OrderID                  string     `json:"order_id"`
	SellerID                 string     `json:"seller_id"`
	OrderAmount              string     `json:"order_amount"`
	CommissionRate           string     `json:"commission_rate"`
	CommissionAmount         string     `json:"commission_amount"`
	RefundedAmount           string     `json:"refunded_amount"`
	RefundedCommissionAmount string     `json:"refunded_commission_amount"`
	NetCommissionAmount      string     `json:"net_commission_amount"`
	AppliedRuleID            *string    `json:"applied_rule_id,omitempty"`
	RuleDescription          string     `json:"rule_description"`
	CalculatedAt             time.Time  `json:"calculated_at"`
	LastRefundRecalculatedAt *time.Time `json:"last_refund_recalculated_at,omitempty"`
}

// ToResponse converts a CommissionRecord model to a RecordResponse DTO
func (r *CommissionRecord) ToResponse() *RecordResponse {
	return &RecordResponse{
		ID:                       r.ID,
		PaymentTransactionID:     r.PaymentTransactionID,
		OrderID:                  r.OrderID,
		SellerID:                 r.SellerID,
		OrderAmount:              r.OrderAmount.StringFixed(2),
		CommissionRate:           r.CommissionRate.String(),
		CommissionAmount:         r.CommissionAmount.StringFixed(2),
		RefundedAmount:           r.RefundedAmount.StringFixed(2),
		RefundedCommissionAmount: r.RefundedCommissionAmount.StringFixed(2),
		NetCommissionAmount:      r.NetCommissionAmount.StringFixed(2),
		AppliedRuleID:            r.AppliedRuleID,
		RuleDescription:          r.RuleDescription,
		CalculatedAt:             r.CalculatedAt,
		LastRefundRecalculatedAt: r.LastRefundRecalculatedAt,
	}
}

func fixedPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	value := d.StringFixed(2)
	return &value
}
