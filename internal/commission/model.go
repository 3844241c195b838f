package commission

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RuleMatchKind classifies how specifically a rule targets an allocation.
// Higher values win over lower ones when several rules match.
type RuleMatchKind int

const (
	MatchGlobal RuleMatchKind = iota
	MatchCategoryOnly
	MatchSellerOnly
	MatchSellerAndCategory
)

// String returns the human-readable name of the match kind
func (k RuleMatchKind) String() string {
	switch k {
	case MatchSellerAndCategory:
		return "SELLER_AND_CATEGORY"
	case MatchSellerOnly:
		return "SELLER_ONLY"
	case MatchCategoryOnly:
		return "CATEGORY_ONLY"
	default:
		return "GLOBAL"
	}
}

// DefaultRateDescription is recorded on commission records calculated without
// a matching rule
const DefaultRateDescription = "Default rate"

// CommissionRule defines a commission percentage for a seller/category scope.
// A nil SellerID or CategoryID acts as a wildcard.
type CommissionRule struct {
	ID            string           `json:"id"`
	SellerID      *string          `json:"seller_id,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	Rate          decimal.Decimal  `json:"rate"` // percentage, e.g. 12.5
	MinCommission *decimal.Decimal `json:"min_commission,omitempty"`
	MaxCommission *decimal.Decimal `json:"max_commission,omitempty"`
	Priority      int              `json:"priority"`
	IsActive      bool             `json:"is_active"`
	ValidFrom     time.Time        `json:"valid_from"`
	ValidUntil    *time.Time       `json:"valid_until,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MatchKind derives the rule's specificity from its wildcard fields
func (r *CommissionRule) MatchKind() RuleMatchKind {
	switch {
	case r.SellerID != nil && r.CategoryID != nil:
		return MatchSellerAndCategory
	case r.SellerID != nil:
		return MatchSellerOnly
	case r.CategoryID != nil:
		return MatchCategoryOnly
	default:
		return MatchGlobal
	}
}

// AppliesTo reports whether the rule covers the given allocation at asOf.
// An allocation without a category can only match seller-only or global rules.
func (r *CommissionRule) AppliesTo(sellerID string, categoryID *string, asOf time.Time) bool {
	if !r.IsActive {
		return false
	}
	if asOf.Before(r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && asOf.After(*r.ValidUntil) {
		return false
	}
	if r.SellerID != nil && *r.SellerID != sellerID {
		return false
	}
	if r.CategoryID != nil {
		if categoryID == nil || *r.CategoryID != *categoryID {
			return false
		}
	}
	return true
}

// ApplyBounds clamps a raw commission to the rule's min/max, floor first
func (r *CommissionRule) ApplyBounds(raw decimal.Decimal) decimal.Decimal {
	bounded := raw
	if r.MinCommission != nil && bounded.LessThan(*r.MinCommission) {
		bounded = *r.MinCommission
	}
	if r.MaxCommission != nil && bounded.GreaterThan(*r.MaxCommission) {
		bounded = *r.MaxCommission
	}
	return bounded
}

// Describe renders a short audit description of the rule's scope
func (r *CommissionRule) Describe() string {
	return fmt.Sprintf("Rule %s (%s, %s%%)", r.ID, r.MatchKind(), r.Rate.String())
}

// CommissionRecord is the per-seller commission for one confirmed payment.
// Only the four refund-tracking fields ever change after creation; everything
// else is immutable history.
type CommissionRecord struct {
	ID                       string          `json:"id"`
	PaymentTransactionID     string          `json:"payment_transaction_id"`
	OrderID                  string          `json:"order_id"`
	SellerID                 string          `json:"seller_id"`
	OrderAmount              decimal.Decimal `json:"order_amount"`
	CommissionRate           decimal.Decimal `json:"commission_rate"`
	CommissionAmount         decimal.Decimal `json:"commission_amount"`
	RefundedAmount           decimal.Decimal `json:"refunded_amount"`
	RefundedCommissionAmount decimal.Decimal `json:"refunded_commission_amount"`
	NetCommissionAmount      decimal.Decimal `json:"net_commission_amount"`
	AppliedRuleID            *string         `json:"applied_rule_id,omitempty"`
	RuleDescription          string          `json:"rule_description"`
	CalculatedAt             time.Time       `json:"calculated_at"`
	LastRefundRecalculatedAt *time.Time      `json:"last_refund_recalculated_at,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
	LastUpdatedAt            time.Time       `json:"last_updated_at"`
}
