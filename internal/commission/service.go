package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

// Common errors
var (
	ErrRecordNotFound         = errors.New("commission record not found")
	ErrRuleNotFound           = errors.New("commission rule not found")
	ErrRefundExceedsOrder     = errors.New("refund exceeds remaining order amount")
	ErrConcurrentModification = errors.New("commission record was modified concurrently")
)

var oneHundred = decimal.NewFromInt(100)

// Allocation is one seller's share of a confirmed payment
type Allocation struct {
	SellerID   string
	Amount     decimal.Decimal
	CategoryID *string
}

// CalculateCommand asks for commission records for one confirmed payment
type CalculateCommand struct {
	PaymentTransactionID string
	OrderID              string
	Allocations          []Allocation
}

// CreateRuleCommand describes a new commission rule
type CreateRuleCommand struct {
	SellerID      *string
	CategoryID    *string
	Rate          decimal.Decimal
	MinCommission *decimal.Decimal
	MaxCommission *decimal.Decimal
	Priority      int
	ValidFrom     time.Time
	ValidUntil    *time.Time
}

// Service handles commission business logic
type Service struct {
	repo     Repository
	resolver *Resolver
	cfg      config.FundsConfig
	logger   *zap.Logger
	nowFn    func() time.Time
}

// NewService creates a new commission service
func NewService(repo Repository, cfg config.FundsConfig, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: NewResolver(repo),
		cfg:      cfg,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// Calculate creates one commission record per seller allocation of a
// confirmed payment. Records are only ever inserted here, never updated, so
// the calculation history stays immutable.
func (s *Service) Calculate(ctx context.Context, cmd CalculateCommand) ([]*CommissionRecord, error) {
	var violations []string
	if cmd.PaymentTransactionID == "" {
		violations = append(violations, "PaymentTransactionId is required")
	}
	if cmd.OrderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if len(cmd.Allocations) == 0 {
		violations = append(violations, "At least one seller allocation is required")
	}
	for i, alloc := range cmd.Allocations {
		if alloc.SellerID == "" {
			violations = append(violations, fmt.Sprintf("Allocation %d: SellerId is required", i))
		}
		if !alloc.Amount.IsPositive() {
			violations = append(violations, fmt.Sprintf("Allocation %d: Amount must be greater than zero", i))
		}
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	now := s.nowFn()
	records := make([]*CommissionRecord, 0, len(cmd.Allocations))

	for _, alloc := range cmd.Allocations {
		rule, err := s.resolver.Resolve(ctx, alloc.SellerID, alloc.CategoryID, now)
		if err != nil {
			return nil, err
		}

		var (
			rate          decimal.Decimal
			amount        decimal.Decimal
			description   string
			appliedRuleID *string
		)
		if rule != nil {
			rate = rule.Rate
			amount = rule.ApplyBounds(alloc.Amount.Mul(rate).Div(oneHundred)).Round(2)
			description = rule.Describe()
			ruleID := rule.ID
			appliedRuleID = &ruleID
		} else {
			rate = s.cfg.DefaultCommissionRate
			amount = alloc.Amount.Mul(rate).Div(oneHundred).Round(2)
			description = DefaultRateDescription
		}

		records = append(records, &CommissionRecord{
			ID:                       uuid.NewString(),
			PaymentTransactionID:     cmd.PaymentTransactionID,
			OrderID:                  cmd.OrderID,
			SellerID:                 alloc.SellerID,
			OrderAmount:              alloc.Amount,
			CommissionRate:           rate,
			CommissionAmount:         amount,
			RefundedAmount:           decimal.Zero,
			RefundedCommissionAmount: decimal.Zero,
			NetCommissionAmount:      amount,
			AppliedRuleID:            appliedRuleID,
			RuleDescription:          description,
			CalculatedAt:             now,
			CreatedAt:                now,
			LastUpdatedAt:            now,
		})
	}

	if err := s.repo.CreateRecords(ctx, records); err != nil {
		return nil, err
	}

	s.logger.Info("commission calculated",
		zap.String("order_id", cmd.OrderID),
		zap.String("payment_transaction_id", cmd.PaymentTransactionID),
		zap.Int("records", len(records)))

	return records, nil
}

// RecalculatePartialRefund claws back commission proportionally to the
// cumulative refunded amount. The refunded commission is always recomputed
// from the running total, never added incrementally, so replays driven by the
// same cumulative figures converge to the same state.
func (s *Service) RecalculatePartialRefund(ctx context.Context, orderID, sellerID string, refundAmount decimal.Decimal) (*CommissionRecord, error) {
	var violations []string
	if orderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if sellerID == "" {
		violations = append(violations, "SellerId is required")
	}
	if !refundAmount.IsPositive() {
		violations = append(violations, "RefundAmount must be greater than zero")
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	record, err := s.repo.GetByOrderAndSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	previousRefunded := record.RefundedAmount
	newTotalRefunded := previousRefunded.Add(refundAmount)
	if newTotalRefunded.GreaterThan(record.OrderAmount) {
		return nil, ErrRefundExceedsOrder
	}

	now := s.nowFn()
	fraction := newTotalRefunded.Div(record.OrderAmount)

	record.RefundedAmount = newTotalRefunded
	record.RefundedCommissionAmount = record.CommissionAmount.Mul(fraction).Round(2)
	record.NetCommissionAmount = record.CommissionAmount.Sub(record.RefundedCommissionAmount)
	record.LastRefundRecalculatedAt = &now
	record.LastUpdatedAt = now

	updated, err := s.repo.UpdateRefundFields(ctx, record, previousRefunded)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConcurrentModification
	}

	s.logger.Info("commission clawed back",
		zap.String("order_id", orderID),
		zap.String("seller_id", sellerID),
		zap.String("refunded_total", newTotalRefunded.StringFixed(2)),
		zap.String("net_commission", record.NetCommissionAmount.StringFixed(2)))

	return record, nil
}

// GetRecordsByOrder returns all commission records for an order
func (s *Service) GetRecordsByOrder(ctx context.Context, orderID string) ([]*CommissionRecord, error) {
	if orderID == "" {
		return nil, apperr.Validation("OrderId is required")
	}
	return s.repo.GetByOrderID(ctx, orderID)
}

// CreateRule validates and stores a new commission rule
func (s *Service) CreateRule(ctx context.Context, cmd CreateRuleCommand) (*CommissionRule, error) {
	var violations []string
	if !cmd.Rate.IsPositive() || cmd.Rate.GreaterThan(oneHundred) {
		violations = append(violations, "Rate must be between 0 and 100")
	}
	if cmd.MinCommission != nil && cmd.MinCommission.IsNegative() {
		violations = append(violations, "MinCommission cannot be negative")
	}
	if cmd.MaxCommission != nil && cmd.MaxCommission.IsNegative() {
		violations = append(violations, "MaxCommission cannot be negative")
	}
	if cmd.MinCommission != nil && cmd.MaxCommission != nil && cmd.MinCommission.GreaterThan(*cmd.MaxCommission) {
		violations = append(violations, "MinCommission cannot exceed MaxCommission")
	}
	if cmd.ValidFrom.IsZero() {
		violations = append(violations, "ValidFrom is required")
	}
	if cmd.ValidUntil != nil && !cmd.ValidUntil.After(cmd.ValidFrom) {
		violations = append(violations, "ValidUntil must be after ValidFrom")
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	rule := &CommissionRule{
		ID:            uuid.NewString(),
		SellerID:      cmd.SellerID,
		CategoryID:    cmd.CategoryID,
		Rate:          cmd.Rate,
		MinCommission: cmd.MinCommission,
		MaxCommission: cmd.MaxCommission,
		Priority:      cmd.Priority,
		IsActive:      true,
		ValidFrom:     cmd.ValidFrom,
		ValidUntil:    cmd.ValidUntil,
		CreatedAt:     s.nowFn(),
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("commission rule created",
		zap.String("rule_id", rule.ID),
		zap.String("scope", rule.MatchKind().String()),
		zap.String("rate", rule.Rate.String()))

	return rule, nil
}

// GetRule retrieves a rule by ID
func (s *Service) GetRule(ctx context.Context, id string) (*CommissionRule, error) {
	if id == "" {
		return nil, apperr.Validation("RuleId is required")
	}

	rule, err := s.repo.GetRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

// ListRules returns all rules, optionally including inactive ones
func (s *Service) ListRules(ctx context.Context, includeInactive bool) ([]*CommissionRule, error) {
	return s.repo.ListRules(ctx, includeInactive)
}

// DeactivateRule removes a rule from resolution without deleting its history
func (s *Service) DeactivateRule(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("RuleId is required")
	}

	found, err := s.repo.SetRuleActive(ctx, id, false)
	if err != nil {
		return err
	}
	if !found {
		return ErrRuleNotFound
	}

	s.logger.Info("commission rule deactivated", zap.String("rule_id", id))
	return nil
}
