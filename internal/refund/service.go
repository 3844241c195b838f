package refund

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/internal/escrow"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

// Common errors
var (
	ErrRefundNotFound          = errors.New("refund not found")
	ErrNoFundsAvailable        = errors.New("no funds available for refund")
	ErrExceedsAvailableBalance = errors.New("refund amount exceeds available balance")
)

var oneHundred = decimal.NewFromInt(100)

// InitiatedBy identifies who asked for the refund
type InitiatedBy struct {
	UserID string
	Role   string
}

// FullRefundCommand refunds every seller's remaining escrow on an order
type FullRefundCommand struct {
	OrderID              string
	PaymentTransactionID string
	Reason               string
	InitiatedBy          InitiatedBy
	AuditNote            *string
}

// PartialRefundCommand refunds part of one seller's escrow on an order
type PartialRefundCommand struct {
	OrderID              string
	PaymentTransactionID string
	SellerID             string
	Amount               decimal.Decimal
	Reason               string
	InitiatedBy          InitiatedBy
}

// Result reports the outcome of a refund. A provider failure is carried on
// the result instead of the error channel so callers can tell it apart from
// their own validation mistakes; sub-steps committed before the failure stay
// committed (callers must re-check escrow state before retrying).
type Result struct {
	Refund               *Refund
	EscrowRefunded       decimal.Decimal
	CommissionRefunded   decimal.Decimal
	HasProviderErrors    bool
	ProviderErrorMessage string
}

// Service orchestrates refunds across the escrow ledger and the commission
// engine. It is the only writer that spans both: each refund is logged as a
// durable Refund record before any money moves.
type Service struct {
	repo       Repository
	escrow     *escrow.Service
	commission *commission.Service
	provider   PaymentProvider
	cfg        config.FundsConfig
	logger     *zap.Logger
	nowFn      func() time.Time
}

// NewService creates a new refund orchestration service
func NewService(repo Repository, escrowSvc *escrow.Service, commissionSvc *commission.Service, provider PaymentProvider, cfg config.FundsConfig, logger *zap.Logger) *Service {
	if provider == nil {
		provider = NoopProvider{}
	}
	return &Service{
		repo:       repo,
		escrow:     escrowSvc,
		commission: commissionSvc,
		provider:   provider,
		cfg:        cfg,
		logger:     logger,
		nowFn:      time.Now,
	}
}

// ProcessFullRefund refunds the remaining escrow of every seller on the order
// and claws back each seller's commission proportionally
func (s *Service) ProcessFullRefund(ctx context.Context, cmd FullRefundCommand) (*Result, error) {
	var violations []string
	if cmd.OrderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if cmd.PaymentTransactionID == "" {
		violations = append(violations, "PaymentTransactionId is required")
	}
	if cmd.Reason == "" {
		violations = append(violations, "Reason is required")
	}
	if cmd.InitiatedBy.UserID == "" {
		violations = append(violations, "InitiatedBy.UserId is required")
	}
	if cmd.InitiatedBy.Role == "" {
		violations = append(violations, "InitiatedBy.Role is required")
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	entries, err := s.escrow.GetByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, escrow.ErrNoEntriesForOrder
	}

	// Only sellers with a remaining balance participate; already refunded
	// or released entries are left alone
	affected := make([]*escrow.EscrowEntry, 0, len(entries))
	total := decimal.Zero
	for _, entry := range entries {
		if !entry.IsClosed() && entry.Remaining().IsPositive() {
			affected = append(affected, entry)
			total = total.Add(entry.Remaining())
		}
	}
	if len(affected) == 0 {
		return nil, ErrNoFundsAvailable
	}

	record := &Refund{
		ID:                   uuid.NewString(),
		OrderID:              cmd.OrderID,
		PaymentTransactionID: cmd.PaymentTransactionID,
		Type:                 TypeFull,
		Amount:               total,
		EscrowRefunded:       decimal.Zero,
		CommissionRefunded:   decimal.Zero,
		Reason:               cmd.Reason,
		InitiatedByUserID:    cmd.InitiatedBy.UserID,
		InitiatedByRole:      cmd.InitiatedBy.Role,
		Status:               StatusPending,
		CreatedAt:            s.nowFn(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	escrowRefunded := decimal.Zero
	refundedBySeller := make(map[string]decimal.Decimal, len(affected))
	for _, entry := range affected {
		sellerID := entry.SellerID
		remaining := entry.Remaining()
		if _, err := s.escrow.RefundFull(ctx, escrow.RefundCommand{OrderID: cmd.OrderID, SellerID: &sellerID}); err != nil {
			return nil, s.fail(ctx, record, err)
		}
		escrowRefunded = escrowRefunded.Add(remaining)
		refundedBySeller[sellerID] = remaining
	}

	if err := s.provider.RefundPayment(ctx, cmd.PaymentTransactionID, escrowRefunded); err != nil {
		return s.providerFailure(ctx, record, escrowRefunded, decimal.Zero, err)
	}

	commissionRefunded := decimal.Zero
	for sellerID, amount := range refundedBySeller {
		updated, err := s.commission.RecalculatePartialRefund(ctx, cmd.OrderID, sellerID, amount)
		if err != nil {
			// An order paid out without commission records is a data
			// fault upstream; the escrow side already moved, so record
			// the failure rather than unwind it
			return nil, s.fail(ctx, record, err)
		}
		commissionRefunded = commissionRefunded.Add(commissionDelta(updated, amount))
	}

	now := s.nowFn()
	record.EscrowRefunded = escrowRefunded
	record.CommissionRefunded = commissionRefunded
	record.Status = StatusCompleted
	record.CompletedAt = &now
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("full refund processed",
		zap.String("order_id", cmd.OrderID),
		zap.String("refund_id", record.ID),
		zap.String("escrow_refunded", escrowRefunded.StringFixed(2)),
		zap.String("commission_refunded", commissionRefunded.StringFixed(2)))

	return &Result{
		Refund:             record,
		EscrowRefunded:     escrowRefunded,
		CommissionRefunded: commissionRefunded,
	}, nil
}

// ProcessPartialRefund refunds part of one seller's escrow and claws back the
// matching slice of commission
func (s *Service) ProcessPartialRefund(ctx context.Context, cmd PartialRefundCommand) (*Result, error) {
	var violations []string
	if cmd.OrderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if cmd.PaymentTransactionID == "" {
		violations = append(violations, "PaymentTransactionId is required")
	}
	if cmd.SellerID == "" {
		violations = append(violations, "SellerId is required")
	}
	if !cmd.Amount.IsPositive() {
		violations = append(violations, "Amount must be greater than zero")
	}
	if cmd.Reason == "" {
		violations = append(violations, "Reason is required")
	}
	if cmd.InitiatedBy.UserID == "" {
		violations = append(violations, "InitiatedBy.UserId is required")
	}
	if cmd.InitiatedBy.Role == "" {
		violations = append(violations, "InitiatedBy.Role is required")
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	// Fast pre-check against the current balance for a friendly error
	// before anything is written
	entry, err := s.escrow.GetEntry(ctx, cmd.OrderID, cmd.SellerID)
	if err != nil {
		return nil, err
	}
	if cmd.Amount.GreaterThan(entry.Remaining()) {
		return nil, ErrExceedsAvailableBalance
	}

	sellerID := cmd.SellerID
	record := &Refund{
		ID:                   uuid.NewString(),
		OrderID:              cmd.OrderID,
		PaymentTransactionID: cmd.PaymentTransactionID,
		SellerID:             &sellerID,
		Type:                 TypePartial,
		Amount:               cmd.Amount,
		EscrowRefunded:       decimal.Zero,
		CommissionRefunded:   decimal.Zero,
		Reason:               cmd.Reason,
		InitiatedByUserID:    cmd.InitiatedBy.UserID,
		InitiatedByRole:      cmd.InitiatedBy.Role,
		Status:               StatusPending,
		CreatedAt:            s.nowFn(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	escrowResult, err := s.escrow.RefundPartial(ctx, cmd.OrderID, cmd.SellerID, cmd.Amount)
	if err != nil {
		return nil, s.fail(ctx, record, err)
	}

	if err := s.provider.RefundPayment(ctx, cmd.PaymentTransactionID, cmd.Amount); err != nil {
		return s.providerFailure(ctx, record, escrowResult.AmountRefunded, decimal.Zero, err)
	}

	commissionRecord, err := s.commission.RecalculatePartialRefund(ctx, cmd.OrderID, cmd.SellerID, cmd.Amount)
	if err != nil {
		return nil, s.fail(ctx, record, err)
	}
	clawedBack := commissionDelta(commissionRecord, cmd.Amount)

	now := s.nowFn()
	record.EscrowRefunded = escrowResult.AmountRefunded
	record.CommissionRefunded = clawedBack
	record.Status = StatusCompleted
	record.CompletedAt = &now
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("partial refund processed",
		zap.String("order_id", cmd.OrderID),
		zap.String("seller_id", cmd.SellerID),
		zap.String("refund_id", record.ID),
		zap.String("amount", cmd.Amount.StringFixed(2)))

	return &Result{
		Refund:             record,
		EscrowRefunded:     escrowResult.AmountRefunded,
		CommissionRefunded: clawedBack,
	}, nil
}

// commissionDelta derives how much commission this particular refund clawed
// back. The engine always recomputes the refunded commission from the
// cumulative total, so the previous figure can be rebuilt deterministically
// from the record itself.
func commissionDelta(updated *commission.CommissionRecord, refundAmount decimal.Decimal) decimal.Decimal {
	previousRefunded := updated.RefundedAmount.Sub(refundAmount)
	previousCommission := updated.CommissionAmount.
		Mul(previousRefunded).Div(updated.OrderAmount).Round(2)
	return updated.RefundedCommissionAmount.Sub(previousCommission)
}

// CheckSellerRefundEligibility is the read-side policy for seller-initiated
// partial refunds; it writes nothing
func (s *Service) CheckSellerRefundEligibility(ctx context.Context, orderID, sellerID string, amount decimal.Decimal) (*EligibilityResult, error) {
	var violations []string
	if orderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if sellerID == "" {
		violations = append(violations, "SellerId is required")
	}
	if !amount.IsPositive() {
		violations = append(violations, "Amount must be greater than zero")
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	entry, err := s.escrow.GetEntry(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}

	if entry.Status == escrow.StatusReleased {
		return &EligibilityResult{IneligibilityReason: ReasonAlreadyReleased}, nil
	}
	if !s.cfg.AllowSellerPartialRefunds {
		return &EligibilityResult{IneligibilityReason: ReasonSellerRefundsDisabled}, nil
	}
	windowEnd := entry.CreatedAt.AddDate(0, 0, s.cfg.SellerRefundWindowDays)
	if s.nowFn().After(windowEnd) {
		return &EligibilityResult{IneligibilityReason: ReasonExpiredWindow}, nil
	}
	maxTotal := entry.Amount.Mul(s.cfg.MaxSellerRefundPercentage).Div(oneHundred)
	if amount.Add(entry.RefundedAmount).GreaterThan(maxTotal) {
		return &EligibilityResult{IneligibilityReason: ReasonExceedsMaxRefundable}, nil
	}

	return &EligibilityResult{
		IsEligible:          true,
		MaxRefundableAmount: entry.Remaining(),
	}, nil
}

// GetByOrderID returns all refund records for an order
func (s *Service) GetByOrderID(ctx context.Context, orderID string) ([]*Refund, error) {
	if orderID == "" {
		return nil, apperr.Validation("OrderId is required")
	}
	return s.repo.GetByOrderID(ctx, orderID)
}

// GetByID returns one refund record
func (s *Service) GetByID(ctx context.Context, id string) (*Refund, error) {
	if id == "" {
		return nil, apperr.Validation("RefundId is required")
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRefundNotFound
	}
	return record, nil
}

// fail marks the refund record Failed with the step error and passes the
// error through
func (s *Service) fail(ctx context.Context, record *Refund, stepErr error) error {
	record.Status = StatusFailed
	record.FailureMessage = stepErr.Error()
	if updateErr := s.repo.Update(ctx, record); updateErr != nil {
		s.logger.Error("failed to record refund failure",
			zap.String("refund_id", record.ID), zap.Error(updateErr))
	}
	return stepErr
}

// providerFailure records a provider error on the refund and surfaces it on
// the result rather than the error channel. Whatever the earlier steps
// committed stays committed; there is no automatic compensation.
func (s *Service) providerFailure(ctx context.Context, record *Refund, escrowRefunded, commissionRefunded decimal.Decimal, providerErr error) (*Result, error) {
	record.EscrowRefunded = escrowRefunded
	record.CommissionRefunded = commissionRefunded
	record.Status = StatusFailed
	record.FailureMessage = providerErr.Error()
	if updateErr := s.repo.Update(ctx, record); updateErr != nil {
		s.logger.Error("failed to record provider failure",
			zap.String("refund_id", record.ID), zap.Error(updateErr))
	}

	s.logger.Warn("refund provider failure",
		zap.String("refund_id", record.ID),
		zap.String("order_id", record.OrderID),
		zap.Error(providerErr))

	return &Result{
		Refund:               record,
		EscrowRefunded:       escrowRefunded,
		CommissionRefunded:   commissionRefunded,
		HasProviderErrors:    true,
		ProviderErrorMessage: providerErr.Error(),
	}, nil
}
