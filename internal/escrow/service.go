package escrow

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
	ErrEntryNotFound          = errors.New("escrow entry not found")
	ErrNoEntriesForOrder      = errors.New("no escrow entries found for order")
	ErrNoEntriesForSeller     = errors.New("no escrow entries found for seller")
	ErrEntryClosed            = errors.New("escrow entry already released or refunded")
	ErrExceedsRemaining       = errors.New("refund exceeds remaining escrow amount")
	ErrConcurrentModification = errors.New("escrow entry was modified concurrently")
)

// HoldAllocation is one seller's share of the funds to hold
type HoldAllocation struct {
	SellerID string
	Amount   decimal.Decimal
}

// HoldCommand asks for escrow entries for one confirmed payment
type HoldCommand struct {
	PaymentTransactionID string
	OrderID              string
	Currency             string
	Allocations          []HoldAllocation
	AuditNote            *string
}

// ReleaseCommand releases an order's escrow, optionally for a single seller
type ReleaseCommand struct {
	OrderID   string
	SellerID  *string
	AuditNote *string
}

// RefundCommand fully refunds an order's escrow, optionally for a single seller
type RefundCommand struct {
	OrderID  string
	SellerID *string
}

// PartialRefundResult reports the outcome of a partial refund
type PartialRefundResult struct {
	Entry          *EscrowEntry
	AmountRefunded decimal.Decimal
	Remaining      decimal.Decimal
}

// Service handles escrow business logic
type Service struct {
	repo   Repository
	cfg    config.FundsConfig
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewService creates a new escrow service
func NewService(repo Repository, cfg config.FundsConfig, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		nowFn:  time.Now,
	}
}

// Hold creates one Held entry per seller allocation of a confirmed payment
func (s *Service) Hold(ctx context.Context, cmd HoldCommand) ([]*EscrowEntry, error) {
	var violations []string
	if cmd.PaymentTransactionID == "" {
		violations = append(violations, "PaymentTransactionId is required")
	}
	if cmd.OrderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if cmd.Currency == "" {
		violations = append(violations, "Currency is required")
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

	auditNote := fmt.Sprintf(
		"Escrow created on payment confirmation; eligible for payout after %d days.",
		s.cfg.PayoutEligibilityDays)
	if cmd.AuditNote != nil {
		auditNote = *cmd.AuditNote
	}

	now := s.nowFn()
	entries := make([]*EscrowEntry, 0, len(cmd.Allocations))
	for _, alloc := range cmd.Allocations {
		entries = append(entries, &EscrowEntry{
			ID:                   uuid.NewString(),
			OrderID:              cmd.OrderID,
			PaymentTransactionID: cmd.PaymentTransactionID,
			SellerID:             alloc.SellerID,
			Amount:               alloc.Amount,
			RefundedAmount:       decimal.Zero,
			Currency:             cmd.Currency,
			Status:               StatusHeld,
			IsEligibleForPayout:  false,
			AuditNote:            auditNote,
			CreatedAt:            now,
			LastUpdatedAt:        now,
		})
	}

	if err := s.repo.CreateEntries(ctx, entries); err != nil {
		return nil, err
	}

	s.logger.Info("escrow held",
		zap.String("order_id", cmd.OrderID),
		zap.String("payment_transaction_id", cmd.PaymentTransactionID),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// Release moves the selected entries to Released. Any entry that is already
// Released or Refunded fails the whole batch.
func (s *Service) Release(ctx context.Context, cmd ReleaseCommand) ([]*EscrowEntry, error) {
	entries, err := s.selectEntries(ctx, cmd.OrderID, cmd.SellerID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsClosed() {
			return nil, ErrEntryClosed
		}
	}

	now := s.nowFn()
	updates := make([]EntryUpdate, 0, len(entries))
	for _, entry := range entries {
		expected := entry.RefundedAmount
		entry.Status = StatusReleased
		entry.ReleasedAt = &now
		entry.LastUpdatedAt = now
		if cmd.AuditNote != nil {
			entry.AuditNote = *cmd.AuditNote
		}
		updates = append(updates, EntryUpdate{Entry: entry, ExpectedRefunded: expected})
	}

	updated, err := s.repo.UpdateEntries(ctx, updates)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConcurrentModification
	}

	s.logger.Info("escrow released",
		zap.String("order_id", cmd.OrderID),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// RefundFull moves the selected entries to Refunded in full
func (s *Service) RefundFull(ctx context.Context, cmd RefundCommand) ([]*EscrowEntry, error) {
	entries, err := s.selectEntries(ctx, cmd.OrderID, cmd.SellerID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsClosed() {
			return nil, ErrEntryClosed
		}
	}

	now := s.nowFn()
	updates := make([]EntryUpdate, 0, len(entries))
	for _, entry := range entries {
		expected := entry.RefundedAmount
		entry.RefundedAmount = entry.Amount
		entry.Status = StatusRefunded
		entry.RefundedAt = &now
		entry.LastUpdatedAt = now
		updates = append(updates, EntryUpdate{Entry: entry, ExpectedRefunded: expected})
	}

	updated, err := s.repo.UpdateEntries(ctx, updates)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConcurrentModification
	}

	s.logger.Info("escrow refunded in full",
		zap.String("order_id", cmd.OrderID),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// RefundPartial refunds part of a single seller's escrow on an order. The
// entry becomes Refunded once the cumulative refunds reach the held amount.
func (s *Service) RefundPartial(ctx context.Context, orderID, sellerID string, amount decimal.Decimal) (*PartialRefundResult, error) {
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

	entry, err := s.repo.GetByOrderAndSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	if entry.IsClosed() {
		return nil, ErrEntryClosed
	}

	remaining := entry.Remaining()
	if amount.GreaterThan(remaining) {
		return nil, ErrExceedsRemaining
	}

	previousRefunded := entry.RefundedAmount
	now := s.nowFn()

	entry.RefundedAmount = previousRefunded.Add(amount)
	if entry.RefundedAmount.Equal(entry.Amount) {
		entry.Status = StatusRefunded
	} else {
		entry.Status = StatusPartiallyRefunded
	}
	entry.RefundedAt = &now
	entry.LastUpdatedAt = now

	updated, err := s.repo.UpdateRefundFields(ctx, entry, previousRefunded)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrConcurrentModification
	}

	s.logger.Info("escrow partially refunded",
		zap.String("order_id", orderID),
		zap.String("seller_id", sellerID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("remaining", entry.Remaining().StringFixed(2)))

	return &PartialRefundResult{
		Entry:          entry,
		AmountRefunded: amount,
		Remaining:      entry.Remaining(),
	}, nil
}

// GetByOrderID returns all entries for an order
func (s *Service) GetByOrderID(ctx context.Context, orderID string) ([]*EscrowEntry, error) {
	if orderID == "" {
		return nil, apperr.Validation("OrderId is required")
	}
	return s.repo.GetByOrderID(ctx, orderID)
}

// GetEntry returns the single entry for an order/seller pair
func (s *Service) GetEntry(ctx context.Context, orderID, sellerID string) (*EscrowEntry, error) {
	var violations []string
	if orderID == "" {
		violations = append(violations, "OrderId is required")
	}
	if sellerID == "" {
		violations = append(violations, "SellerId is required")
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations...)
	}

	entry, err := s.repo.GetByOrderAndSeller(ctx, orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// GetBySellerID returns a seller's entries, optionally filtered by status
func (s *Service) GetBySellerID(ctx context.Context, sellerID string, status *Status) ([]*EscrowEntry, error) {
	if sellerID == "" {
		return nil, apperr.Validation("SellerId is required")
	}
	return s.repo.GetBySellerID(ctx, sellerID, status)
}

// MarkPayoutEligible flags Held entries older than the configured payout
// eligibility window and returns how many were flagged
func (s *Service) MarkPayoutEligible(ctx context.Context) (int64, error) {
	cutoff := s.nowFn().AddDate(0, 0, -s.cfg.PayoutEligibilityDays)

	flagged, err := s.repo.MarkPayoutEligible(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("escrow payout eligibility swept",
		zap.Time("cutoff", cutoff),
		zap.Int64("flagged", flagged))

	return flagged, nil
}

// selectEntries loads the entries a release or full refund targets
func (s *Service) selectEntries(ctx context.Context, orderID string, sellerID *string) ([]*EscrowEntry, error) {
	if orderID == "" {
		return nil, apperr.Validation("OrderId is required")
	}

	if sellerID != nil {
		entry, err := s.repo.GetByOrderAndSeller(ctx, orderID, *sellerID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, ErrNoEntriesForSeller
		}
		return []*EscrowEntry{entry}, nil
	}

	entries, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntriesForOrder
	}
	return entries, nil
}
