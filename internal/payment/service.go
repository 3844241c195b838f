// Package payment reacts to confirmed marketplace payments. Confirmation
// fans out to the commission engine and the escrow ledger so the two
// stay in step for every order.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/internal/escrow"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

// SellerAllocation is one seller's share of a confirmed payment
type SellerAllocation struct {
	SellerID   string
	Amount     decimal.Decimal
	CategoryID *string
}

// ConfirmCommand describes a confirmed payment ready for fund tracking
type ConfirmCommand struct {
	PaymentTransactionID string
	OrderID              string
	Currency             string
	Allocations          []SellerAllocation
}

// ConfirmResult carries everything the fan-out produced
type ConfirmResult struct {
	Records []*commission.CommissionRecord
	Entries []*escrow.EscrowEntry
}

// Service coordinates the post-payment fan-out
type Service struct {
	commission *commission.Service
	escrow     *escrow.Service
	logger     *zap.Logger
}

// NewService creates a new payment service
func NewService(commissionSvc *commission.Service, escrowSvc *escrow.Service, logger *zap.Logger) *Service {
	return &Service{
		commission: commissionSvc,
		escrow:     escrowSvc,
		logger:     logger,
	}
}

// ConfirmPayment records commission and holds escrow for a confirmed
// payment. Commission runs first; if it succeeds but escrow fails the
// error is returned and the commission records remain, mirroring how
// downstream refund steps treat committed sub-steps.
func (s *Service) ConfirmPayment(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error) {
	if err := validateConfirm(cmd); err != nil {
		return nil, err
	}

	commissionAllocations := make([]commission.Allocation, len(cmd.Allocations))
	escrowAllocations := make([]escrow.HoldAllocation, len(cmd.Allocations))
	for i, alloc := range cmd.Allocations {
		commissionAllocations[i] = commission.Allocation{
			SellerID:   alloc.SellerID,
			Amount:     alloc.Amount,
			CategoryID: alloc.CategoryID,
		}
		escrowAllocations[i] = escrow.HoldAllocation{
			SellerID: alloc.SellerID,
			Amount:   alloc.Amount,
		}
	}

	records, err := s.commission.Calculate(ctx, commission.CalculateCommand{
		PaymentTransactionID: cmd.PaymentTransactionID,
		OrderID:              cmd.OrderID,
		Allocations:          commissionAllocations,
	})
	if err != nil {
		return nil, err
	}

	entries, err := s.escrow.Hold(ctx, escrow.HoldCommand{
		PaymentTransactionID: cmd.PaymentTransactionID,
		OrderID:              cmd.OrderID,
		Currency:             cmd.Currency,
		Allocations:          escrowAllocations,
	})
	if err != nil {
		s.logger.Error("escrow hold failed after commission calculation",
			zap.String("order_id", cmd.OrderID),
			zap.String("payment_transaction_id", cmd.PaymentTransactionID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment confirmed",
		zap.String("order_id", cmd.OrderID),
		zap.String("payment_transaction_id", cmd.PaymentTransactionID),
		zap.Int("sellers", len(cmd.Allocations)))

	return &ConfirmResult{Records: records, Entries: entries}, nil
}

func validateConfirm(cmd ConfirmCommand) error {
	var messages []string
	if cmd.PaymentTransactionID == "" {
		messages = append(messages, "PaymentTransactionId is required")
	}
	if cmd.OrderID == "" {
		messages = append(messages, "OrderId is required")
	}
	if cmd.Currency == "" {
		messages = append(messages, "Currency is required")
	}
	if len(cmd.Allocations) == 0 {
		messages = append(messages, "At least one seller allocation is required")
	}
	if len(messages) > 0 {
		return apperr.Validation(messages...)
	}
	return nil
}
