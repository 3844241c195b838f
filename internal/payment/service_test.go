package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/internal/escrow"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

func newTestService() (*Service, *commission.Service, *escrow.Service) {
	cfg := config.FundsConfig{
		DefaultCommissionRate: decimal.NewFromInt(10),
		PayoutEligibilityDays: 14,
	}
	logger := zap.NewNop()
	commissionSvc := commission.NewService(commission.NewMemoryRepository(), cfg, logger)
	escrowSvc := escrow.NewService(escrow.NewMemoryRepository(), cfg, logger)
	return NewService(commissionSvc, escrowSvc, logger), commissionSvc, escrowSvc
}

func TestConfirmPaymentFansOutToCommissionAndEscrow(t *testing.T) {
	svc, commissionSvc, escrowSvc := newTestService()

	result, err := svc.ConfirmPayment(context.Background(), ConfirmCommand{
		PaymentTransactionID: "txn-1",
		OrderID:              "order-1",
		Currency:             "USD",
		Allocations: []SellerAllocation{
			{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
			{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
		},
	})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	if len(result.Records) != 2 || len(result.Entries) != 2 {
		t.Fatalf("expected 2 records and 2 entries, got %d/%d", len(result.Records), len(result.Entries))
	}

	records, err := commissionSvc.GetRecordsByOrder(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("GetRecordsByOrder: %v", err)
	}
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.CommissionAmount)
	}
	if total.StringFixed(2) != "15.00" {
		t.Fatalf("expected 15.00 total commission at the default rate, got %s", total.StringFixed(2))
	}

	entries, err := escrowSvc.GetByOrderID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	for _, entry := range entries {
		if entry.Status != escrow.StatusHeld {
			t.Fatalf("expected Held escrow, got %s", entry.Status)
		}
		if entry.IsEligibleForPayout {
			t.Fatalf("fresh escrow must not be payout eligible")
		}
	}
}

func TestConfirmPaymentCollectsValidationErrors(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ConfirmPayment(context.Background(), ConfirmCommand{})

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %v", validationErr.Messages)
	}
}
