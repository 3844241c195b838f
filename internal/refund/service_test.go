package refund

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/internal/escrow"
)

type failingProvider struct {
	err error
}

func (p failingProvider) RefundPayment(ctx context.Context, paymentTransactionID string, amount decimal.Decimal) error {
	return p.err
}

func testConfig() config.FundsConfig {
	return config.FundsConfig{
		DefaultCommissionRate:     decimal.NewFromInt(10),
		PayoutEligibilityDays:     14,
		SellerRefundWindowDays:    30,
		AllowSellerPartialRefunds: true,
		MaxSellerRefundPercentage: decimal.NewFromInt(50),
	}
}

func newHarness(t *testing.T, cfg config.FundsConfig, provider PaymentProvider) (*Service, *escrow.Service, *MemoryRepository) {
	t.Helper()

	logger := zap.NewNop()
	commissionSvc := commission.NewService(commission.NewMemoryRepository(), cfg, logger)
	escrowSvc := escrow.NewService(escrow.NewMemoryRepository(), cfg, logger)

	repo := NewMemoryRepository()
	svc := NewService(repo, escrowSvc, commissionSvc, provider, cfg, logger)
	return svc, escrowSvc, repo
}

// seedOrder confirms a two-seller payment: seller-a $100, seller-b $50,
// with commission at the default 10%
func seedOrder(t *testing.T, svc *Service, orderID string) {
	t.Helper()

	_, err := svc.commission.Calculate(context.Background(), commission.CalculateCommand{
		PaymentTransactionID: "txn-1",
		OrderID:              orderID,
		Allocations: []commission.Allocation{
			{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
			{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
		},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	_, err = svc.escrow.Hold(context.Background(), escrow.HoldCommand{
		PaymentTransactionID: "txn-1",
		OrderID:              orderID,
		Currency:             "USD",
		Allocations: []escrow.HoldAllocation{
			{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
			{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
		},
	})
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
}

func fullRefundCommand(orderID string) FullRefundCommand {
	return FullRefundCommand{
		OrderID:              orderID,
		PaymentTransactionID: "txn-1",
		Reason:               "buyer cancelled",
		InitiatedBy:          InitiatedBy{UserID: "admin-1", Role: "Admin"},
	}
}

func TestProcessFullRefundRefundsAllSellers(t *testing.T) {
	svc, escrowSvc, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	result, err := svc.ProcessFullRefund(context.Background(), fullRefundCommand("order-1"))
	if err != nil {
		t.Fatalf("ProcessFullRefund: %v", err)
	}

	if result.EscrowRefunded.StringFixed(2) != "150.00" {
		t.Fatalf("expected 150.00 escrow refunded, got %s", result.EscrowRefunded.StringFixed(2))
	}
	if result.CommissionRefunded.StringFixed(2) != "15.00" {
		t.Fatalf("expected 15.00 commission refunded, got %s", result.CommissionRefunded.StringFixed(2))
	}
	if result.Refund.Type != TypeFull || result.Refund.Status != StatusCompleted {
		t.Fatalf("expected completed full refund, got %s/%s", result.Refund.Type, result.Refund.Status)
	}
	if result.Refund.SellerID != nil {
		t.Fatalf("full refund must span all sellers")
	}

	entries, err := escrowSvc.GetByOrderID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	for _, entry := range entries {
		if entry.Status != escrow.StatusRefunded {
			t.Fatalf("expected entry refunded, got %s", entry.Status)
		}
	}
}

func TestProcessFullRefundSkipsClosedSellers(t *testing.T) {
	svc, escrowSvc, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	sellerB := "seller-b"
	if _, err := escrowSvc.Release(context.Background(), escrow.ReleaseCommand{OrderID: "order-1", SellerID: &sellerB}); err != nil {
		t.Fatalf("Release: %v", err)
	}

	result, err := svc.ProcessFullRefund(context.Background(), fullRefundCommand("order-1"))
	if err != nil {
		t.Fatalf("ProcessFullRefund: %v", err)
	}
	if result.EscrowRefunded.StringFixed(2) != "100.00" {
		t.Fatalf("expected only seller-a's 100.00 refunded, got %s", result.EscrowRefunded.StringFixed(2))
	}

	entry, err := escrowSvc.GetEntry(context.Background(), "order-1", "seller-b")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry.Status != escrow.StatusReleased {
		t.Fatalf("released entry must stay released, got %s", entry.Status)
	}
}

func TestProcessFullRefundWithNothingLeft(t *testing.T) {
	svc, _, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	if _, err := svc.ProcessFullRefund(context.Background(), fullRefundCommand("order-1")); err != nil {
		t.Fatalf("first ProcessFullRefund: %v", err)
	}

	_, err := svc.ProcessFullRefund(context.Background(), fullRefundCommand("order-1"))
	if !errors.Is(err, ErrNoFundsAvailable) {
		t.Fatalf("expected ErrNoFundsAvailable, got %v", err)
	}
}

func TestProcessPartialRefundClawsBackCommission(t *testing.T) {
	svc, escrowSvc, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	result, err := svc.ProcessPartialRefund(context.Background(), PartialRefundCommand{
		OrderID:              "order-1",
		PaymentTransactionID: "txn-1",
		SellerID:             "seller-a",
		Amount:               decimal.NewFromInt(25),
		Reason:               "damaged item",
		InitiatedBy:          InitiatedBy{UserID: "seller-a", Role: "Seller"},
	})
	if err != nil {
		t.Fatalf("ProcessPartialRefund: %v", err)
	}

	if result.EscrowRefunded.StringFixed(2) != "25.00" {
		t.Fatalf("expected 25.00 escrow refunded, got %s", result.EscrowRefunded.StringFixed(2))
	}
	// 10% commission on the $25 refunded slice
	if result.CommissionRefunded.StringFixed(2) != "2.50" {
		t.Fatalf("expected 2.50 commission clawed back, got %s", result.CommissionRefunded.StringFixed(2))
	}
	if result.Refund.Type != TypePartial || result.Refund.SellerID == nil {
		t.Fatalf("expected seller-scoped partial refund record")
	}

	entry, err := escrowSvc.GetEntry(context.Background(), "order-1", "seller-a")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry.Status != escrow.StatusPartiallyRefunded {
		t.Fatalf("expected PartiallyRefunded, got %s", entry.Status)
	}
}

func TestProcessPartialRefundExceedingBalance(t *testing.T) {
	svc, _, repo := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	_, err := svc.ProcessPartialRefund(context.Background(), PartialRefundCommand{
		OrderID:              "order-1",
		PaymentTransactionID: "txn-1",
		SellerID:             "seller-a",
		Amount:               decimal.NewFromInt(120),
		Reason:               "damaged item",
		InitiatedBy:          InitiatedBy{UserID: "admin-1", Role: "Admin"},
	})
	if !errors.Is(err, ErrExceedsAvailableBalance) {
		t.Fatalf("expected ErrExceedsAvailableBalance, got %v", err)
	}

	// The pre-check fires before anything is written
	records, err := repo.GetByOrderID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no refund records, got %d", len(records))
	}
}

func TestProviderFailureIsSurfacedOnResult(t *testing.T) {
	provider := failingProvider{err: errors.New("gateway timeout")}
	svc, escrowSvc, _ := newHarness(t, testConfig(), provider)
	seedOrder(t, svc, "order-1")

	result, err := svc.ProcessFullRefund(context.Background(), fullRefundCommand("order-1"))
	if err != nil {
		t.Fatalf("provider failures must not come back on the error channel, got %v", err)
	}
	if !result.HasProviderErrors {
		t.Fatalf("expected HasProviderErrors")
	}
	if result.ProviderErrorMessage != "gateway timeout" {
		t.Fatalf("expected provider message, got %q", result.ProviderErrorMessage)
	}
	if result.Refund.Status != StatusFailed {
		t.Fatalf("expected Failed refund record, got %s", result.Refund.Status)
	}

	// The escrow step committed before the provider call and stays committed
	entry, err := escrowSvc.GetEntry(context.Background(), "order-1", "seller-a")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry.Status != escrow.StatusRefunded {
		t.Fatalf("expected committed escrow refund, got %s", entry.Status)
	}
}

func TestEligibilityReleasedOrder(t *testing.T) {
	svc, escrowSvc, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	if _, err := escrowSvc.Release(context.Background(), escrow.ReleaseCommand{OrderID: "order-1"}); err != nil {
		t.Fatalf("Release: %v", err)
	}

	result, err := svc.CheckSellerRefundEligibility(context.Background(), "order-1", "seller-a", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CheckSellerRefundEligibility: %v", err)
	}
	if result.IsEligible || result.IneligibilityReason != ReasonAlreadyReleased {
		t.Fatalf("expected %q, got %+v", ReasonAlreadyReleased, result)
	}
}

func TestEligibilitySellerRefundsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AllowSellerPartialRefunds = false
	svc, _, _ := newHarness(t, cfg, nil)
	seedOrder(t, svc, "order-1")

	result, err := svc.CheckSellerRefundEligibility(context.Background(), "order-1", "seller-a", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CheckSellerRefundEligibility: %v", err)
	}
	if result.IsEligible || result.IneligibilityReason != ReasonSellerRefundsDisabled {
		t.Fatalf("expected %q, got %+v", ReasonSellerRefundsDisabled, result)
	}
}

func TestEligibilityExpiredWindow(t *testing.T) {
	svc, _, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	svc.nowFn = func() time.Time { return time.Now().AddDate(0, 0, 31) }

	result, err := svc.CheckSellerRefundEligibility(context.Background(), "order-1", "seller-a", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CheckSellerRefundEligibility: %v", err)
	}
	if result.IsEligible || result.IneligibilityReason != ReasonExpiredWindow {
		t.Fatalf("expected %q, got %+v", ReasonExpiredWindow, result)
	}
}

func TestEligibilityCapsCumulativeRefunds(t *testing.T) {
	svc, _, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	// seller-a holds $100; the 50% cap allows at most $50 in total
	result, err := svc.CheckSellerRefundEligibility(context.Background(), "order-1", "seller-a", decimal.NewFromInt(60))
	if err != nil {
		t.Fatalf("CheckSellerRefundEligibility: %v", err)
	}
	if result.IsEligible || result.IneligibilityReason != ReasonExceedsMaxRefundable {
		t.Fatalf("expected %q, got %+v", ReasonExceedsMaxRefundable, result)
	}
}

func TestEligibilityEligibleSeller(t *testing.T) {
	svc, _, _ := newHarness(t, testConfig(), nil)
	seedOrder(t, svc, "order-1")

	result, err := svc.CheckSellerRefundEligibility(context.Background(), "order-1", "seller-a", decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("CheckSellerRefundEligibility: %v", err)
	}
	if !result.IsEligible {
		t.Fatalf("expected eligible seller, got %+v", result)
	}
	if result.MaxRefundableAmount.StringFixed(2) != "100.00" {
		t.Fatalf("expected remaining balance 100.00, got %s", result.MaxRefundableAmount.StringFixed(2))
	}
}

func TestEligibilityUnknownEntry(t *testing.T) {
	svc, _, _ := newHarness(t, testConfig(), nil)

	_, err := svc.CheckSellerRefundEligibility(context.Background(), "order-x", "seller-x", decimal.NewFromInt(10))
	if !errors.Is(err, escrow.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
