package commission

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	cfg := config.FundsConfig{DefaultCommissionRate: decimal.NewFromInt(10)}
	svc := NewService(repo, cfg, zap.NewNop())
	svc.nowFn = func() time.Time { return testNow }
	return svc, repo
}

func calculateOne(t *testing.T, svc *Service, orderID, sellerID string, amount int64) *CommissionRecord {
	t.Helper()

	records, err := svc.Calculate(context.Background(), CalculateCommand{
		PaymentTransactionID: "txn-1",
		OrderID:              orderID,
		Allocations: []Allocation{
			{SellerID: sellerID, Amount: decimal.NewFromInt(amount)},
		},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	return records[0]
}

func TestCalculateUsesDefaultRateWithoutMatchingRule(t *testing.T) {
	svc, _ := newTestService()

	record := calculateOne(t, svc, "order-1", "seller-1", 200)

	if !record.CommissionRate.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected default rate 10, got %s", record.CommissionRate)
	}
	if record.CommissionAmount.StringFixed(2) != "20.00" {
		t.Fatalf("expected commission 20.00, got %s", record.CommissionAmount.StringFixed(2))
	}
	if !record.NetCommissionAmount.Equal(record.CommissionAmount) {
		t.Fatalf("net commission should equal commission before refunds")
	}
	if record.AppliedRuleID != nil {
		t.Fatalf("expected no applied rule, got %q", *record.AppliedRuleID)
	}
	if record.RuleDescription != DefaultRateDescription {
		t.Fatalf("expected default rate description, got %q", record.RuleDescription)
	}
}

func TestCalculateAppliesRuleMinimum(t *testing.T) {
	svc, repo := newTestService()
	seller := "seller-1"
	min := decimal.NewFromInt(10)

	rule := &CommissionRule{
		ID:            "rule-min",
		SellerID:      &seller,
		Rate:          decimal.NewFromInt(5),
		MinCommission: &min,
		IsActive:      true,
		ValidFrom:     testNow.AddDate(-1, 0, 0),
		CreatedAt:     testNow,
	}
	if err := repo.CreateRule(context.Background(), rule); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	// 5% of 100 is 5.00, floored up to the rule minimum
	record := calculateOne(t, svc, "order-1", seller, 100)
	if record.CommissionAmount.StringFixed(2) != "10.00" {
		t.Fatalf("expected floored commission 10.00, got %s", record.CommissionAmount.StringFixed(2))
	}
	if record.AppliedRuleID == nil || *record.AppliedRuleID != rule.ID {
		t.Fatalf("expected applied rule %q, got %v", rule.ID, record.AppliedRuleID)
	}
}

func TestCalculateAppliesRuleMaximum(t *testing.T) {
	svc, repo := newTestService()
	seller := "seller-1"
	max := decimal.NewFromInt(15)

	rule := &CommissionRule{
		ID:            "rule-max",
		SellerID:      &seller,
		Rate:          decimal.NewFromInt(10),
		MaxCommission: &max,
		IsActive:      true,
		ValidFrom:     testNow.AddDate(-1, 0, 0),
		CreatedAt:     testNow,
	}
	if err := repo.CreateRule(context.Background(), rule); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	// 10% of 500 is 50.00, capped at the rule maximum
	record := calculateOne(t, svc, "order-1", seller, 500)
	if record.CommissionAmount.StringFixed(2) != "15.00" {
		t.Fatalf("expected capped commission 15.00, got %s", record.CommissionAmount.StringFixed(2))
	}
}

func TestCalculateCollectsAllValidationErrors(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Calculate(context.Background(), CalculateCommand{
		Allocations: []Allocation{{SellerID: "", Amount: decimal.Zero}},
	})

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d: %v", len(validationErr.Messages), validationErr.Messages)
	}
	if !strings.Contains(validationErr.Messages[2], "Allocation 0") {
		t.Fatalf("expected per-allocation message, got %v", validationErr.Messages)
	}
}

func TestRecalculateRecomputesFromCumulativeTotal(t *testing.T) {
	svc, _ := newTestService()
	calculateOne(t, svc, "order-1", "seller-1", 100)

	first, err := svc.RecalculatePartialRefund(context.Background(), "order-1", "seller-1", decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("RecalculatePartialRefund: %v", err)
	}
	if first.RefundedCommissionAmount.StringFixed(2) != "2.50" {
		t.Fatalf("expected refunded commission 2.50, got %s", first.RefundedCommissionAmount.StringFixed(2))
	}
	if first.NetCommissionAmount.StringFixed(2) != "7.50" {
		t.Fatalf("expected net commission 7.50, got %s", first.NetCommissionAmount.StringFixed(2))
	}

	// The second refund is recomputed against the cumulative $55, not
	// added to the earlier figure
	second, err := svc.RecalculatePartialRefund(context.Background(), "order-1", "seller-1", decimal.NewFromInt(30))
	if err != nil {
		t.Fatalf("RecalculatePartialRefund: %v", err)
	}
	if second.RefundedAmount.StringFixed(2) != "55.00" {
		t.Fatalf("expected cumulative refund 55.00, got %s", second.RefundedAmount.StringFixed(2))
	}
	if second.RefundedCommissionAmount.StringFixed(2) != "5.50" {
		t.Fatalf("expected refunded commission 5.50, got %s", second.RefundedCommissionAmount.StringFixed(2))
	}
	if second.NetCommissionAmount.StringFixed(2) != "4.50" {
		t.Fatalf("expected net commission 4.50, got %s", second.NetCommissionAmount.StringFixed(2))
	}
	if second.LastRefundRecalculatedAt == nil || !second.LastRefundRecalculatedAt.Equal(testNow) {
		t.Fatalf("expected recalculation timestamp %v, got %v", testNow, second.LastRefundRecalculatedAt)
	}
}

func TestRecalculateRejectsRefundBeyondOrderAmount(t *testing.T) {
	svc, _ := newTestService()
	calculateOne(t, svc, "order-1", "seller-1", 100)

	if _, err := svc.RecalculatePartialRefund(context.Background(), "order-1", "seller-1", decimal.NewFromInt(60)); err != nil {
		t.Fatalf("first refund: %v", err)
	}

	_, err := svc.RecalculatePartialRefund(context.Background(), "order-1", "seller-1", decimal.NewFromInt(50))
	if !errors.Is(err, ErrRefundExceedsOrder) {
		t.Fatalf("expected ErrRefundExceedsOrder, got %v", err)
	}
}

func TestRecalculateUnknownRecord(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RecalculatePartialRefund(context.Background(), "order-x", "seller-x", decimal.NewFromInt(10))
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCreateRuleRejectsInvalidBounds(t *testing.T) {
	svc, _ := newTestService()
	min := decimal.NewFromInt(20)
	max := decimal.NewFromInt(10)

	_, err := svc.CreateRule(context.Background(), CreateRuleCommand{
		Rate:          decimal.NewFromInt(150),
		MinCommission: &min,
		MaxCommission: &max,
	})

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %v", validationErr.Messages)
	}
}

func TestDeactivateRuleStopsResolution(t *testing.T) {
	svc, _ := newTestService()
	seller := "seller-1"

	rule, err := svc.CreateRule(context.Background(), CreateRuleCommand{
		SellerID:  &seller,
		Rate:      decimal.NewFromInt(5),
		ValidFrom: testNow.AddDate(-1, 0, 0),
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	if err := svc.DeactivateRule(context.Background(), rule.ID); err != nil {
		t.Fatalf("DeactivateRule: %v", err)
	}

	record := calculateOne(t, svc, "order-1", seller, 100)
	if record.AppliedRuleID != nil {
		t.Fatalf("deactivated rule still applied: %q", *record.AppliedRuleID)
	}
}
