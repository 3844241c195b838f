package settlement

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

var testNow = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *commission.MemoryRepository) {
	records := commission.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(), records, zap.NewNop())
	svc.nowFn = func() time.Time { return testNow }
	return svc, records
}

type recordSeed struct {
	orderID        string
	orderAmount    int64
	commission     string
	refunded       int64
	calculatedAt   time.Time
	refundAdjusted *time.Time
}

func seedRecord(t *testing.T, records *commission.MemoryRepository, sellerID string, seed recordSeed) {
	t.Helper()

	commissionAmount := decimal.RequireFromString(seed.commission)
	orderAmount := decimal.NewFromInt(seed.orderAmount)
	refunded := decimal.NewFromInt(seed.refunded)
	refundedCommission := decimal.Zero
	if seed.refunded > 0 {
		refundedCommission = commissionAmount.Mul(refunded).Div(orderAmount).Round(2)
	}

	record := &commission.CommissionRecord{
		ID:                       sellerID + "-" + seed.orderID,
		PaymentTransactionID:     "txn-" + seed.orderID,
		OrderID:                  seed.orderID,
		SellerID:                 sellerID,
		OrderAmount:              orderAmount,
		CommissionRate:           decimal.NewFromInt(10),
		CommissionAmount:         commissionAmount,
		RefundedAmount:           refunded,
		RefundedCommissionAmount: refundedCommission,
		NetCommissionAmount:      commissionAmount.Sub(refundedCommission),
		CalculatedAt:             seed.calculatedAt,
		LastRefundRecalculatedAt: seed.refundAdjusted,
		CreatedAt:                seed.calculatedAt,
		LastUpdatedAt:            seed.calculatedAt,
	}
	if err := records.CreateRecords(context.Background(), []*commission.CommissionRecord{record}); err != nil {
		t.Fatalf("CreateRecords: %v", err)
	}
}

func marchCommand() GenerateCommand {
	return GenerateCommand{SellerID: "seller-1", Year: 2024, Month: 3}
}

func TestGenerateComputesMonthlyTotals(t *testing.T) {
	svc, records := newTestService()
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-1", orderAmount: 100, commission: "10", calculatedAt: march,
	})
	adjusted := march.AddDate(0, 0, 5)
	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-2", orderAmount: 200, commission: "20", refunded: 50,
		calculatedAt: march, refundAdjusted: &adjusted,
	})
	// Other sellers never leak into the statement
	seedRecord(t, records, "seller-2", recordSeed{
		orderID: "order-3", orderAmount: 999, commission: "99", calculatedAt: march,
	})

	settlement, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if settlement.Status != StatusDraft || settlement.Version != 1 {
		t.Fatalf("expected Draft v1, got %s v%d", settlement.Status, settlement.Version)
	}
	if settlement.GrossSales.StringFixed(2) != "300.00" {
		t.Fatalf("expected gross 300.00, got %s", settlement.GrossSales.StringFixed(2))
	}
	if settlement.TotalRefunds.StringFixed(2) != "50.00" {
		t.Fatalf("expected refunds 50.00, got %s", settlement.TotalRefunds.StringFixed(2))
	}
	if settlement.NetSales.StringFixed(2) != "250.00" {
		t.Fatalf("expected net sales 250.00, got %s", settlement.NetSales.StringFixed(2))
	}
	// 10.00 + (20.00 - 5.00 refunded commission)
	if settlement.TotalCommission.StringFixed(2) != "25.00" {
		t.Fatalf("expected commission 25.00, got %s", settlement.TotalCommission.StringFixed(2))
	}
	if settlement.OrderCount != 2 || len(settlement.LineItems) != 2 {
		t.Fatalf("expected 2 orders and 2 line items, got %d/%d", settlement.OrderCount, len(settlement.LineItems))
	}

	// NetPayable = NetSales - TotalCommission + PreviousMonthAdjustments
	want := settlement.NetSales.Sub(settlement.TotalCommission).Add(settlement.PreviousMonthAdjustments)
	if !settlement.NetPayable.Equal(want) {
		t.Fatalf("net payable identity broken: %s != %s", settlement.NetPayable, want)
	}
	if settlement.NetPayable.StringFixed(2) != "225.00" {
		t.Fatalf("expected net payable 225.00, got %s", settlement.NetPayable.StringFixed(2))
	}
}

func TestGenerateAddsCarryOverAdjustments(t *testing.T) {
	svc, records := newTestService()
	february := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	marchRefund := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	// February order refunded $25 in March; its commission was 10.00 and
	// is now 7.50, a -2.50 correction against the March statement
	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-feb", orderAmount: 100, commission: "10", refunded: 25,
		calculatedAt: february, refundAdjusted: &marchRefund,
	})

	settlement, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if settlement.OrderCount != 0 {
		t.Fatalf("carry-over must not count as a current order, got %d", settlement.OrderCount)
	}
	if settlement.PreviousMonthAdjustments.StringFixed(2) != "-2.50" {
		t.Fatalf("expected adjustment -2.50, got %s", settlement.PreviousMonthAdjustments.StringFixed(2))
	}
	if settlement.NetPayable.StringFixed(2) != "-2.50" {
		t.Fatalf("expected net payable -2.50, got %s", settlement.NetPayable.StringFixed(2))
	}
	if len(settlement.LineItems) != 1 {
		t.Fatalf("expected 1 adjustment line item, got %d", len(settlement.LineItems))
	}
	item := settlement.LineItems[0]
	if !item.IsAdjustment {
		t.Fatalf("expected adjustment line item")
	}
	if !item.GrossAmount.IsZero() {
		t.Fatalf("adjustment rows carry no gross amount, got %s", item.GrossAmount)
	}
	if item.CommissionAmount.StringFixed(2) != "-2.50" {
		t.Fatalf("expected commission delta -2.50, got %s", item.CommissionAmount.StringFixed(2))
	}
}

func TestGenerateRejectsDuplicatePeriod(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Generate(context.Background(), marchCommand()); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	_, err := svc.Generate(context.Background(), marchCommand())
	if !errors.Is(err, ErrSettlementExists) {
		t.Fatalf("expected ErrSettlementExists, got %v", err)
	}
}

func TestGenerateCollectsAllValidationErrors(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Generate(context.Background(), GenerateCommand{Year: 1999, Month: 13})

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %v", validationErr.Messages)
	}
}

func TestRegenerateIsIdempotentOnUnchangedData(t *testing.T) {
	svc, records := newTestService()
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-1", orderAmount: 100, commission: "10", calculatedAt: march,
	})

	original, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	regenerated, err := svc.Regenerate(context.Background(), original.ID, "audit review")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	if regenerated.Version != 2 {
		t.Fatalf("expected version 2, got %d", regenerated.Version)
	}
	if regenerated.RegeneratedAt == nil {
		t.Fatalf("expected RegeneratedAt to be set")
	}
	if !strings.Contains(regenerated.AuditNotes, "audit review") {
		t.Fatalf("expected reason in audit notes, got %q", regenerated.AuditNotes)
	}
	if !regenerated.NetPayable.Equal(original.NetPayable) ||
		!regenerated.GrossSales.Equal(original.GrossSales) ||
		regenerated.OrderCount != original.OrderCount {
		t.Fatalf("regeneration against unchanged data must reproduce totals")
	}
}

func TestRegeneratePicksUpNewRefunds(t *testing.T) {
	svc, records := newTestService()
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-1", orderAmount: 100, commission: "10", calculatedAt: march,
	})

	original, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// A refund lands after the draft was generated
	adjusted := march.AddDate(0, 0, 10)
	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-1", orderAmount: 100, commission: "10", refunded: 50,
		calculatedAt: march, refundAdjusted: &adjusted,
	})

	regenerated, err := svc.Regenerate(context.Background(), original.ID, "")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if regenerated.TotalRefunds.StringFixed(2) != "50.00" {
		t.Fatalf("expected refreshed refunds 50.00, got %s", regenerated.TotalRefunds.StringFixed(2))
	}
}

func TestRegenerateRejectsFinalizedSettlement(t *testing.T) {
	svc, _ := newTestService()

	settlement, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Finalize(context.Background(), settlement.ID); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	_, err = svc.Regenerate(context.Background(), settlement.ID, "too late")
	if !errors.Is(err, ErrNotRegenerable) {
		t.Fatalf("expected ErrNotRegenerable, got %v", err)
	}
}

func TestFinalizeTwice(t *testing.T) {
	svc, _ := newTestService()

	settlement, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	finalized, err := svc.Finalize(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if finalized.Status != StatusFinalized || finalized.FinalizedAt == nil {
		t.Fatalf("expected Finalized with timestamp, got %+v", finalized)
	}

	_, err = svc.Finalize(context.Background(), settlement.ID)
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
}

func TestExportRendersCSVAndMarksExported(t *testing.T) {
	svc, records := newTestService()
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedRecord(t, records, "seller-1", recordSeed{
		orderID: "order-1", orderAmount: 100, commission: "10", calculatedAt: march,
	})

	settlement, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	exported, data, err := svc.Export(context.Background(), settlement.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported.Status != StatusExported || exported.ExportedAt == nil {
		t.Fatalf("expected Exported with timestamp, got %+v", exported)
	}

	csv := string(data)
	if !strings.Contains(csv, "Net Payable,90.00") {
		t.Fatalf("expected net payable summary row, got:\n%s", csv)
	}
	if !strings.Contains(csv, "order-1,2024-03-10,100.00,0.00,100.00,10.00,false") {
		t.Fatalf("expected line item row, got:\n%s", csv)
	}
	if ExportFilename(exported) != "settlement_seller-1_2024_03.csv" {
		t.Fatalf("unexpected filename %q", ExportFilename(exported))
	}
}

func TestArchiveFreesThePeriod(t *testing.T) {
	svc, _ := newTestService()

	settlement, err := svc.Generate(context.Background(), marchCommand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := svc.Archive(context.Background(), settlement.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if _, err := svc.Generate(context.Background(), marchCommand()); err != nil {
		t.Fatalf("Generate after archive: %v", err)
	}

	if err := svc.Archive(context.Background(), settlement.ID); !errors.Is(err, ErrSettlementArchived) {
		t.Fatalf("expected ErrSettlementArchived, got %v", err)
	}
}

func TestGetFilteredValidatesBounds(t *testing.T) {
	svc, _ := newTestService()
	month := 13

	_, err := svc.GetFiltered(context.Background(), Filter{Month: &month})

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
