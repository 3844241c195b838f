package escrow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService() *Service {
	cfg := config.FundsConfig{PayoutEligibilityDays: 14}
	svc := NewService(NewMemoryRepository(), cfg, zap.NewNop())
	svc.nowFn = func() time.Time { return testNow }
	return svc
}

func holdOrder(t *testing.T, svc *Service, orderID string, allocations ...HoldAllocation) []*EscrowEntry {
	t.Helper()

	entries, err := svc.Hold(context.Background(), HoldCommand{
		PaymentTransactionID: "txn-1",
		OrderID:              orderID,
		Currency:             "USD",
		Allocations:          allocations,
	})
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	return entries
}

func TestHoldCreatesOneHeldEntryPerSeller(t *testing.T) {
	svc := newTestService()

	entries := holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
		HoldAllocation{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
	)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Status != StatusHeld {
			t.Fatalf("expected Held status, got %s", entry.Status)
		}
		if entry.IsEligibleForPayout {
			t.Fatalf("new escrow must not be payout eligible")
		}
		if !entry.RefundedAmount.IsZero() {
			t.Fatalf("new escrow must have zero refunded amount")
		}
		if entry.AuditNote == "" {
			t.Fatalf("expected default audit note")
		}
	}
}

func TestHoldCollectsAllValidationErrors(t *testing.T) {
	svc := newTestService()

	_, err := svc.Hold(context.Background(), HoldCommand{
		Allocations: []HoldAllocation{{SellerID: "", Amount: decimal.NewFromInt(-5)}},
	})

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %v", validationErr.Messages)
	}
}

func TestReleaseMovesEntriesToReleased(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
		HoldAllocation{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
	)

	entries, err := svc.Release(context.Background(), ReleaseCommand{OrderID: "order-1"})
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	for _, entry := range entries {
		if entry.Status != StatusReleased {
			t.Fatalf("expected Released, got %s", entry.Status)
		}
		if entry.ReleasedAt == nil || !entry.ReleasedAt.Equal(testNow) {
			t.Fatalf("expected release timestamp %v, got %v", testNow, entry.ReleasedAt)
		}
	}
}

func TestReleaseFailsWhenAnyEntryClosed(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
		HoldAllocation{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
	)

	sellerA := "seller-a"
	if _, err := svc.RefundFull(context.Background(), RefundCommand{OrderID: "order-1", SellerID: &sellerA}); err != nil {
		t.Fatalf("RefundFull: %v", err)
	}

	_, err := svc.Release(context.Background(), ReleaseCommand{OrderID: "order-1"})
	if !errors.Is(err, ErrEntryClosed) {
		t.Fatalf("expected ErrEntryClosed, got %v", err)
	}
}

// readHookRepository wraps a repository and runs a hook after each order-wide
// read, letting tests commit a competing write between a read and its update
type readHookRepository struct {
	Repository
	afterRead func()
}

func (r *readHookRepository) GetByOrderID(ctx context.Context, orderID string) ([]*EscrowEntry, error) {
	entries, err := r.Repository.GetByOrderID(ctx, orderID)
	if r.afterRead != nil {
		r.afterRead()
	}
	return entries, err
}

func newRacingService() (*Service, *readHookRepository) {
	repo := &readHookRepository{Repository: NewMemoryRepository()}
	svc := NewService(repo, config.FundsConfig{PayoutEligibilityDays: 14}, zap.NewNop())
	svc.nowFn = func() time.Time { return testNow }
	return svc, repo
}

func TestReleaseRejectsWhenPartialRefundCommitsConcurrently(t *testing.T) {
	svc, repo := newRacingService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)

	// A $30 partial refund commits between Release's read and its write
	raced := false
	repo.afterRead = func() {
		if raced {
			return
		}
		raced = true
		if _, err := svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(30)); err != nil {
			t.Fatalf("RefundPartial: %v", err)
		}
	}

	_, err := svc.Release(context.Background(), ReleaseCommand{OrderID: "order-1"})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	// The committed refund must survive the lost release
	entry, err := svc.GetEntry(context.Background(), "order-1", "seller-a")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry.Status != StatusPartiallyRefunded {
		t.Fatalf("expected PartiallyRefunded after lost release, got %s", entry.Status)
	}
	if entry.RefundedAmount.StringFixed(2) != "30.00" {
		t.Fatalf("expected refunded amount 30.00, got %s", entry.RefundedAmount.StringFixed(2))
	}
}

func TestRefundFullRejectsWhenPartialRefundCommitsConcurrently(t *testing.T) {
	svc, repo := newRacingService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)

	raced := false
	repo.afterRead = func() {
		if raced {
			return
		}
		raced = true
		if _, err := svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(30)); err != nil {
			t.Fatalf("RefundPartial: %v", err)
		}
	}

	_, err := svc.RefundFull(context.Background(), RefundCommand{OrderID: "order-1"})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	entry, err := svc.GetEntry(context.Background(), "order-1", "seller-a")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if entry.RefundedAmount.StringFixed(2) != "30.00" {
		t.Fatalf("expected refunded amount 30.00, got %s", entry.RefundedAmount.StringFixed(2))
	}
}

func TestRefundFullRefundsEverything(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)

	entries, err := svc.RefundFull(context.Background(), RefundCommand{OrderID: "order-1"})
	if err != nil {
		t.Fatalf("RefundFull: %v", err)
	}
	entry := entries[0]
	if entry.Status != StatusRefunded {
		t.Fatalf("expected Refunded, got %s", entry.Status)
	}
	if !entry.RefundedAmount.Equal(entry.Amount) {
		t.Fatalf("expected fully refunded amount")
	}
	if !entry.Remaining().IsZero() {
		t.Fatalf("expected zero remaining, got %s", entry.Remaining())
	}
}

func TestPartialRefundTracksRemaining(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)

	result, err := svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(80))
	if err != nil {
		t.Fatalf("RefundPartial: %v", err)
	}
	if result.Entry.Status != StatusPartiallyRefunded {
		t.Fatalf("expected PartiallyRefunded, got %s", result.Entry.Status)
	}
	if result.Remaining.StringFixed(2) != "20.00" {
		t.Fatalf("expected 20.00 remaining, got %s", result.Remaining.StringFixed(2))
	}

	// Only $20 remains, so $30 must be rejected
	_, err = svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(30))
	if !errors.Is(err, ErrExceedsRemaining) {
		t.Fatalf("expected ErrExceedsRemaining, got %v", err)
	}
}

func TestPartialRefundReachingFullAmountClosesEntry(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-1",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)

	if _, err := svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(60)); err != nil {
		t.Fatalf("first RefundPartial: %v", err)
	}
	result, err := svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("second RefundPartial: %v", err)
	}
	if result.Entry.Status != StatusRefunded {
		t.Fatalf("expected Refunded once cumulative refunds reach the held amount, got %s", result.Entry.Status)
	}

	_, err = svc.RefundPartial(context.Background(), "order-1", "seller-a", decimal.NewFromInt(1))
	if !errors.Is(err, ErrEntryClosed) {
		t.Fatalf("expected ErrEntryClosed, got %v", err)
	}
}

func TestPartialRefundUnknownEntry(t *testing.T) {
	svc := newTestService()

	_, err := svc.RefundPartial(context.Background(), "order-x", "seller-x", decimal.NewFromInt(10))
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestMarkPayoutEligibleFlagsOldHeldEntries(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-old",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)

	// Move the clock past the eligibility window; the sweep cutoff is
	// now - PayoutEligibilityDays, so the entry created at testNow falls
	// before it
	svc.nowFn = func() time.Time { return testNow.AddDate(0, 0, 15) }

	flagged, err := svc.MarkPayoutEligible(context.Background())
	if err != nil {
		t.Fatalf("MarkPayoutEligible: %v", err)
	}
	if flagged != 1 {
		t.Fatalf("expected 1 flagged entry, got %d", flagged)
	}

	entry, err := svc.GetEntry(context.Background(), "order-old", "seller-a")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if !entry.IsEligibleForPayout {
		t.Fatalf("expected entry to be payout eligible after sweep")
	}
}

func TestMarkPayoutEligibleSkipsRecentAndClosedEntries(t *testing.T) {
	svc := newTestService()
	holdOrder(t, svc, "order-recent",
		HoldAllocation{SellerID: "seller-a", Amount: decimal.NewFromInt(100)},
	)
	holdOrder(t, svc, "order-refunded",
		HoldAllocation{SellerID: "seller-b", Amount: decimal.NewFromInt(50)},
	)
	if _, err := svc.RefundFull(context.Background(), RefundCommand{OrderID: "order-refunded"}); err != nil {
		t.Fatalf("RefundFull: %v", err)
	}

	svc.nowFn = func() time.Time { return testNow.AddDate(0, 0, 5) }

	flagged, err := svc.MarkPayoutEligible(context.Background())
	if err != nil {
		t.Fatalf("MarkPayoutEligible: %v", err)
	}
	if flagged != 0 {
		t.Fatalf("expected no flagged entries, got %d", flagged)
	}
}
