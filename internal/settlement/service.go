package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/pkg/apperr"
)

var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrSettlementExists   = errors.New("settlement already exists for this period")
	ErrAlreadyFinalized   = errors.New("settlement is already finalized")
	ErrNotRegenerable     = errors.New("cannot regenerate a finalized settlement")
	ErrSettlementArchived = errors.New("settlement is archived")
)

// GenerateCommand identifies the seller period to settle
type GenerateCommand struct {
	SellerID string
	Year     int
	Month    int
}

// Service generates and manages monthly seller settlements. It reads
// commission records directly rather than going through the commission
// service; settlement is a pure aggregation over already-written history.
type Service struct {
	repo    Repository
	records commission.RecordRepository
	logger  *zap.Logger
	nowFn   func() time.Time
}

// NewService creates a new settlement service
func NewService(repo Repository, records commission.RecordRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		records: records,
		logger:  logger,
		nowFn:   time.Now,
	}
}

// Generate builds a new Draft settlement for a seller month. It fails
// when a non-archived settlement already exists for the period.
func (s *Service) Generate(ctx context.Context, cmd GenerateCommand) (*Settlement, error) {
	if err := validatePeriod(cmd.SellerID, cmd.Year, cmd.Month); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBySellerPeriod(ctx, cmd.SellerID, cmd.Year, cmd.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing settlement: %w", err)
	}
	if existing != nil {
		return nil, ErrSettlementExists
	}

	settlement := &Settlement{
		ID:          uuid.New().String(),
		SellerID:    cmd.SellerID,
		Year:        cmd.Year,
		Month:       cmd.Month,
		Status:      StatusDraft,
		Version:     1,
		GeneratedAt: s.nowFn(),
	}
	if err := s.aggregate(ctx, settlement); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	s.logger.Info("settlement generated",
		zap.String("settlement_id", settlement.ID),
		zap.String("seller_id", settlement.SellerID),
		zap.Int("year", settlement.Year),
		zap.Int("month", settlement.Month),
		zap.Int("order_count", settlement.OrderCount),
		zap.String("net_payable", settlement.NetPayable.StringFixed(2)))

	return settlement, nil
}

// Regenerate re-runs the aggregation for a Draft settlement against
// current data, bumping the version and recording the reason.
func (s *Service) Regenerate(ctx context.Context, id, reason string) (*Settlement, error) {
	settlement, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement.Status != StatusDraft {
		return nil, ErrNotRegenerable
	}

	settlement.LineItems = nil
	if err := s.aggregate(ctx, settlement); err != nil {
		return nil, err
	}

	now := s.nowFn()
	settlement.Version++
	settlement.RegeneratedAt = &now
	if reason != "" {
		settlement.AuditNotes = appendNote(settlement.AuditNotes, fmt.Sprintf("Regenerated: %s", reason))
	}

	if err := s.repo.ReplaceLineItems(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to regenerate settlement: %w", err)
	}

	s.logger.Info("settlement regenerated",
		zap.String("settlement_id", settlement.ID),
		zap.Int("version", settlement.Version),
		zap.String("reason", reason))

	return settlement, nil
}

// Finalize moves a Draft settlement to Finalized
func (s *Service) Finalize(ctx context.Context, id string) (*Settlement, error) {
	settlement, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch settlement.Status {
	case StatusDraft:
	case StatusArchived:
		return nil, ErrSettlementArchived
	default:
		return nil, ErrAlreadyFinalized
	}

	now := s.nowFn()
	settlement.Status = StatusFinalized
	settlement.FinalizedAt = &now

	if err := s.repo.Update(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to finalize settlement: %w", err)
	}

	s.logger.Info("settlement finalized", zap.String("settlement_id", settlement.ID))
	return settlement, nil
}

// Export renders the settlement as CSV and marks it Exported. Exporting
// is allowed from any non-archived status.
func (s *Service) Export(ctx context.Context, id string) (*Settlement, []byte, error) {
	settlement, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if settlement.Status == StatusArchived {
		return nil, nil, ErrSettlementArchived
	}

	data, err := WriteCSV(settlement)
	if err != nil {
		return nil, nil, err
	}

	now := s.nowFn()
	settlement.Status = StatusExported
	settlement.ExportedAt = &now

	if err := s.repo.Update(ctx, settlement); err != nil {
		return nil, nil, fmt.Errorf("failed to mark settlement exported: %w", err)
	}

	s.logger.Info("settlement exported", zap.String("settlement_id", settlement.ID))
	return settlement, data, nil
}

// Archive soft-deletes a settlement. Its period becomes available for a
// fresh Generate.
func (s *Service) Archive(ctx context.Context, id string) error {
	settlement, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if settlement.Status == StatusArchived {
		return ErrSettlementArchived
	}

	settlement.Status = StatusArchived
	if err := s.repo.Update(ctx, settlement); err != nil {
		return fmt.Errorf("failed to archive settlement: %w", err)
	}

	s.logger.Info("settlement archived", zap.String("settlement_id", settlement.ID))
	return nil
}

// Get retrieves a settlement with its line items
func (s *Service) Get(ctx context.Context, id string) (*Settlement, error) {
	return s.get(ctx, id)
}

// GetFiltered lists settlements matching the filter
func (s *Service) GetFiltered(ctx context.Context, filter Filter) ([]*Settlement, error) {
	var messages []string
	if filter.Year != nil && (*filter.Year < 2000 || *filter.Year > 2100) {
		messages = append(messages, "Year must be between 2000 and 2100")
	}
	if filter.Month != nil && (*filter.Month < 1 || *filter.Month > 12) {
		messages = append(messages, "Month must be between 1 and 12")
	}
	if len(messages) > 0 {
		return nil, apperr.Validation(messages...)
	}

	settlements, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

func (s *Service) get(ctx context.Context, id string) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// aggregate fills the settlement's totals and line items from the
// seller's commission records. Current-month records feed the sales
// totals; older records whose last refund recalculation falls in the
// period become carry-over adjustment lines.
func (s *Service) aggregate(ctx context.Context, settlement *Settlement) error {
	from, to := settlement.Period()

	current, err := s.records.ListBySellerCalculatedBetween(ctx, settlement.SellerID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load commission records: %w", err)
	}
	carryOver, err := s.records.ListBySellerRefundAdjustedBetween(ctx, settlement.SellerID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load carry-over records: %w", err)
	}

	gross := decimal.Zero
	refunds := decimal.Zero
	totalCommission := decimal.Zero
	for _, record := range current {
		gross = gross.Add(record.OrderAmount)
		refunds = refunds.Add(record.RefundedAmount)
		totalCommission = totalCommission.Add(record.NetCommissionAmount)

		settlement.LineItems = append(settlement.LineItems, &LineItem{
			ID:               uuid.New().String(),
			SettlementID:     settlement.ID,
			OrderID:          record.OrderID,
			OrderNumber:      record.OrderID,
			OrderDate:        record.CalculatedAt,
			GrossAmount:      record.OrderAmount,
			RefundAmount:     record.RefundedAmount,
			NetAmount:        record.OrderAmount.Sub(record.RefundedAmount),
			CommissionAmount: record.NetCommissionAmount,
		})
	}

	adjustments := decimal.Zero
	for _, record := range carryOver {
		// negative when commission was clawed back this period
		delta := record.NetCommissionAmount.Sub(record.CommissionAmount)
		adjustments = adjustments.Add(delta)

		settlement.LineItems = append(settlement.LineItems, &LineItem{
			ID:               uuid.New().String(),
			SettlementID:     settlement.ID,
			OrderID:          record.OrderID,
			OrderNumber:      record.OrderID,
			OrderDate:        record.CalculatedAt,
			GrossAmount:      decimal.Zero,
			RefundAmount:     record.RefundedAmount,
			NetAmount:        delta,
			CommissionAmount: delta,
			IsAdjustment:     true,
		})
	}

	settlement.GrossSales = gross
	settlement.TotalRefunds = refunds
	settlement.NetSales = gross.Sub(refunds)
	settlement.TotalCommission = totalCommission
	settlement.PreviousMonthAdjustments = adjustments
	settlement.NetPayable = settlement.NetSales.Sub(totalCommission).Add(adjustments)
	settlement.OrderCount = len(current)
	return nil
}

func validatePeriod(sellerID string, year, month int) error {
	var messages []string
	if sellerID == "" {
		messages = append(messages, "SellerID is required")
	}
	if year < 2000 || year > 2100 {
		messages = append(messages, "Year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		messages = append(messages, "Month must be between 1 and 12")
	}
	if len(messages) > 0 {
		return apperr.Validation(messages...)
	}
	return nil
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
