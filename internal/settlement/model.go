package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a settlement
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusFinalized Status = "FINALIZED"
	StatusExported  Status = "EXPORTED"
	StatusArchived  Status = "ARCHIVED"
)

// Settlement is a seller's monthly statement of sales, refunds, commission
// and net payable. At most one non-archived settlement exists per
// (seller, year, month).
type Settlement struct {
	ID                       string          `json:"id"`
	SellerID                 string          `json:"seller_id"`
	Year                     int             `json:"year"`
	Month                    int             `json:"month"`
	GrossSales               decimal.Decimal `json:"gross_sales"`
	TotalRefunds             decimal.Decimal `json:"total_refunds"`
	NetSales                 decimal.Decimal `json:"net_sales"`
	TotalCommission          decimal.Decimal `json:"total_commission"`
	PreviousMonthAdjustments decimal.Decimal `json:"previous_month_adjustments"`
	NetPayable               decimal.Decimal `json:"net_payable"`
	OrderCount               int             `json:"order_count"`
	Status                   Status          `json:"status"`
	Version                  int             `json:"version"`
	AuditNotes               string          `json:"audit_notes,omitempty"`
	GeneratedAt              time.Time       `json:"generated_at"`
	RegeneratedAt            *time.Time      `json:"regenerated_at,omitempty"`
	FinalizedAt              *time.Time      `json:"finalized_at,omitempty"`
	ExportedAt               *time.Time      `json:"exported_at,omitempty"`

	LineItems []*LineItem `json:"line_items,omitempty"`
}

// LineItem is one order's contribution to a settlement. IsAdjustment marks a
// carry-over row correcting an earlier month's commission because its refund
// was processed in this period.
type LineItem struct {
	ID               string          `json:"id"`
	SettlementID     string          `json:"settlement_id"`
	OrderID          string          `json:"order_id"`
	OrderNumber      string          `json:"order_number"`
	OrderDate        time.Time       `json:"order_date"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	IsAdjustment     bool            `json:"is_adjustment"`
}

// Period returns the half-open UTC time range [from, to) the settlement covers
func (s *Settlement) Period() (time.Time, time.Time) {
	from := time.Date(s.Year, time.Month(s.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
