package settlement

import "time"

type GenerateRequest struct {
	SellerID string `json:"seller_id" validate:"required"`
	Year     int    `json:"year" validate:"required"`
	Month    int    `json:"month" validate:"required"`
}

func (r GenerateRequest) ToCommand() GenerateCommand {
	return GenerateCommand{
		SellerID: r.SellerID,
		Year:     r.Year,
		Month:    r.Month,
	}
}

type RegenerateRequest struct {
	Reason string `json:"reason"`
}

type SettlementResponse struct {
	ID                       string             `json:"id"`
	SellerID                 string             `json:"seller_id"`
	Year                     int                `json:"year"`
	Month                    int                `json:"month"`
	GrossSales               string             `json:"gross_sales"`
	TotalRefunds             string             `json:"total_refunds"`
	NetSales                 string             `json:"net_sales"`
	TotalCommission          string             `json:"total_commission"`
	PreviousMonthAdjustments string             `json:"previous_month_adjustments"`
	NetPayable               string             `json:"net_payable"`
	OrderCount               int                `json:"order_count"`
	Status                   string             `json:"status"`
	Version                  int                `json:"version"`
	AuditNotes               string             `json:"audit_notes,omitempty"`
	GeneratedAt              time.Time          `json:"generated_at"`
	RegeneratedAt            *time.Time         `json:"regenerated_at,omitempty"`
	FinalizedAt              *time.Time         `json:"finalized_at,omitempty"`
	ExportedAt               *time.Time         `json:"exported_at,omitempty"`
	LineItems                []LineItemResponse `json:"line_items,omitempty"`
}

type LineItemResponse struct {
	ID               string    `json:"id"`
	OrderID          string    `json:"order_id"`
	OrderNumber      string    `json:"order_number"`
	OrderDate        time.Time `json:"order_date"`
	GrossAmount      string    `json:"gross_amount"`
	RefundAmount     string    `json:"refund_amount"`
	NetAmount        string    `json:"net_amount"`
	CommissionAmount string    `json:"commission_amount"`
	IsAdjustment     bool      `json:"is_adjustment"`
}

func (s *Settlement) ToResponse() SettlementResponse {
	resp := SettlementResponse{
		ID:                       s.ID,
		SellerID:                 s.SellerID,
		Year:                     s.Year,
		Month:                    s.Month,
		GrossSales:               s.GrossSales.StringFixed(2),
		TotalRefunds:             s.TotalRefunds.StringFixed(2),
		NetSales:                 s.NetSales.StringFixed(2),
		TotalCommission:          s.TotalCommission.StringFixed(2),
		PreviousMonthAdjustments: s.PreviousMonthAdjustments.StringFixed(2),
		NetPayable:               s.NetPayable.StringFixed(2),
		OrderCount:               s.OrderCount,
		Status:                   string(s.Status),
		Version:                  s.Version,
		AuditNotes:               s.AuditNotes,
		GeneratedAt:              s.GeneratedAt,
		RegeneratedAt:            s.RegeneratedAt,
		FinalizedAt:              s.FinalizedAt,
		ExportedAt:               s.ExportedAt,
	}
	for _, item := range s.LineItems {
		resp.LineItems = append(resp.LineItems, item.ToResponse())
	}
	return resp
}

func (i *LineItem) ToResponse() LineItemResponse {
	return LineItemResponse{
		ID:               i.ID,
		OrderID:          i.OrderID,
		OrderNumber:      i.OrderNumber,
		OrderDate:        i.OrderDate,
		GrossAmount:      i.GrossAmount.StringFixed(2),
		RefundAmount:     i.RefundAmount.StringFixed(2),
		NetAmount:        i.NetAmount.StringFixed(2),
		CommissionAmount: i.CommissionAmount.StringFixed(2),
		IsAdjustment:     i.IsAdjustment,
	}
}
