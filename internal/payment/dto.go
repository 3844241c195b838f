package payment

import (
	"github.com/shopspring/decimal"

	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/internal/escrow"
)

type AllocationRequest struct {
	SellerID   string          `json:"seller_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	CategoryID *string         `json:"category_id,omitempty"`
}

type ConfirmRequest struct {
	PaymentTransactionID string              `json:"payment_transaction_id" validate:"required"`
	OrderID              string              `json:"order_id" validate:"required"`
	Currency             string              `json:"currency" validate:"required,len=3"`
	Allocations          []AllocationRequest `json:"allocations" validate:"required,min=1,dive"`
}

func (r ConfirmRequest) ToCommand() ConfirmCommand {
	allocations := make([]SellerAllocation, len(r.Allocations))
	for i, alloc := range r.Allocations {
		allocations[i] = SellerAllocation{
			SellerID:   alloc.SellerID,
			Amount:     alloc.Amount,
			CategoryID: alloc.CategoryID,
		}
	}
	return ConfirmCommand{
		PaymentTransactionID: r.PaymentTransactionID,
		OrderID:              r.OrderID,
		Currency:             r.Currency,
		Allocations:          allocations,
	}
}

type ConfirmResponse struct {
	Records []*commission.RecordResponse `json:"commission_records"`
	Entries []*escrow.EntryResponse      `json:"escrow_entries"`
}

func (r *ConfirmResult) ToResponse() ConfirmResponse {
	resp := ConfirmResponse{
		Records: make([]*commission.RecordResponse, len(r.Records)),
		Entries: make([]*escrow.EntryResponse, len(r.Entries)),
	}
	for i, record := range r.Records {
		resp.Records[i] = record.ToResponse()
	}
	for i, entry := range r.Entries {
		resp.Entries[i] = entry.ToResponse()
	}
	return resp
}
