package escrow

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketsquare/fundsledger/pkg/apperr"
	"github.com/marketsquare/fundsledger/pkg/response"
)

// Handler handles HTTP requests for escrow operations
type Handler struct {
	service *Service
}

// NewHandler creates a new escrow handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for escrow endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/orders/{orderId}/release", h.Release)
	r.Post("/orders/{orderId}/refund", h.Refund)
	r.Post("/orders/{orderId}/sellers/{sellerId}/partial-refund", h.PartialRefund)
	r.Get("/orders/{orderId}", h.GetByOrder)
	r.Get("/sellers/{sellerId}", h.GetBySeller)
	r.Post("/payout-eligibility/sweep", h.SweepPayoutEligibility)

	return r
}

// Release handles POST /escrow/orders/{orderId}/release
// @Summary      Release an order's escrow
// @Description  Releases all entries for the order, or one seller's entry when seller_id is given
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Param        request body ReleaseRequest false "Release options"
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /escrow/orders/{orderId}/release [post]
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	var req ReleaseRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	entries, err := h.service.Release(r.Context(), ReleaseCommand{
		OrderID:   chi.URLParam(r, "orderId"),
		SellerID:  req.SellerID,
		AuditNote: req.AuditNote,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toEntryResponses(entries))
}

// Refund handles POST /escrow/orders/{orderId}/refund
// @Summary      Fully refund an order's escrow
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Param        request body RefundRequest false "Refund options"
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /escrow/orders/{orderId}/refund [post]
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	entries, err := h.service.RefundFull(r.Context(), RefundCommand{
		OrderID:  chi.URLParam(r, "orderId"),
		SellerID: req.SellerID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toEntryResponses(entries))
}

// PartialRefund handles POST /escrow/orders/{orderId}/sellers/{sellerId}/partial-refund
// @Summary      Partially refund one seller's escrow on an order
// @Tags         escrow
// @Accept       json
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Param        sellerId path string true "Seller ID"
// @Param        request body PartialRefundRequest true "Refund amount"
// @Success      200 {object} response.APIResponse{data=PartialRefundResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /escrow/orders/{orderId}/sellers/{sellerId}/partial-refund [post]
func (h *Handler) PartialRefund(w http.ResponseWriter, r *http.Request) {
	var req PartialRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.RefundPartial(r.Context(),
		chi.URLParam(r, "orderId"), chi.URLParam(r, "sellerId"), req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// GetByOrder handles GET /escrow/orders/{orderId}
// @Summary      Get escrow entries for an order
// @Tags         escrow
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Router       /escrow/orders/{orderId} [get]
func (h *Handler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetByOrderID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toEntryResponses(entries))
}

// GetBySeller handles GET /escrow/sellers/{sellerId}
// @Summary      Get escrow entries for a seller
// @Tags         escrow
// @Produce      json
// @Param        sellerId path string true "Seller ID"
// @Param        status query string false "Filter by status" Enums(HELD, RELEASED, PARTIALLY_REFUNDED, REFUNDED)
// @Success      200 {object} response.APIResponse{data=[]EntryResponse}
// @Router       /escrow/sellers/{sellerId} [get]
func (h *Handler) GetBySeller(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := Status(raw)
		switch parsed {
		case StatusHeld, StatusReleased, StatusPartiallyRefunded, StatusRefunded:
			status = &parsed
		default:
			response.BadRequest(w, "Invalid status filter")
			return
		}
	}

	entries, err := h.service.GetBySellerID(r.Context(), chi.URLParam(r, "sellerId"), status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toEntryResponses(entries))
}

// SweepPayoutEligibility handles POST /escrow/payout-eligibility/sweep
// @Summary      Flag held escrow past the payout eligibility window
// @Tags         escrow
// @Produce      json
// @Success      200 {object} response.APIResponse{data=SweepResponse}
// @Router       /escrow/payout-eligibility/sweep [post]
func (h *Handler) SweepPayoutEligibility(w http.ResponseWriter, r *http.Request) {
	flagged, err := h.service.MarkPayoutEligible(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, &SweepResponse{Flagged: flagged})
}

func toEntryResponses(entries []*EscrowEntry) []*EntryResponse {
	responses := make([]*EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = entry.ToResponse()
	}
	return responses
}

// writeError maps service errors onto the response envelope
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationFailed(w, validationErr.Messages)
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrNoEntriesForOrder), errors.Is(err, ErrNoEntriesForSeller):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrEntryClosed), errors.Is(err, ErrExceedsRemaining):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrConcurrentModification):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "Escrow operation failed")
	}
}
