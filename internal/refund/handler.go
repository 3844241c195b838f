package refund

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/marketsquare/fundsledger/internal/escrow"
	"github.com/marketsquare/fundsledger/pkg/apperr"
	"github.com/marketsquare/fundsledger/pkg/middleware"
	"github.com/marketsquare/fundsledger/pkg/response"
	"github.com/marketsquare/fundsledger/pkg/validation"
)

// Handler handles HTTP requests for refund operations
type Handler struct {
	service *Service
}

// NewHandler creates a new refund handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for refund endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/full", h.ProcessFull)
	r.Post("/partial", h.ProcessPartial)
	r.Get("/eligibility", h.CheckEligibility)
	r.Get("/order/{orderId}", h.GetByOrder)
	r.Get("/{id}", h.GetByID)

	return r
}

// ProcessFull handles POST /refunds/full
// @Summary      Refund a whole order
// @Description  Refunds every seller's remaining escrow and claws back commission proportionally
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Param        request body FullRefundRequest true "Full refund request"
// @Success      200 {object} response.APIResponse{data=ResultResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /refunds/full [post]
func (h *Handler) ProcessFull(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing actor identity")
		return
	}

	var req FullRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if messages := validation.Struct(&req); messages != nil {
		response.ValidationFailed(w, messages)
		return
	}

	result, err := h.service.ProcessFullRefund(r.Context(), FullRefundCommand{
		OrderID:              req.OrderID,
		PaymentTransactionID: req.PaymentTransactionID,
		Reason:               req.Reason,
		InitiatedBy:          InitiatedBy{UserID: actor.UserID, Role: actor.Role},
		AuditNote:            req.AuditNote,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if result.HasProviderErrors {
		response.ProviderError(w, result.ProviderErrorMessage)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// ProcessPartial handles POST /refunds/partial
// @Summary      Refund part of one seller's funds on an order
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Param        request body PartialRefundRequest true "Partial refund request"
// @Success      200 {object} response.APIResponse{data=ResultResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /refunds/partial [post]
func (h *Handler) ProcessPartial(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing actor identity")
		return
	}

	var req PartialRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if messages := validation.Struct(&req); messages != nil {
		response.ValidationFailed(w, messages)
		return
	}

	result, err := h.service.ProcessPartialRefund(r.Context(), PartialRefundCommand{
		OrderID:              req.OrderID,
		PaymentTransactionID: req.PaymentTransactionID,
		SellerID:             req.SellerID,
		Amount:               req.Amount,
		Reason:               req.Reason,
		InitiatedBy:          InitiatedBy{UserID: actor.UserID, Role: actor.Role},
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if result.HasProviderErrors {
		response.ProviderError(w, result.ProviderErrorMessage)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// CheckEligibility handles GET /refunds/eligibility
// @Summary      Check seller self-service refund eligibility
// @Tags         refunds
// @Produce      json
// @Param        order_id query string true "Order ID"
// @Param        seller_id query string true "Seller ID"
// @Param        amount query string true "Requested refund amount"
// @Success      200 {object} response.APIResponse{data=EligibilityResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /refunds/eligibility [get]
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil {
		response.BadRequest(w, "Invalid amount")
		return
	}

	result, err := h.service.CheckSellerRefundEligibility(r.Context(),
		query.Get("order_id"), query.Get("seller_id"), amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// GetByOrder handles GET /refunds/order/{orderId}
// @Summary      List refunds for an order
// @Tags         refunds
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Success      200 {object} response.APIResponse{data=[]RefundResponse}
// @Router       /refunds/order/{orderId} [get]
func (h *Handler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	refunds, err := h.service.GetByOrderID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	responses := make([]*RefundResponse, len(refunds))
	for i, record := range refunds {
		responses[i] = record.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}

// GetByID handles GET /refunds/{id}
// @Summary      Get a refund by ID
// @Tags         refunds
// @Produce      json
// @Param        id path string true "Refund ID"
// @Success      200 {object} response.APIResponse{data=RefundResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /refunds/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, record.ToResponse())
}

// writeError maps service errors onto the response envelope
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	var providerErr *apperr.ProviderError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationFailed(w, validationErr.Messages)
	case errors.As(err, &providerErr):
		response.ProviderError(w, providerErr.Message)
	case errors.Is(err, ErrRefundNotFound),
		errors.Is(err, escrow.ErrEntryNotFound),
		errors.Is(err, escrow.ErrNoEntriesForOrder),
		errors.Is(err, escrow.ErrNoEntriesForSeller):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNoFundsAvailable),
		errors.Is(err, ErrExceedsAvailableBalance),
		errors.Is(err, escrow.ErrEntryClosed),
		errors.Is(err, escrow.ErrExceedsRemaining):
		response.BadRequest(w, err.Error())
	case errors.Is(err, escrow.ErrConcurrentModification):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "Refund operation failed")
	}
}
