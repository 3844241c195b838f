package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketsquare/fundsledger/pkg/apperr"
	"github.com/marketsquare/fundsledger/pkg/response"
	"github.com/marketsquare/fundsledger/pkg/validation"
)

// Handler handles HTTP requests for payment confirmations
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for payment endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/confirm", h.Confirm)

	return r
}

// Confirm handles POST /payments/confirm
// @Summary      Confirm a payment
// @Description  Records per-seller commission and holds the seller funds in escrow
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body ConfirmRequest true "Confirmed payment"
// @Success      201 {object} response.APIResponse{data=ConfirmResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /payments/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if messages := validation.Struct(req); len(messages) > 0 {
		response.ValidationFailed(w, messages)
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), req.ToCommand())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}

// writeError maps service errors onto the response envelope
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationFailed(w, validationErr.Messages)
	default:
		response.InternalError(w, "Payment confirmation failed")
	}
}
