package commission

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketsquare/fundsledger/pkg/apperr"
	"github.com/marketsquare/fundsledger/pkg/response"
)

// Handler handles HTTP requests for commission operations
type Handler struct {
	service *Service
}

// NewHandler creates a new commission handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for commission endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/rules", h.CreateRule)
	r.Get("/rules", h.ListRules)
	r.Get("/rules/{id}", h.GetRule)
	r.Delete("/rules/{id}", h.DeactivateRule)
	r.Get("/records/order/{orderId}", h.GetRecordsByOrder)

	return r
}

// CreateRule handles POST /commissions/rules
// @Summary      Create a commission rule
// @Description  Create a rule scoped to a seller, a category, both, or neither (global)
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        request body CreateRuleRequest true "Rule creation request"
// @Success      201 {object} response.APIResponse{data=RuleResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /commissions/rules [post]
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rule, err := h.service.CreateRule(r.Context(), req.ToCommand())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, rule.ToResponse())
}

// ListRules handles GET /commissions/rules
// @Summary      List commission rules
// @Tags         commissions
// @Produce      json
// @Param        include_inactive query bool false "Include deactivated rules"
// @Success      200 {object} response.APIResponse{data=[]RuleResponse}
// @Router       /commissions/rules [get]
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	rules, err := h.service.ListRules(r.Context(), includeInactive)
	if err != nil {
		h.writeError(w, err)
		return
	}

	responses := make([]*RuleResponse, len(rules))
	for i, rule := range rules {
		responses[i] = rule.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}

// GetRule handles GET /commissions/rules/{id}
// @Summary      Get a commission rule by ID
// @Tags         commissions
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200 {object} response.APIResponse{data=RuleResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /commissions/rules/{id} [get]
func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.service.GetRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rule.ToResponse())
}

// DeactivateRule handles DELETE /commissions/rules/{id}
// @Summary      Deactivate a commission rule
// @Description  Deactivated rules stop matching but stay in place for record history
// @Tags         commissions
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /commissions/rules/{id} [delete]
func (h *Handler) DeactivateRule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRecordsByOrder handles GET /commissions/records/order/{orderId}
// @Summary      Get commission records for an order
// @Tags         commissions
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Success      200 {object} response.APIResponse{data=[]RecordResponse}
// @Router       /commissions/records/order/{orderId} [get]
func (h *Handler) GetRecordsByOrder(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.GetRecordsByOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	responses := make([]*RecordResponse, len(records))
	for i, record := range records {
		responses[i] = record.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}

// writeError maps service errors onto the response envelope
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationFailed(w, validationErr.Messages)
	case errors.Is(err, ErrRuleNotFound), errors.Is(err, ErrRecordNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrRefundExceedsOrder):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrConcurrentModification):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "Commission operation failed")
	}
}
