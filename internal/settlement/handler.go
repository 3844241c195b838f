package settlement

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marketsquare/fundsledger/pkg/apperr"
	"github.com/marketsquare/fundsledger/pkg/response"
	"github.com/marketsquare/fundsledger/pkg/validation"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Generate)
	r.Get("/", h.GetFiltered)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/regenerate", h.Regenerate)
	r.Post("/{id}/finalize", h.Finalize)
	r.Get("/{id}/export", h.Export)
	r.Delete("/{id}", h.Archive)

	return r
}

// Generate handles POST /settlements
// @Summary      Generate a monthly settlement
// @Description  Aggregate a seller's commission records for the month into a Draft settlement
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body GenerateRequest true "Settlement period"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if messages := validation.Struct(req); len(messages) > 0 {
		response.ValidationFailed(w, messages)
		return
	}

	settlement, err := h.service.Generate(r.Context(), req.ToCommand())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// GetFiltered handles GET /settlements
// @Summary      List settlements
// @Tags         settlements
// @Produce      json
// @Param        seller_id query string false "Seller ID"
// @Param        year query int false "Year"
// @Param        month query int false "Month"
// @Param        status query string false "Settlement status"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements [get]
func (h *Handler) GetFiltered(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	settlements, svcErr := h.service.GetFiltered(r.Context(), filter)
	if svcErr != nil {
		h.writeError(w, svcErr)
		return
	}

	responses := make([]SettlementResponse, len(settlements))
	for i, settlement := range settlements {
		responses[i] = settlement.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}

// Get handles GET /settlements/{id}
// @Summary      Get a settlement with its line items
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Regenerate handles POST /settlements/{id}/regenerate
// @Summary      Regenerate a Draft settlement
// @Description  Re-run the aggregation against current data and bump the version
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Param        request body RegenerateRequest false "Regeneration reason"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/regenerate [post]
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	settlement, err := h.service.Regenerate(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Finalize handles POST /settlements/{id}/finalize
// @Summary      Finalize a Draft settlement
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/finalize [post]
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.service.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Export handles GET /settlements/{id}/export
// @Summary      Export a settlement as CSV
// @Description  Renders the statement as CSV and marks the settlement Exported
// @Tags         settlements
// @Produce      text/csv
// @Param        id path string true "Settlement ID"
// @Success      200 {string} string "CSV document"
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id}/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	settlement, data, err := h.service.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(settlement)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Archive handles DELETE /settlements/{id}
// @Summary      Archive a settlement
// @Description  Soft-deletes the settlement, freeing its period for regeneration
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [delete]
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Archive(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseFilter(r *http.Request) (Filter, error) {
	var filter Filter
	query := r.URL.Query()

	if sellerID := query.Get("seller_id"); sellerID != "" {
		filter.SellerID = &sellerID
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("year must be a number")
		}
		filter.Year = &year
	}
	if raw := query.Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("month must be a number")
		}
		filter.Month = &month
	}
	if raw := query.Get("status"); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	return filter, nil
}

// writeError maps service errors onto the response envelope
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *apperr.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationFailed(w, validationErr.Messages)
	case errors.Is(err, ErrSettlementNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrSettlementExists), errors.Is(err, ErrAlreadyFinalized),
		errors.Is(err, ErrNotRegenerable), errors.Is(err, ErrSettlementArchived):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "Settlement operation failed")
	}
}
