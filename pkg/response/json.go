package response

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError carries every violated rule for a failed request, not just the
// first one, plus situational flags the refund flows need
type APIError struct {
	Code              string   `json:"code"`
	Messages          []string `json:"messages"`
	IsNotAuthorized   bool     `json:"is_not_authorized,omitempty"`
	HasProviderErrors bool     `json:"has_provider_errors,omitempty"`
}

// Meta contains pagination and other metadata
type Meta struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(response)
}

// JSONWithMeta sends a JSON response with pagination metadata
func JSONWithMeta(w http.ResponseWriter, status int, data interface{}, meta *Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	}

	json.NewEncoder(w).Encode(response)
}

// Error sends an error JSON response with a single message
func Error(w http.ResponseWriter, status int, code, message string) {
	Errors(w, status, code, []string{message})
}

// Errors sends an error JSON response carrying all collected messages
func Errors(w http.ResponseWriter, status int, code string, messages []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:     code,
			Messages: messages,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// ProviderError marks a failure that came back from the external payment
// provider rather than from our own validation or business rules
func ProviderError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:              "PROVIDER_ERROR",
			Messages:          []string{message},
			HasProviderErrors: true,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// Common error responses
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func ValidationFailed(w http.ResponseWriter, messages []string) {
	Errors(w, http.StatusBadRequest, "VALIDATION_FAILED", messages)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:            "UNAUTHORIZED",
			Messages:        []string{message},
			IsNotAuthorized: true,
		},
	}

	json.NewEncoder(w).Encode(response)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}
