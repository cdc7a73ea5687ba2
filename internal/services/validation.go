package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool           `json:"success"`           // Always false
	Error   string         `json:"error"`             // Display message
	Code    string         `json:"code,omitempty"`    // Machine-readable failure kind
	Details map[string]any `json:"details,omitempty"` // Validation or ledger details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// SendErrorResponse sends a JSON error response. Field failures from the
// validator are listed in Details.
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	errorResp := ErrorResponse{Error: message}
	var verrs validator.ValidationErrors
	if errors.As(validationErr, &verrs) {
		errorResp.Details = make(map[string]any, len(verrs))
		for _, err := range verrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}
	SendJSON(w, statusCode, errorResp)
}

// SendLedgerError renders a ledger failure with its status code and details.
func SendLedgerError(w http.ResponseWriter, statusCode int, code, message string, details map[string]any) {
	SendJSON(w, statusCode, ErrorResponse{Error: message, Code: code, Details: details})
}

func SendJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
