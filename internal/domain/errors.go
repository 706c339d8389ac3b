package domain

// APIError is a standardized API error with HTTP status code,
// loosely following RFC 7807 problem details.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeGone         = "gone"
	ErrorTypeInternal     = "internal_error"
)

// validationMessages maps validator tags to user-friendly messages
var validationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum value or length",
	"min":      "Below minimum value or length",
	"gte":      "Must be greater than or equal to the minimum value",
	"gt":       "Must be greater than the minimum value",
	"lte":      "Must be less than or equal to the maximum value",
	"lt":       "Must be less than the maximum value",
	"oneof":    "Must be one of the allowed values",
	"uuid":     "Must be a valid UUID",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
