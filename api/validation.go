// Package api provides the HTTP surface for wage ranking, occupation
// recommendation and dataset browsing.
package api

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Paging bounds for list endpoints.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

func init() {
	// Report binding failures by JSON name instead of Go field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	TooLarge bool              `json:"-"` // The body was cut off by RequestSizeLimitMiddleware
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

func (vr *ValidationResult) details() []ErrorDetail {
	details := make([]ErrorDetail, len(vr.Errors))
	for i, err := range vr.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}
	return details
}

// RequireQueryParams reads the named query parameters and reports every
// one that is absent or blank.
func RequireQueryParams(c *gin.Context, names ...string) (map[string]string, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	values := make(map[string]string, len(names))

	for _, name := range names {
		value := strings.TrimSpace(c.Query(name))
		if value == "" {
			result.AddError(name, name+" is required")
			continue
		}
		values[name] = value
	}

	return values, result
}

// ValidateLimit parses an optional limit query value.
func ValidateLimit(raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(raw) == "" {
		return DefaultListLimit, result
	}
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		result.AddError("limit", "limit must be an integer")
		return 0, result
	}
	if limit < 1 || limit > MaxListLimit {
		result.AddError("limit", "limit must be between 1 and "+strconv.Itoa(MaxListLimit))
		return 0, result
	}

	return limit, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	if result.TooLarge {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge, "Request body too large", result.details()...)
		return
	}
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding binds the request body and reports one error per
// field that fails its binding rules. Syntax errors are reported as a
// single request_body error.
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	err := c.ShouldBindJSON(target)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.AddError(fe.Field(), describeFieldError(fe))
		}
		return result
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		result.TooLarge = true
		result.AddError("request_body", "Request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		return result
	}

	result.AddError("request_body", "Invalid request body: "+err.Error())
	return result
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " failed '" + fe.Tag() + "' validation"
	}
}
