package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrorCodeRequestTooLarge    ErrorCode = "REQUEST_TOO_LARGE"
	ErrorCodeMissingParameters  ErrorCode = "MISSING_PARAMETERS"
	ErrorCodeGeographyNotFound  ErrorCode = "GEOGRAPHY_NOT_FOUND"
	ErrorCodeOccupationNotFound ErrorCode = "OCCUPATION_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeInternalError       ErrorCode = "INTERNAL_ERROR"
	ErrorCodeConfiguration       ErrorCode = "CONFIGURATION_ERROR"
	ErrorCodeDataIntegrity       ErrorCode = "DATA_INTEGRITY_ERROR"
	ErrorCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrorCodeMalformedUpstream   ErrorCode = "MALFORMED_UPSTREAM_RESPONSE"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Success:   false,
		Error:     message,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", result.details()...)
}

// SendMissingParametersError names every missing query parameter
func SendMissingParametersError(c *gin.Context, result *ValidationResult) {
	fields := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		fields[i] = e.Field
	}
	SendError(c, http.StatusBadRequest, ErrorCodeMissingParameters,
		"Missing required parameters: "+strings.Join(fields, ", "), result.details()...)
}

// SendDomainError maps an error returned by the ranking engine, the
// recommendation pipeline or the catalog to its status code.
func SendDomainError(c *gin.Context, operation string, err error) {
	status, code, message, details := classifyError(operation, err)

	log := logger.With("operation", operation, "kind", internalErrors.Kind(err), "status", status)
	if id, ok := c.Get(requestIDKey); ok {
		log = log.With("request_id", id)
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "error", err)
	}

	SendError(c, status, code, message, details...)
}

func classifyError(operation string, err error) (int, ErrorCode, string, []ErrorDetail) {
	var (
		validationErr *internalErrors.ValidationError
		notFoundErr   *internalErrors.NotFoundError
		configErr     *internalErrors.ConfigurationError
		malformedErr  *internalErrors.MalformedResponseError
		upstreamErr   *internalErrors.UpstreamUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
			[]ErrorDetail{{Field: validationErr.Field, Message: validationErr.Message, Code: "VALIDATION_ERROR"}}

	case errors.As(err, &notFoundErr):
		code := ErrorCodeOccupationNotFound
		if notFoundErr.Kind == internalErrors.NotFoundGeography {
			code = ErrorCodeGeographyNotFound
		}
		details := make([]ErrorDetail, 0, len(notFoundErr.Suggestions))
		for _, suggestion := range notFoundErr.Suggestions {
			details = append(details, ErrorDetail{Message: "Did you mean '" + suggestion + "'?", Code: "SUGGESTION"})
		}
		return http.StatusNotFound, code, notFoundErr.Error(), details

	case errors.As(err, &configErr):
		return http.StatusInternalServerError, ErrorCodeConfiguration,
			"Service is not configured: " + configErr.Setting + " " + configErr.Message, nil

	case errors.Is(err, internalErrors.ErrDataIntegrity):
		return http.StatusInternalServerError, ErrorCodeDataIntegrity, err.Error(), nil

	case errors.As(err, &malformedErr):
		// Raw model output is never echoed to the caller.
		return http.StatusBadGateway, ErrorCodeMalformedUpstream,
			"Unusable response from '" + malformedErr.Service + "': " + malformedErr.Reason, nil

	case errors.As(err, &upstreamErr):
		return http.StatusServiceUnavailable, ErrorCodeUpstreamUnavailable,
			"Service '" + upstreamErr.Service + "' is unavailable, try again later", nil

	default:
		// The cause may name files or hosts; SendDomainError logs it.
		return http.StatusInternalServerError, ErrorCodeInternalError,
			"Internal error during " + operation, nil
	}
}
