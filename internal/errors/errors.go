package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds surfaced by the recommendation and
// wage ranking paths. Typed errors below match them through Is.
var (
	// ErrConfiguration is returned when a required credential or endpoint is missing
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable is returned when an external service cannot be reached or fails
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedUpstreamResponse is returned when an external service answers outside its contract
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")

	// ErrNotFound is returned when a geography or occupation code cannot be resolved
	ErrNotFound = errors.New("not found")

	// ErrDataIntegrity is returned when a static dataset holds a value it must not
	ErrDataIntegrity = errors.New("data integrity violation")
)

// ConfigurationError names the setting that is missing or unusable.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for '%s': %s", e.Setting, e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamUnavailableError wraps a transport failure, timeout or error
// status from an external service. StatusCode is zero when no response
// was received.
type UpstreamUnavailableError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamUnavailableError) Error() string {
	msg := fmt.Sprintf("service '%s' unavailable", e.Service)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamUnavailableError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// NewUpstreamUnavailableError creates a new UpstreamUnavailableError
func NewUpstreamUnavailableError(service string, statusCode int, err error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Service: service, StatusCode: statusCode, Err: err}
}

// MalformedResponseError reports an upstream answer that failed parsing or
// contract validation. Raw holds the offending payload for diagnostics.
type MalformedResponseError struct {
	Service string
	Reason  string
	Raw     string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from '%s': %s", e.Service, e.Reason)
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedUpstreamResponse
}

// NewMalformedResponseError creates a new MalformedResponseError
func NewMalformedResponseError(service, reason, raw string) *MalformedResponseError {
	return &MalformedResponseError{Service: service, Reason: reason, Raw: raw}
}

// NotFoundKind tells which lookup failed.
type NotFoundKind string

const (
	NotFoundGeography  NotFoundKind = "geography"
	NotFoundOccupation NotFoundKind = "occupation"
)

// NotFoundError represents an unresolvable geography or occupation code.
// Suggestions holds near matches for the key, if any.
type NotFoundError struct {
	Kind        NotFoundKind
	Key         string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewGeographyNotFoundError creates a NotFoundError for a "<county>, <state>" key
func NewGeographyNotFoundError(key string) *NotFoundError {
	return &NotFoundError{Kind: NotFoundGeography, Key: key}
}

// NewOccupationNotFoundError creates a NotFoundError for an occupation code
func NewOccupationNotFoundError(code string) *NotFoundError {
	return &NotFoundError{Kind: NotFoundOccupation, Key: code}
}

// DataIntegrityError points at the dataset record holding an unusable value
type DataIntegrityError struct {
	Dataset string
	Key     string
	Field   string
	Value   string
}

func (e *DataIntegrityError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("data integrity violation in %s record '%s': field '%s' has invalid value '%s'", e.Dataset, e.Key, e.Field, e.Value)
	}
	return fmt.Sprintf("data integrity violation in %s record '%s'", e.Dataset, e.Key)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// NewDataIntegrityError creates a new DataIntegrityError
func NewDataIntegrityError(dataset, key, field, value string) *DataIntegrityError {
	return &DataIntegrityError{Dataset: dataset, Key: key, Field: field, Value: value}
}

// Kind returns a short stable label for the error's kind, used for metrics
// and log fields. Unknown errors are "internal"; nil is "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrMalformedUpstreamResponse):
		return "malformed_upstream_response"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity"
	default:
		return "internal"
	}
}
