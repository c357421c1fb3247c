package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("GEMINI_API_KEY", "is not set")

	expectedMsg := "configuration error for 'GEMINI_API_KEY': is not set"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrConfiguration) {
		t.Error("Expected error to match ErrConfiguration sentinel")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("Error should not match ErrInvalidInput")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("jobDescription", "cannot be empty")

	expectedMsg := "validation error for field 'jobDescription': cannot be empty"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	err2 := NewValidationError("", "cannot be empty")
	expectedMsg2 := "validation error: cannot be empty"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
}

func TestUpstreamUnavailableError(t *testing.T) {
	err := NewUpstreamUnavailableError("pinecone", 503, fmt.Errorf("service overloaded"))

	expectedMsg := "service 'pinecone' unavailable (status 503): service overloaded"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("Expected error to match ErrUpstreamUnavailable sentinel")
	}

	timeout := NewUpstreamUnavailableError("gemini", 0, context.DeadlineExceeded)
	if !errors.Is(timeout, context.DeadlineExceeded) {
		t.Error("Expected wrapped context error to be reachable through Unwrap")
	}
	if timeout.Error() != "service 'gemini' unavailable: context deadline exceeded" {
		t.Errorf("Unexpected message: %s", timeout.Error())
	}
}

func TestMalformedResponseError(t *testing.T) {
	err := NewMalformedResponseError("gemini", "missing key 'confidence'", `{"result":{"hits":[]}}`)

	expectedMsg := "malformed response from 'gemini': missing key 'confidence'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrMalformedUpstreamResponse) {
		t.Error("Expected error to match ErrMalformedUpstreamResponse sentinel")
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("Malformed responses must stay distinguishable from network failures")
	}
}

func TestNotFoundError(t *testing.T) {
	geo := NewGeographyNotFoundError("Atlantis County, California")
	expectedMsg := "geography 'Atlantis County, California' not found"
	if geo.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, geo.Error())
	}

	occ := NewOccupationNotFoundError("99-9999.00")
	expectedMsg = "occupation '99-9999.00' not found"
	if occ.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, occ.Error())
	}

	if !errors.Is(geo, ErrNotFound) || !errors.Is(occ, ErrNotFound) {
		t.Error("Expected both errors to match ErrNotFound sentinel")
	}

	var nf *NotFoundError
	if !errors.As(occ, &nf) || nf.Kind != NotFoundOccupation {
		t.Error("Expected errors.As to expose the occupation kind")
	}
}

func TestDataIntegrityError(t *testing.T) {
	err := NewDataIntegrityError("wage_data", "15-1252.00/41860", "level3", "n/a")

	expectedMsg := "data integrity violation in wage_data record '15-1252.00/41860': field 'level3' has invalid value 'n/a'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	err2 := NewDataIntegrityError("geography", "", "", "")
	if err2.Error() != "data integrity violation in geography record ''" {
		t.Errorf("Unexpected message: %s", err2.Error())
	}

	if !errors.Is(err, ErrDataIntegrity) {
		t.Error("Expected error to match ErrDataIntegrity sentinel")
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewOccupationNotFoundError("15-1252.00")
	wrapped := fmt.Errorf("rank failed: %w", original)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("Expected wrapped error to match ErrNotFound sentinel")
	}

	var target *NotFoundError
	if !errors.As(wrapped, &target) {
		t.Error("Expected errors.As to find NotFoundError")
	}
	if target.Key != "15-1252.00" {
		t.Errorf("Expected key '15-1252.00', got '%s'", target.Key)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NewConfigurationError("x", "y"), "configuration"},
		{NewValidationError("x", "y"), "invalid_input"},
		{NewUpstreamUnavailableError("x", 500, nil), "upstream_unavailable"},
		{NewMalformedResponseError("x", "y", ""), "malformed_upstream_response"},
		{fmt.Errorf("wrapped: %w", NewGeographyNotFoundError("x")), "not_found"},
		{NewDataIntegrityError("x", "y", "", ""), "data_integrity"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
