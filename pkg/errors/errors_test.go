package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidParam, "test message: %s", "value")

	if err.Code != ErrCodeInvalidParam {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidParam)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_PARAM: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "open design")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePortNotFound, "test"),
			code:     ErrCodePortNotFound,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodePortNotFound, "test"),
			code:     ErrCodeGeometry,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("build: %w", New(ErrCodeGeometry, "test")),
			code:     ErrCodeGeometry,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeGeometry,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeGeometry,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeInvalidLayer, "layer 300 out of range"))

	if got := GetCode(err); got != ErrCodeInvalidLayer {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidLayer)
	}
	if got := UserMessage(err); got != "layer 300 out of range" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode(plain) should be empty")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidDesign, "x")) {
		t.Error("INVALID_DESIGN should be a validation error")
	}
	if IsValidation(New(ErrCodeGeometry, "x")) {
		t.Error("GEOMETRY should not be a validation error")
	}
}
