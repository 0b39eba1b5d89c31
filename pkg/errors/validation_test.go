package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 0.25, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("electrode_width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePositive(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParam) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidParam)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("gap", 0); err != nil {
		t.Errorf("zero should be accepted: %v", err)
	}
	if err := ValidateNonNegative("gap", -0.1); err == nil {
		t.Error("negative should be rejected")
	}
}

func TestValidateCellName(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		wantErr bool
	}{
		{"simple", "straight_idt", false},
		{"with dollar", "idt$1", false},
		{"empty", "", true},
		{"space", "straight idt", true},
		{"dot", "w0.25", true},
		{"too long", strings.Repeat("a", 33), true},
		{"max length", strings.Repeat("a", 32), false},
		{"unicode", "µidt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCellName(tt.cell)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCellName(%q) error = %v, wantErr %v", tt.cell, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeCellName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"flat-cmr w0.25", "flatmcmr_w0p25"},
		{"", "cell"},
		{"ok_name", "ok_name"},
	}
	for _, tt := range tests {
		if got := SanitizeCellName(tt.in); got != tt.want {
			t.Errorf("SanitizeCellName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if err := ValidateCellName(SanitizeCellName(tt.in)); err != nil {
			t.Errorf("sanitized name %q not valid: %v", SanitizeCellName(tt.in), err)
		}
	}

	long := SanitizeCellName(strings.Repeat("x", 100))
	if len(long) != MaxCellNameLength {
		t.Errorf("len = %d, want %d", len(long), MaxCellNameLength)
	}
}

func TestValidateLayer(t *testing.T) {
	if err := ValidateLayer(1, 0); err != nil {
		t.Errorf("metal layer rejected: %v", err)
	}
	if err := ValidateLayer(256, 0); !Is(err, ErrCodeInvalidLayer) {
		t.Errorf("layer 256 error = %v", err)
	}
	if err := ValidateLayer(1, -1); !Is(err, ErrCodeInvalidLayer) {
		t.Errorf("datatype -1 error = %v", err)
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("teststructures.gds"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("empty path accepted")
	}
	if err := ValidateOutputPath("bad\x00.gds"); err == nil {
		t.Error("null byte accepted")
	}
}
