package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxCellNameLength is the longest structure name accepted by strict GDSII readers.
const MaxCellNameLength = 32

// ValidatePositive checks that a named design parameter is a finite, strictly positive number.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParam, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidParam, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a named design parameter is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParam, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidParam, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateCellName validates a GDSII structure name.
//
// The rules follow the GDSII stream specification:
//   - No empty names
//   - At most 32 characters
//   - Only A-Z, a-z, 0-9, underscore, question mark and dollar sign
func ValidateCellName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDesign, "cell name cannot be empty")
	}
	if len(name) > MaxCellNameLength {
		return New(ErrCodeInvalidDesign, "cell name %q too long (max %d characters)", name, MaxCellNameLength)
	}
	for _, r := range name {
		if r > unicode.MaxASCII {
			return New(ErrCodeInvalidDesign, "cell name %q contains non-ASCII characters", name)
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '?' || r == '$') {
			return New(ErrCodeInvalidDesign, "cell name %q contains invalid character %q", name, r)
		}
	}
	return nil
}

// SanitizeCellName maps an arbitrary string onto the GDSII structure name alphabet.
// Invalid characters become underscores and the result is truncated to MaxCellNameLength.
func SanitizeCellName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '?' || r == '$'):
			b.WriteRune(r)
		case r == '.':
			b.WriteByte('p')
		case r == '-':
			b.WriteByte('m')
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		s = "cell"
	}
	if len(s) > MaxCellNameLength {
		s = s[:MaxCellNameLength]
	}
	return s
}

// ValidateLayer checks a GDSII layer/datatype pair. Both must fit the 0..255 range
// that every mask shop accepts.
func ValidateLayer(number, datatype int) error {
	if number < 0 || number > 255 {
		return New(ErrCodeInvalidLayer, "layer number %d out of range 0..255", number)
	}
	if datatype < 0 || datatype > 255 {
		return New(ErrCodeInvalidLayer, "datatype %d out of range 0..255", datatype)
	}
	return nil
}

// ValidateOutputPath validates a path the CLI or API is asked to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
