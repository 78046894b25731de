package errors

import "math"

// ValidateDimensions validates a rectangular region for safety and correctness.
// Both sides must be finite and strictly positive.
//
// Zero or negative regions are caller contract violations: the sampler and
// layout manager refuse them instead of degrading silently.
func ValidateDimensions(w, h float64) error {
	if !isFinite(w) || !isFinite(h) {
		return New(ErrCodeInvalidGeometry, "region dimensions must be finite (got %gx%g)", w, h)
	}
	if w <= 0 || h <= 0 {
		return New(ErrCodeInvalidGeometry, "region dimensions must be positive (got %gx%g)", w, h)
	}
	return nil
}

// ValidatePositive validates that a named numeric setting is finite and > 0.
func ValidatePositive(name string, v float64) error {
	if !isFinite(v) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive (got %g)", name, v)
	}
	return nil
}

// ValidatePositiveInt validates that a named integer setting is >= 1.
func ValidatePositiveInt(name string, v int) error {
	if v < 1 {
		return New(ErrCodeInvalidConfig, "%s must be at least 1 (got %d)", name, v)
	}
	return nil
}

// ValidateFraction validates that a named setting lies in [0, 1].
func ValidateFraction(name string, v float64) error {
	if !isFinite(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1] (got %g)", name, v)
	}
	return nil
}

// ValidateRange validates a clamping interval.
//
// Validation rules:
//   - min and max must be finite
//   - min must not be negative
//   - min must not exceed max
func ValidateRange(name string, min, max float64) error {
	if !isFinite(min) || !isFinite(max) {
		return New(ErrCodeInvalidConfig, "%s bounds must be finite", name)
	}
	if min < 0 {
		return New(ErrCodeInvalidConfig, "%s minimum cannot be negative (got %g)", name, min)
	}
	if min > max {
		return New(ErrCodeInvalidConfig, "%s minimum %g exceeds maximum %g", name, min, max)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
