// Package ndwrap tolerance-based verification for floating-point comparisons
package ndwrap

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool
}

// DefaultTolerance returns default tolerance configuration
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-12,
		RelTol:   1e-9,
		CheckNaN: true,
	}
}

// MatrixToleranceConfig returns the absolute tolerance used when checking
// matrix products.
func MatrixToleranceConfig() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   MatrixTolerance,
		CheckNaN: true,
	}
}

// NearEqual checks if two float64 values are equal within tolerance
func NearEqual(a, b float64, tol ToleranceConfig) bool {
	if tol.CheckNaN && math.IsNaN(a) && math.IsNaN(b) {
		return true
	}

	// Exact equality covers ±0 and equal infinities
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= larger*tol.RelTol
}

// VerificationResult summarizes an element-wise comparison.
type VerificationResult struct {
	MaxAbsError float64
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// VerifyFloat64s compares two float64 slices element by element.
func VerifyFloat64s(expected, actual []float64, tol ToleranceConfig) VerificationResult {
	result := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}

	if len(expected) != len(actual) {
		result.NumErrors = len(expected)
		result.FirstError = 0
		return result
	}

	for i := range expected {
		if NearEqual(expected[i], actual[i], tol) {
			continue
		}
		result.NumErrors++
		if result.FirstError == -1 {
			result.FirstError = i
		}
		if d := math.Abs(expected[i] - actual[i]); d > result.MaxAbsError {
			result.MaxAbsError = d
		}
	}

	return result
}

// OK reports whether every element matched.
func (r VerificationResult) OK() bool {
	return r.NumErrors == 0
}

// String formats the verification result for display
func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return "PASS: all values match within tolerance"
	}
	return fmt.Sprintf("FAIL: %d/%d values differ, max absolute error %e, first at index %d",
		r.NumErrors, r.TotalItems, r.MaxAbsError, r.FirstError)
}
