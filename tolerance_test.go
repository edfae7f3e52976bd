package ndwrap

import (
	"math"
	"strings"
	"testing"
)

func TestNearEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		tol      ToleranceConfig
		expected bool
	}{
		{"Exact_Equal", 1.0, 1.0, DefaultTolerance(), true},
		{"Within_AbsTol", 1e-13, 2e-13, DefaultTolerance(), true},
		{"Within_RelTol", 1e9, 1e9 + 0.5, DefaultTolerance(), true},
		{"Outside_Tolerance", 1.0, 1.001, DefaultTolerance(), false},
		{"Both_NaN", math.NaN(), math.NaN(), DefaultTolerance(), true},
		{"NaN_Not_Checked", math.NaN(), math.NaN(), ToleranceConfig{}, false},
		{"Equal_Inf", math.Inf(1), math.Inf(1), DefaultTolerance(), true},
		{"Opposite_Inf", math.Inf(1), math.Inf(-1), DefaultTolerance(), false},
		{"Signed_Zero", 0.0, math.Copysign(0, -1), DefaultTolerance(), true},
		{"Matrix_Tolerance", 19, 19.0009, MatrixToleranceConfig(), true},
		{"Outside_Matrix_Tolerance", 19, 19.002, MatrixToleranceConfig(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearEqual(tt.a, tt.b, tt.tol); got != tt.expected {
				t.Errorf("NearEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestVerifyFloat64s(t *testing.T) {
	expected := []float64{1, 2, 3, 4}

	r := VerifyFloat64s(expected, []float64{1, 2, 3, 4}, DefaultTolerance())
	if !r.OK() || r.FirstError != -1 {
		t.Errorf("identical slices: %v", r)
	}

	r = VerifyFloat64s(expected, []float64{1, 2.5, 3, 6}, DefaultTolerance())
	if r.OK() {
		t.Fatal("expected mismatches")
	}
	if r.NumErrors != 2 || r.FirstError != 1 || r.MaxAbsError != 2 {
		t.Errorf("got %+v, want 2 errors from index 1 with max 2", r)
	}
	if !strings.HasPrefix(r.String(), "FAIL: 2/4") {
		t.Errorf("String() = %q", r.String())
	}

	r = VerifyFloat64s(expected, []float64{1}, DefaultTolerance())
	if r.OK() || r.FirstError != 0 {
		t.Errorf("length mismatch: %+v", r)
	}
}
