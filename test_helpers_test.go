package ndwrap

import (
	"testing"
)

// FromRowsOrFail builds a matrix and fails the test if unsuccessful
func FromRowsOrFail(t testing.TB, rows [][]float64) *Array {
	t.Helper()
	a, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows(%v) failed: %v", rows, err)
	}
	return a
}

// ArangeOrFail builds [0, n) and fails the test if unsuccessful
func ArangeOrFail(t testing.TB, dtype DType, n int) *Array {
	t.Helper()
	a, err := Arange(dtype, n)
	if err != nil {
		t.Fatalf("Arange(%v, %d) failed: %v", dtype, n, err)
	}
	return a
}

// ReleaseOrFail releases an array and fails the test if unsuccessful
func ReleaseOrFail(t testing.TB, a *Array) {
	t.Helper()
	if err := a.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}
