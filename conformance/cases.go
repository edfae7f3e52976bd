package conformance

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LynnColeArt/ndwrap"
)

// Case is one named check. Group mirrors how the checks are organised:
// values through the project, array properties, edge cases and resource
// management.
type Case struct {
	Group string
	Name  string
	Doc   string
	Run   func(ctx context.Context, t T, s *Suite)
}

// FullName returns "Group/Name".
func (c Case) FullName() string {
	return c.Group + "/" + c.Name
}

// Cases returns every case in execution order.
func Cases() []Case {
	return []Case{
		{"ViaExampleProject", "1d_array_sum", "basic 1-D array summation", test1DArraySum},
		{"ViaExampleProject", "1d_array_sum_fast", "1-D array sum with the host lock released", test1DArraySumFast},
		{"ViaExampleProject", "large_array_sum", "larger array through the lock-releasing sum", testLargeArraySum},
		{"ViaExampleProject", "1d_array_multiply_scalar", "scalar multiplication", test1DArrayMultiplyScalar},
		{"ViaExampleProject", "1d_array_multiply_in_place", "in-place modification", test1DArrayMultiplyInPlace},
		{"ViaExampleProject", "matrix_multiply_2x2", "2x2 matrix multiplication", testMatrixMultiply2x2},
		{"ViaExampleProject", "matrix_multiply_identity", "multiplication with the identity matrix", testMatrixMultiplyIdentity},

		{"Properties", "contiguous_array_properties", "contiguous arrays are detected and summed", testContiguousArrayProperties},
		{"Properties", "different_dtypes", "int64 and float64 inputs both work", testDifferentDTypes},
		{"Properties", "multiply_scalar_preserves_input", "multiply_scalar leaves its input untouched", testMultiplyScalarPreservesInput},
		{"Properties", "strided_view_sum", "non-contiguous views sum like their elements", testStridedViewSum},

		{"EdgeCases", "empty_array", "sum of an empty array", testEmptyArray},
		{"EdgeCases", "single_element", "sum of a single element", testSingleElement},
		{"EdgeCases", "zeros_array", "scaling zeros", testZerosArray},

		{"ResourceManagement", "multiple_operations", "array operations in sequence", testMultipleOperations},
		{"ResourceManagement", "nested_function_calls", "repeated calls do not interfere", testNestedFunctionCalls},
		{"ResourceManagement", "pool_balanced_after_calls", "temporaries are released after each call", testPoolBalancedAfterCalls},
	}
}

// fixtureArray builds the named fixture as a native array released when
// the case ends.
func fixtureArray(t T, s *Suite, name string) (*ndwrap.Array, Fixture) {
	t.Helper()
	f := s.Fixture(t, name)
	a, err := f.Array()
	require.NoError(t, err, "fixture %s", name)
	return a, f
}

func release(t T, a *ndwrap.Array) {
	t.Helper()
	assert.NoError(t, a.Release())
}

func wantScalar(t T, f Fixture) int64 {
	t.Helper()
	require.NotNil(t, f.WantScalar, "fixture has no want_scalar")
	return int64(*f.WantScalar)
}

func test1DArraySum(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_1_to_5")
	defer release(t, arr)

	result := s.call(ctx, t, s.sum, arr)
	assert.Equal(t, wantScalar(t, f), result)
}

func test1DArraySumFast(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_1_to_5")
	defer release(t, arr)

	result := s.call(ctx, t, s.sumFast, arr)
	assert.Equal(t, wantScalar(t, f), result)
}

func testLargeArraySum(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_arange_1000")
	defer release(t, arr)

	seq := make(stats.Float64Data, f.Arange)
	for i := range seq {
		seq[i] = float64(i)
	}
	expected, err := stats.Sum(seq)
	require.NoError(t, err)

	result := s.call(ctx, t, s.sumFast, arr)
	assert.Equal(t, int64(expected), result)
	assert.Equal(t, s.call(ctx, t, s.sum, arr), result, "sum_fast must match sum")
}

func test1DArrayMultiplyScalar(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "float_scale_2_5")
	defer release(t, arr)

	result := s.call(ctx, t, s.multiplyScalar, arr, f.Factor)
	assert.Equal(t, f.Want, result)
}

func test1DArrayMultiplyInPlace(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "float_scale_in_place_3")
	defer release(t, arr)

	original := arr
	storage := arr.StoragePtr()

	result := s.call(ctx, t, s.multiplyInPlace, arr, f.Factor)
	assert.Nil(t, result)
	assert.Same(t, original, arr, "same object")
	assert.Equal(t, storage, arr.StoragePtr(), "same storage")
	assert.InDeltaSlice(t, f.Want, arr.Float64s(), 1e-6)
}

func testMatrixMultiply2x2(ctx context.Context, t T, s *Suite) {
	f := s.Fixture(t, "matrix_2x2")

	result, ok := s.call(ctx, t, s.matrixMultiply, f.A, f.B).([][]float64)
	require.True(t, ok, "result is not a matrix")

	require.Len(t, result, 2)
	require.Len(t, result[0], 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, f.WantRows[i][j], result[i][j], ndwrap.MatrixTolerance,
				"element [%d][%d]", i, j)
		}
	}
}

func testMatrixMultiplyIdentity(ctx context.Context, t T, s *Suite) {
	f := s.Fixture(t, "matrix_identity_operand")
	mat, err := ndwrap.FromRows(f.A)
	require.NoError(t, err)
	defer release(t, mat)
	identity, err := ndwrap.Eye(2)
	require.NoError(t, err)
	defer release(t, identity)

	result, ok := s.call(ctx, t, s.matrixMultiply, mat, identity).([][]float64)
	require.True(t, ok, "result is not a matrix")

	require.Len(t, result, 2)
	for i := 0; i < 2; i++ {
		require.Len(t, result[i], 2)
		for j := 0; j < 2; j++ {
			assert.InDelta(t, mat.At(i, j), result[i][j], ndwrap.MatrixTolerance,
				"element [%d][%d]", i, j)
		}
	}
}

func testContiguousArrayProperties(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_1_to_5")
	defer release(t, arr)

	assert.True(t, arr.Contiguous(), "fresh array should be contiguous")
	result := s.call(ctx, t, s.sum, arr)
	assert.Equal(t, wantScalar(t, f), result)
}

func testDifferentDTypes(ctx context.Context, t T, s *Suite) {
	arrInt, fi := fixtureArray(t, s, "int_1_to_3")
	defer release(t, arrInt)
	sum := s.call(ctx, t, s.sum, arrInt)
	assert.IsType(t, int64(0), sum, "integer input gives an integer sum")
	assert.Equal(t, wantScalar(t, fi), sum)

	arrFloat, ff := fixtureArray(t, s, "float_scale_2")
	defer release(t, arrFloat)
	result := s.call(ctx, t, s.multiplyScalar, arrFloat, ff.Factor)
	assert.Equal(t, ff.Want, result)
}

func testMultiplyScalarPreservesInput(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "float_scale_2_5")
	defer release(t, arr)

	before := arr.Fingerprint()
	result, ok := s.call(ctx, t, s.multiplyScalar, arr, f.Factor).([]float64)
	require.True(t, ok, "result is not a float sequence")

	assert.Len(t, result, arr.Len())
	assert.Equal(t, before, arr.Fingerprint(), "input was modified")
	assert.Equal(t, f.Input, arr.Float64s())
}

func testStridedViewSum(ctx context.Context, t T, s *Suite) {
	arr, _ := fixtureArray(t, s, "int_arange_10")
	defer release(t, arr)

	evens, err := arr.Slice(0, arr.Len(), 2)
	require.NoError(t, err)
	defer release(t, evens)

	assert.False(t, evens.Contiguous(), "stepped view should not be contiguous")
	sum := s.call(ctx, t, s.sum, evens)
	assert.Equal(t, int64(0+2+4+6+8), sum)
	assert.Equal(t, sum, s.call(ctx, t, s.sumFast, evens))
}

func testEmptyArray(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_empty")
	defer release(t, arr)

	result := s.call(ctx, t, s.sum, arr)
	assert.Equal(t, wantScalar(t, f), result)
}

func testSingleElement(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_single")
	defer release(t, arr)

	result := s.call(ctx, t, s.sum, arr)
	assert.Equal(t, wantScalar(t, f), result)
}

func testZerosArray(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "float_zeros_10")
	defer release(t, arr)

	result, ok := s.call(ctx, t, s.multiplyScalar, arr, f.Factor).([]float64)
	require.True(t, ok, "result is not a float sequence")
	require.Len(t, result, f.Zeros)
	for i, x := range result {
		assert.Zero(t, x, "element %d", i)
	}
}

func testMultipleOperations(ctx context.Context, t T, s *Suite) {
	arr1, f1 := fixtureArray(t, s, "int_1_to_3")
	defer release(t, arr1)
	arr2, f2 := fixtureArray(t, s, "int_4_to_6")
	defer release(t, arr2)

	assert.Equal(t, wantScalar(t, f1), s.call(ctx, t, s.sum, arr1))
	assert.Equal(t, wantScalar(t, f2), s.call(ctx, t, s.sum, arr2))
	assert.Equal(t, wantScalar(t, f1), s.call(ctx, t, s.sum, arr1), "arr1 can be reused")
}

func testNestedFunctionCalls(ctx context.Context, t T, s *Suite) {
	arr, f := fixtureArray(t, s, "int_1_to_5")
	defer release(t, arr)

	sum1 := s.call(ctx, t, s.sum, arr)
	sum2 := s.call(ctx, t, s.sum, arr)

	assert.Equal(t, sum1, sum2)
	assert.Equal(t, wantScalar(t, f), sum1)

	// one function's output feeds the next
	scaled := s.call(ctx, t, s.multiplyScalar, arr, 2.0)
	assert.Equal(t, float64(2*wantScalar(t, f)), s.call(ctx, t, s.sum, scaled))
}

func testPoolBalancedAfterCalls(ctx context.Context, t T, s *Suite) {
	pool := ndwrap.DefaultPool()
	live := pool.Live()
	allocated, _ := ndwrap.PoolStats()

	f := s.Fixture(t, "float_scale_2_5")
	s.call(ctx, t, s.sum, f.Input)
	s.call(ctx, t, s.sumFast, f.Input)
	s.call(ctx, t, s.multiplyScalar, f.Input, f.Factor)
	scaled := append([]float64(nil), f.Input...)
	s.call(ctx, t, s.multiplyInPlace, scaled, f.Factor)
	assert.Equal(t, f.Want, scaled)
	m := s.Fixture(t, "matrix_2x2")
	s.call(ctx, t, s.matrixMultiply, m.A, m.B)

	assert.Equal(t, live, pool.Live(), "native arrays leaked across calls")
	after, peak := ndwrap.PoolStats()
	assert.Equal(t, allocated, after, "pool bytes not returned")
	assert.GreaterOrEqual(t, peak, after)
}
