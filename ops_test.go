package ndwrap

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"
)

func TestSum(t *testing.T) {
	cases := []struct {
		name  string
		input []int64
		want  int64
	}{
		{"empty", []int64{}, 0},
		{"single", []int64{42}, 42},
		{"positive", []int64{1, 2, 3, 4, 5}, 15},
		{"mixed", []int64{-1, 2, -3, 4, -5}, -3},
		{"large", makeSequence(1000), 499500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := FromInt64s(tc.input)
			defer ReleaseOrFail(t, a)

			got, err := Sum(a)
			if err != nil {
				t.Fatalf("Sum failed: %v", err)
			}
			if got.DType() != Int64 {
				t.Errorf("Sum dtype = %v, want int64", got.DType())
			}
			if got.Int64() != tc.want {
				t.Errorf("Sum = %d, want %d", got.Int64(), tc.want)
			}
		})
	}
}

func TestSumFloat(t *testing.T) {
	a := FromFloat64s([]float64{0.5, 1.5, 2.25})
	defer ReleaseOrFail(t, a)

	got, err := Sum(a)
	if err != nil {
		t.Fatal(err)
	}
	if got.DType() != Float64 || got.Float64() != 4.25 {
		t.Errorf("Sum = %v (%v), want 4.25 (float64)", got, got.DType())
	}
}

func TestSumMatrix(t *testing.T) {
	a := FromRowsOrFail(t, [][]float64{{1, 2}, {3, 4}})
	defer ReleaseOrFail(t, a)
	at, _ := a.T()
	defer ReleaseOrFail(t, at)

	for _, x := range []*Array{a, at} {
		got, err := Sum(x)
		if err != nil {
			t.Fatal(err)
		}
		if got.Float64() != 10 {
			t.Errorf("Sum(%v) = %v, want 10", x, got)
		}
	}
}

func TestMultiplyScalar(t *testing.T) {
	cases := []struct {
		name   string
		input  *Array
		factor float64
		want   []float64
	}{
		{"float", FromFloat64s([]float64{1, 2, 3}), 2.5, []float64{2.5, 5, 7.5}},
		{"int promoted", FromInt64s([]int64{1, 2, 3}), 2, []float64{2, 4, 6}},
		{"zeros", FromFloat64s(make([]float64, 10)), 5, make([]float64, 10)},
		{"empty", FromFloat64s(nil), 3, []float64{}},
		{"negative", FromFloat64s([]float64{1, -2}), -1, []float64{-1, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer ReleaseOrFail(t, tc.input)
			before := tc.input.Fingerprint()

			out, err := MultiplyScalar(tc.input, tc.factor)
			if err != nil {
				t.Fatalf("MultiplyScalar failed: %v", err)
			}
			defer ReleaseOrFail(t, out)

			if diff := cmp.Diff(tc.want, out.Float64s()); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
			if out.DType() != Float64 {
				t.Errorf("result dtype = %v, want float64", out.DType())
			}
			if out.StoragePtr() == tc.input.StoragePtr() {
				t.Error("result shares storage with the input")
			}
			if tc.input.Fingerprint() != before {
				t.Error("input was modified")
			}
		})
	}
}

func TestMultiplyInPlace(t *testing.T) {
	a := FromFloat64s([]float64{1, 2, 3})
	defer ReleaseOrFail(t, a)
	ptr := a.StoragePtr()

	if err := MultiplyInPlace(a, 3); err != nil {
		t.Fatalf("MultiplyInPlace failed: %v", err)
	}
	if a.StoragePtr() != ptr {
		t.Error("storage was reallocated")
	}
	if diff := cmp.Diff([]float64{3, 6, 9}, a.Float64s()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiplyInPlaceView(t *testing.T) {
	a := ArangeOrFail(t, Float64, 6)
	defer ReleaseOrFail(t, a)
	odds, _ := a.Slice(1, 6, 2)
	defer ReleaseOrFail(t, odds)

	if err := MultiplyInPlace(odds, 10); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0, 10, 2, 30, 4, 50}, a.Float64s()); diff != "" {
		t.Errorf("parent mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiplyInPlaceRejectsInt(t *testing.T) {
	a := FromInt64s([]int64{1, 2, 3})
	defer ReleaseOrFail(t, a)

	err := MultiplyInPlace(a, 2)
	if !errors.Is(err, ErrDTypeMismatch) {
		t.Errorf("error = %v, want ErrDTypeMismatch", err)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, a.Int64s()); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestMatrixMultiply(t *testing.T) {
	t.Run("2x2", func(t *testing.T) {
		a := FromRowsOrFail(t, [][]float64{{1, 2}, {3, 4}})
		defer ReleaseOrFail(t, a)
		b := FromRowsOrFail(t, [][]float64{{5, 6}, {7, 8}})
		defer ReleaseOrFail(t, b)

		c, err := MatrixMultiply(a, b)
		if err != nil {
			t.Fatal(err)
		}
		defer ReleaseOrFail(t, c)

		rows, _ := c.Rows()
		want := [][]float64{{19, 22}, {43, 50}}
		if diff := cmp.Diff(want, rows, cmpopts.EquateApprox(0, MatrixTolerance)); diff != "" {
			t.Errorf("product mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("identity", func(t *testing.T) {
		a := FromRowsOrFail(t, [][]float64{{2, 3}, {4, 5}})
		defer ReleaseOrFail(t, a)
		id, _ := Eye(2)
		defer ReleaseOrFail(t, id)

		c, err := MatrixMultiply(a, id)
		if err != nil {
			t.Fatal(err)
		}
		defer ReleaseOrFail(t, c)

		if r := VerifyFloat64s(a.Float64s(), c.Float64s(), MatrixToleranceConfig()); !r.OK() {
			t.Error(r)
		}
	})

	t.Run("rectangular", func(t *testing.T) {
		a := FromRowsOrFail(t, [][]float64{{1, 2, 3}})
		defer ReleaseOrFail(t, a)
		b := FromRowsOrFail(t, [][]float64{{1}, {2}, {3}})
		defer ReleaseOrFail(t, b)

		c, err := MatrixMultiply(b, a)
		if err != nil {
			t.Fatal(err)
		}
		defer ReleaseOrFail(t, c)
		if diff := cmp.Diff([]int{3, 3}, c.Shape()); diff != "" {
			t.Errorf("shape mismatch (-want +got):\n%s", diff)
		}
		if got := c.At(2, 1); got != 6 {
			t.Errorf("At(2, 1) = %v, want 6", got)
		}
	})

	t.Run("zero inner dimension", func(t *testing.T) {
		a, _ := New(Float64, 2, 0)
		defer ReleaseOrFail(t, a)
		b, _ := New(Float64, 0, 3)
		defer ReleaseOrFail(t, b)

		c, err := MatrixMultiply(a, b)
		if err != nil {
			t.Fatal(err)
		}
		defer ReleaseOrFail(t, c)
		if diff := cmp.Diff(make([]float64, 6), c.Float64s()); diff != "" {
			t.Errorf("product mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("shape mismatch", func(t *testing.T) {
		a := FromRowsOrFail(t, [][]float64{{1, 2}})
		defer ReleaseOrFail(t, a)

		if _, err := MatrixMultiply(a, a); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("error = %v, want ErrShapeMismatch", err)
		}
	})
}

// TestMatrixMultiplyAgainstGonum checks random products, including
// transposed and integer operands, against gonum's mat.Dense.
func TestMatrixMultiplyAgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dims := [][3]int{{1, 1, 1}, {3, 4, 5}, {7, 2, 9}, {16, 16, 16}, {33, 17, 5}}

	for _, d := range dims {
		m, k, n := d[0], d[1], d[2]
		av := randomData(rng, m*k)
		bv := randomData(rng, k*n)

		want := mat.NewDense(m, n, nil)
		want.Mul(mat.NewDense(m, k, av), mat.NewDense(k, n, bv))

		a, _ := New(Float64, m, k)
		copy(a.buf.f64, av)
		// b is stored transposed and multiplied through a T view
		bt, _ := New(Float64, n, k)
		bDense := mat.NewDense(k, n, bv)
		for i := 0; i < n; i++ {
			for j := 0; j < k; j++ {
				bt.buf.f64[i*k+j] = bDense.At(j, i)
			}
		}
		b, _ := bt.T()

		c, err := MatrixMultiply(a, b)
		if err != nil {
			t.Fatalf("%v: %v", d, err)
		}
		if r := VerifyFloat64s(want.RawMatrix().Data, c.Float64s(), MatrixToleranceConfig()); !r.OK() {
			t.Errorf("%v: %v", d, r)
		}

		for _, x := range []*Array{a, bt, b, c} {
			ReleaseOrFail(t, x)
		}
	}
}

func makeSequence(n int) []int64 {
	s := make([]int64, n)
	for i := range s {
		s[i] = int64(i)
	}
	return s
}

func randomData(rng *rand.Rand, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return data
}
