//go:build mkl && cgo

package compute

// #cgo LDFLAGS: -lmkl_rt
// #include <mkl.h>
import "C"

func init() {
	Register(MKL{})
}

// MKL routes scaling and matrix products to Intel MKL through CBLAS.
// Reductions stay on the gonum kernels.
type MKL struct {
	Gonum
}

func (MKL) Name() string { return "mkl" }

func (MKL) ScaleTo(dst []float64, alpha float64, src []float64) {
	if len(dst) == 0 {
		return
	}
	if len(src) < len(dst) {
		panic("compute: short src")
	}
	n := C.int(len(dst))
	C.cblas_dcopy(n, (*C.double)(&src[0]), 1, (*C.double)(&dst[0]), 1)
	C.cblas_dscal(n, C.double(alpha), (*C.double)(&dst[0]), 1)
}

func (MKL) Scale(alpha float64, x []float64) {
	if len(x) == 0 {
		return
	}
	C.cblas_dscal(C.int(len(x)), C.double(alpha), (*C.double)(&x[0]), 1)
}

func (m MKL) Dgemm(rows, cols, k int, a []float64, lda int, b []float64, ldb int, c []float64, ldc int) {
	if rows == 0 || cols == 0 || k == 0 {
		m.Gonum.Dgemm(rows, cols, k, a, lda, b, ldb, c, ldc)
		return
	}
	if len(a) < lda*(rows-1)+k || len(b) < ldb*(k-1)+cols || len(c) < ldc*(rows-1)+cols {
		panic("compute: short matrix")
	}
	C.cblas_dgemm(C.CblasRowMajor, C.CblasNoTrans, C.CblasNoTrans,
		C.int(rows), C.int(cols), C.int(k),
		1, (*C.double)(&a[0]), C.int(lda),
		(*C.double)(&b[0]), C.int(ldb),
		0, (*C.double)(&c[0]), C.int(ldc))
}
