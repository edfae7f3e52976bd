// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ndwrap provides native int64 and float64 arrays and the numeric
// operations a host binding layer exposes over them: element sum, a
// parallel sum with identical results, scalar multiply, in-place scalar
// multiply and matrix multiply.
//
// Arrays are reference counted and allocated from a MemoryPool. Views
// created with Slice and T share storage with their parent and may be
// non-contiguous; every operation accepts them.
//
// The numeric work is done by the kernels in package compute, backed by
// gonum by default:
//   - Sum and SumFast reduce in fixed-size chunks, so the parallel variant
//     returns the same bits as the sequential one
//   - MultiplyScalar allocates its result, MultiplyInPlace writes into the
//     input's own storage
//   - MatrixMultiply runs a row-major DGEMM
package ndwrap
