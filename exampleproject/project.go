// Package exampleproject is a sample project exporting ndwrap array
// functions through the binding layer. Importing it registers the module
// "example_project".
package exampleproject

import (
	"context"

	"github.com/LynnColeArt/ndwrap"
	"github.com/LynnColeArt/ndwrap/binding"
)

// ModuleName is the name the project registers under.
const ModuleName = "example_project"

// Exported function names.
const (
	ArraySum             = "numpy_array_sum"
	ArraySumFast         = "numpy_array_sum_fast"
	ArrayMultiplyScalar  = "numpy_array_multiply_scalar"
	ArrayMultiplyInPlace = "numpy_array_multiply_in_place"
	MatrixMultiply       = "numpy_matrix_multiply"
)

// Names lists every exported function.
var Names = []string{
	ArraySum,
	ArraySumFast,
	ArrayMultiplyScalar,
	ArrayMultiplyInPlace,
	MatrixMultiply,
}

func init() {
	binding.Register(NewModule())
}

// NewModule builds the module without registering it.
func NewModule() *binding.Module {
	m := binding.NewModule(ModuleName)
	m.Export(ArraySum, arraySum)
	m.Export(ArraySumFast, arraySumFast, binding.ReleasesLock())
	m.Export(ArrayMultiplyScalar, arrayMultiplyScalar)
	m.Export(ArrayMultiplyInPlace, arrayMultiplyInPlace)
	m.Export(MatrixMultiply, matrixMultiply)
	return m
}

func arraySum(_ context.Context, args ...interface{}) (interface{}, error) {
	a, err := binding.ArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	return ndwrap.Sum(a)
}

// arraySumFast runs with the host lock released.
func arraySumFast(ctx context.Context, args ...interface{}) (interface{}, error) {
	a, err := binding.ArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	return ndwrap.SumFast(ctx, a)
}

func arrayMultiplyScalar(_ context.Context, args ...interface{}) (interface{}, error) {
	a, err := binding.ArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	factor, err := binding.FloatArg(args, 1)
	if err != nil {
		return nil, err
	}
	return ndwrap.MultiplyScalar(a, factor)
}

func arrayMultiplyInPlace(_ context.Context, args ...interface{}) (interface{}, error) {
	a, err := binding.ArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	factor, err := binding.FloatArg(args, 1)
	if err != nil {
		return nil, err
	}
	return nil, ndwrap.MultiplyInPlace(a, factor)
}

func matrixMultiply(_ context.Context, args ...interface{}) (interface{}, error) {
	a, err := binding.ArrayArg(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := binding.ArrayArg(args, 1)
	if err != nil {
		return nil, err
	}
	return ndwrap.MatrixMultiply(a, b)
}
