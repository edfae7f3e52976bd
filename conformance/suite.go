// Package conformance checks the array functions a project exports
// through the binding layer.
//
// The suite imports five names from a module. When the import fails the
// suite cannot run and every case is reported as skipped; otherwise each
// case calls the imported functions with fixture inputs and asserts on
// the outputs.
package conformance

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/LynnColeArt/ndwrap"
	"github.com/LynnColeArt/ndwrap/binding"
)

// DefaultModule is the module the suite imports when none is named.
const DefaultModule = "example_project"

// Names of the functions the suite needs.
const (
	SumName             = "numpy_array_sum"
	SumFastName         = "numpy_array_sum_fast"
	MultiplyScalarName  = "numpy_array_multiply_scalar"
	MultiplyInPlaceName = "numpy_array_multiply_in_place"
	MatrixMultiplyName  = "numpy_matrix_multiply"
)

// RequiredNames lists every function the suite imports.
var RequiredNames = []string{
	SumName,
	SumFastName,
	MultiplyScalarName,
	MultiplyInPlaceName,
	MatrixMultiplyName,
}

// T is the subset of *testing.T the cases use. It satisfies testify's
// require.TestingT.
type T interface {
	Helper()
	Errorf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	FailNow()
}

// Suite holds the imported functions and the fixtures.
type Suite struct {
	Module string

	sum             *binding.Function
	sumFast         *binding.Function
	multiplyScalar  *binding.Function
	multiplyInPlace *binding.Function
	matrixMultiply  *binding.Function

	fixtures map[string]Fixture
}

// Load imports the required functions from module. An import failure is
// returned as a *binding.ImportError.
func Load(module string) (*Suite, error) {
	fns, err := binding.Import(module, RequiredNames...)
	if err != nil {
		return nil, err
	}
	fixtures, err := LoadFixtures()
	if err != nil {
		return nil, err
	}
	return &Suite{
		Module:          module,
		sum:             fns[SumName],
		sumFast:         fns[SumFastName],
		multiplyScalar:  fns[MultiplyScalarName],
		multiplyInPlace: fns[MultiplyInPlaceName],
		matrixMultiply:  fns[MatrixMultiplyName],
		fixtures:        fixtures,
	}, nil
}

//go:embed testdata/cases.jsonc
var fixtureData []byte

// Fixture is one transient input with its expected output.
type Fixture struct {
	DType      string      `json:"dtype"`
	Input      []float64   `json:"input"`
	Arange     int         `json:"arange"`
	Zeros      int         `json:"zeros"`
	Factor     float64     `json:"factor"`
	A          [][]float64 `json:"a"`
	B          [][]float64 `json:"b"`
	WantScalar *float64    `json:"want_scalar"`
	Want       []float64   `json:"want"`
	WantRows   [][]float64 `json:"want_rows"`
}

// LoadFixtures parses the embedded fixture file.
func LoadFixtures() (map[string]Fixture, error) {
	return ParseFixtures(fixtureData)
}

// ParseFixtures parses fixtures written as JSON with comments and
// trailing commas.
func ParseFixtures(data []byte) (map[string]Fixture, error) {
	std, err := hujson.Standardize(append([]byte(nil), data...))
	if err != nil {
		return nil, fmt.Errorf("conformance: parse fixtures: %w", err)
	}
	var fixtures map[string]Fixture
	if err := json.Unmarshal(std, &fixtures); err != nil {
		return nil, fmt.Errorf("conformance: decode fixtures: %w", err)
	}
	return fixtures, nil
}

// Fixture returns the named fixture, failing t if it does not exist.
func (s *Suite) Fixture(t T, name string) Fixture {
	t.Helper()
	f, ok := s.fixtures[name]
	if !ok {
		t.Errorf("unknown fixture %q", name)
		t.FailNow()
	}
	return f
}

// Array builds a fresh native array from the fixture's one dimensional
// input. The caller releases it.
func (f Fixture) Array() (*ndwrap.Array, error) {
	dtype, err := ndwrap.ParseDType(f.DType)
	if err != nil {
		return nil, err
	}
	switch {
	case f.Arange > 0:
		return ndwrap.Arange(dtype, f.Arange)
	case f.Zeros > 0:
		return ndwrap.Zeros(dtype, f.Zeros)
	}
	if dtype == ndwrap.Int64 {
		return ndwrap.FromInt64s(f.Int64s()), nil
	}
	return ndwrap.FromFloat64s(f.Input), nil
}

// Int64s returns the input converted to integers.
func (f Fixture) Int64s() []int64 {
	out := make([]int64, len(f.Input))
	for i, v := range f.Input {
		out[i] = int64(v)
	}
	return out
}

func (s *Suite) call(ctx context.Context, t T, fn *binding.Function, args ...interface{}) interface{} {
	t.Helper()
	out, err := fn.Call(ctx, args...)
	if err != nil {
		t.Errorf("%s: %v", fn.Name(), err)
		t.FailNow()
	}
	return out
}
