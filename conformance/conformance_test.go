package conformance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LynnColeArt/ndwrap/binding"
	"github.com/LynnColeArt/ndwrap/conformance"
	_ "github.com/LynnColeArt/ndwrap/exampleproject"
)

func loadSuite(t *testing.T) *conformance.Suite {
	t.Helper()
	s, err := conformance.Load(conformance.DefaultModule)
	if err != nil {
		t.Skipf("Requires example_project to be built: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	s := loadSuite(t)
	for _, c := range conformance.Cases() {
		c := c
		t.Run(c.FullName(), func(t *testing.T) {
			c.Run(context.Background(), t, s)
		})
	}
}

func TestLoadMissingModule(t *testing.T) {
	_, err := conformance.Load("missing_project")
	var ie *binding.ImportError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Equal(t, "missing_project", ie.Module)
}

func TestCaseNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range conformance.Cases() {
		assert.False(t, seen[c.FullName()], "duplicate case %s", c.FullName())
		seen[c.FullName()] = true
		assert.NotEmpty(t, c.Doc, c.FullName())
	}
	assert.Len(t, seen, 17)
}

func TestFixtures(t *testing.T) {
	fixtures, err := conformance.LoadFixtures()
	require.NoError(t, err)

	f, ok := fixtures["matrix_2x2"]
	require.True(t, ok)
	assert.Equal(t, [][]float64{{19, 22}, {43, 50}}, f.WantRows)

	empty := fixtures["int_empty"]
	arr, err := empty.Array()
	require.NoError(t, err)
	assert.Equal(t, 0, arr.Len())
	require.NoError(t, arr.Release())

	_, err = conformance.ParseFixtures([]byte(`{"x": {"dtype": "int64",}, // trailing
	}`))
	assert.NoError(t, err)

	_, err = conformance.ParseFixtures([]byte(`{"x": `))
	assert.Error(t, err)

	zeros, err := fixtures["float_zeros_10"].Array()
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 10), zeros.Float64s())
	require.NoError(t, zeros.Release())

	bad := conformance.Fixture{DType: "complex128"}
	_, err = bad.Array()
	assert.Error(t, err)
}

func TestRunnerVerbose(t *testing.T) {
	s := loadSuite(t)
	var out bytes.Buffer
	r := conformance.Runner{Suite: s, Out: &out, Verbose: true}
	results := r.Run(context.Background(), "")

	require.Len(t, results, len(conformance.Cases()))
	assert.False(t, conformance.Failed(results), out.String())
	assert.Contains(t, out.String(), "=== RUN   ViaExampleProject/1d_array_sum\n")
	assert.Contains(t, out.String(), "--- PASS: ViaExampleProject/1d_array_sum (")
}

func TestRunnerFilter(t *testing.T) {
	s := loadSuite(t)
	var out bytes.Buffer
	r := conformance.Runner{Suite: s, Out: &out, Filter: regexp.MustCompile(`^EdgeCases/`)}
	results := r.Run(context.Background(), "")

	require.Len(t, results, 3)
	for _, res := range results {
		assert.True(t, strings.HasPrefix(res.Name, "EdgeCases/"), res.Name)
		assert.Equal(t, conformance.StatusPass, res.Status)
	}
	assert.Empty(t, out.String(), "quiet runs print only failures")
}

func TestRunnerSkipsWithoutSuite(t *testing.T) {
	var out bytes.Buffer
	r := conformance.Runner{Out: &out, Verbose: true}
	results := r.Run(context.Background(), "Requires example_project to be built")

	require.NotEmpty(t, results)
	for _, res := range results {
		assert.Equal(t, conformance.StatusSkip, res.Status)
	}
	assert.False(t, conformance.Failed(results))
	assert.Contains(t, out.String(), "--- SKIP: ")
}

func TestReport(t *testing.T) {
	results := []conformance.Result{
		{Name: "a", Status: conformance.StatusPass, Duration: 1e9},
		{Name: "b", Status: conformance.StatusFail, Duration: 3e9},
		{Name: "c", Status: conformance.StatusSkip},
	}
	rep := conformance.NewReport("example_project", results)
	assert.Equal(t, 1, rep.Passed)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.Skipped)
	assert.InDelta(t, 4.0, rep.Timing.Total, 1e-9)
	assert.InDelta(t, 2.0, rep.Timing.Median, 1e-9)
	assert.InDelta(t, 3.0, rep.Timing.Max, 1e-9)
	assert.NotEmpty(t, rep.RunID)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, conformance.WriteReport(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got conformance.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rep.RunID, got.RunID)
	assert.Len(t, got.Results, 3)

	empty := conformance.NewReport("example_project", nil)
	assert.Zero(t, empty.Timing)
}

func TestPrintInstructions(t *testing.T) {
	var out bytes.Buffer
	conformance.PrintInstructions(&out, "example_project")
	assert.Contains(t, out.String(), "Prerequisites:")
	assert.Contains(t, out.String(), "TestExports")
}
