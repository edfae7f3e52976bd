// Package ndwrap configuration constants
package ndwrap

import "runtime"

// Memory pool parameters
const (
	// Minimum allocation size in elements to prevent fragmentation
	MinAllocationElems = 8

	// Free list size threshold for reuse; buffers beyond it go back to the GC
	FreeListThreshold = 100
)

// Reduction parameters
const (
	// Below this many elements SumFast sums inline instead of fanning out
	ParallelThreshold = 1 << 14

	// Upper bound on goroutines used by a single SumFast call
	MaxSumWorkers = 64
)

// Numerical constants
const (
	// MatrixTolerance is the absolute tolerance for matrix product comparisons
	MatrixTolerance = 1e-3
)

// Config tunes the parallel reduction used by SumFast.
type Config struct {
	// Workers is the number of goroutines; 0 means runtime.NumCPU()
	Workers int

	// ParallelThreshold is the element count below which the sum runs inline
	ParallelThreshold int
}

// DefaultConfig returns the configuration used by SumFast.
func DefaultConfig() Config {
	return Config{
		Workers:           runtime.NumCPU(),
		ParallelThreshold: ParallelThreshold,
	}
}

func (c Config) workers() int {
	w := c.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > MaxSumWorkers {
		w = MaxSumWorkers
	}
	return w
}
