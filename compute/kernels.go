// Package compute holds the numeric kernels behind ndwrap arrays.
//
// Kernels operate on contiguous slices only; strided views are gathered by
// the caller. The gonum kernel set is always available. Building with the
// mkl and cgo tags adds an Intel MKL CBLAS set.
package compute

import (
	"fmt"
	"sort"
	"sync"

	"github.com/golang/glog"
)

// Kernels is a complete set of numeric kernels.
type Kernels interface {
	// Name identifies the kernel set, e.g. "gonum".
	Name() string

	// SumInt64 returns the wrapping sum of x.
	SumInt64(x []int64) int64

	// SumFloat64 returns the sum of x.
	SumFloat64(x []float64) float64

	// ScaleTo sets dst[i] = alpha * src[i]. dst and src have equal length.
	ScaleTo(dst []float64, alpha float64, src []float64)

	// Scale sets x[i] *= alpha.
	Scale(alpha float64, x []float64)

	// Dgemm computes C = A * B for row-major A (m×k), B (k×n), C (m×n).
	Dgemm(m, n, k int, a []float64, lda int, b []float64, ldb int, c []float64, ldc int)
}

var (
	mu       sync.RWMutex
	registry = map[string]Kernels{}
	current  Kernels
)

// Register makes a kernel set available to Use. The first registered set
// becomes current.
func Register(k Kernels) {
	mu.Lock()
	defer mu.Unlock()
	registry[k.Name()] = k
	if current == nil {
		current = k
	}
	glog.V(1).Infof("compute: registered %s kernels", k.Name())
}

// Use selects the named kernel set for all subsequent operations.
func Use(name string) error {
	mu.Lock()
	defer mu.Unlock()
	k, ok := registry[name]
	if !ok {
		return fmt.Errorf("compute: unknown kernel set %q (available: %v)", name, available())
	}
	current = k
	return nil
}

// Current returns the selected kernel set.
func Current() Kernels {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Available lists the registered kernel sets by name.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	return available()
}

func available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
