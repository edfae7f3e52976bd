package compute

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks the instruction set extensions the kernels can use.
type CPUFeatures struct {
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
	HasSSE4    bool
	HasASIMD   bool // arm64 Advanced SIMD
}

var cpuFeatures = detectCPUFeatures()

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
		HasASIMD:   cpu.ARM64.HasASIMD,
	}
}

// Features returns the detected CPU features.
func Features() CPUFeatures {
	return cpuFeatures
}

// VectorWidth returns the number of float64 lanes of the widest usable
// vector unit.
func VectorWidth() int {
	switch {
	case cpuFeatures.HasAVX512F:
		return 8
	case cpuFeatures.HasAVX2 && cpuFeatures.HasFMA, cpuFeatures.HasAVX:
		return 4
	case cpuFeatures.HasSSE4, cpuFeatures.HasASIMD:
		return 2
	}
	return 1
}

// ChunkElems is the number of elements reduced as one unit by chunked
// reductions. It is fixed for the life of the process so that sequential
// and parallel reductions split the input identically.
func ChunkElems() int {
	return chunkElems
}

// 4096 float64s fill half of a 64KB L1 data cache; wider vector units get
// twice that.
var chunkElems = func() int {
	if VectorWidth() >= 8 {
		return 8192
	}
	return 4096
}()

// Info returns a one line description of the CPU features.
func Info() string {
	var features []string
	if cpuFeatures.HasSSE4 {
		features = append(features, "SSE4")
	}
	if cpuFeatures.HasAVX {
		features = append(features, "AVX")
	}
	if cpuFeatures.HasAVX2 {
		features = append(features, "AVX2")
	}
	if cpuFeatures.HasFMA {
		features = append(features, "FMA")
	}
	if cpuFeatures.HasAVX512F {
		features = append(features, "AVX512F")
	}
	if cpuFeatures.HasASIMD {
		features = append(features, "ASIMD")
	}
	if len(features) == 0 {
		return runtime.GOARCH + ": no SIMD extensions detected"
	}
	return runtime.GOARCH + ": " + strings.Join(features, ", ")
}
