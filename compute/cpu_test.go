package compute

import (
	"runtime"
	"strings"
	"testing"
)

func TestCPUFeatures(t *testing.T) {
	f := Features()
	t.Logf("%s, vector width %d, chunk %d", Info(), VectorWidth(), ChunkElems())

	if f.HasAVX512F && VectorWidth() != 8 {
		t.Errorf("AVX512F detected but VectorWidth() = %d", VectorWidth())
	}
	if w := VectorWidth(); w < 1 || w > 8 {
		t.Errorf("VectorWidth() = %d out of range", w)
	}
	if c := ChunkElems(); c != 4096 && c != 8192 {
		t.Errorf("ChunkElems() = %d", c)
	}
	if !strings.HasPrefix(Info(), runtime.GOARCH+": ") {
		t.Errorf("Info() = %q", Info())
	}
}

func TestChunkElemsStable(t *testing.T) {
	first := ChunkElems()
	for i := 0; i < 10; i++ {
		if ChunkElems() != first {
			t.Fatal("ChunkElems changed between calls")
		}
	}
}
