package ndwrap

import (
	"sync"
	"sync/atomic"
)

// MemoryPool manages array storage with efficient reuse.
// It maintains a free list of previously allocated buffers to reduce
// allocation overhead, and tracks current and peak usage.
type MemoryPool struct {
	mu         sync.Mutex
	allocated  map[*buffer]struct{}
	freeList   []*buffer
	totalAlloc int64
	peakAlloc  int64
}

// buffer is the storage shared by an array and all views of it. It is
// returned to its pool when the last reference is released.
type buffer struct {
	dtype DType
	i64   []int64
	f64   []float64
	refs  int32
	pool  *MemoryPool
}

var defaultPool = NewMemoryPool()

// NewMemoryPool creates a new memory pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{
		allocated: make(map[*buffer]struct{}),
	}
}

// DefaultPool returns the pool backing the package constructors.
func DefaultPool() *MemoryPool {
	return defaultPool
}

// PoolStats returns the current and peak bytes held by the default pool.
func PoolStats() (allocated, peak int64) {
	return defaultPool.Stats()
}

// allocate returns a zeroed buffer of n elements with a single reference.
func (mp *MemoryPool) allocate(dtype DType, n int) (*buffer, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if dtype != Int64 && dtype != Float64 {
		return nil, invalidArg(ErrDTypeMismatch, "Alloc", "cannot allocate %v", dtype)
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	// Round up to the minimum allocation
	capacity := (n + MinAllocationElems - 1) / MinAllocationElems * MinAllocationElems
	if capacity == 0 {
		capacity = MinAllocationElems
	}

	// Try to reuse from free list
	for i, b := range mp.freeList {
		if b.dtype != dtype || b.cap() < n {
			continue
		}
		mp.freeList = append(mp.freeList[:i], mp.freeList[i+1:]...)
		b.resize(n)
		b.refs = 1
		mp.allocated[b] = struct{}{}
		mp.track(int64(b.cap() * dtype.Size()))
		return b, nil
	}

	b := &buffer{dtype: dtype, refs: 1, pool: mp}
	switch dtype {
	case Int64:
		b.i64 = make([]int64, n, capacity)
	case Float64:
		b.f64 = make([]float64, n, capacity)
	}
	mp.allocated[b] = struct{}{}
	mp.track(int64(capacity * dtype.Size()))
	return b, nil
}

func (mp *MemoryPool) track(bytes int64) {
	mp.totalAlloc += bytes
	if mp.totalAlloc > mp.peakAlloc {
		mp.peakAlloc = mp.totalAlloc
	}
}

// free returns a buffer to the pool
func (mp *MemoryPool) free(b *buffer) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, ok := mp.allocated[b]; !ok {
		return ErrUnknownBuffer
	}
	delete(mp.allocated, b)
	mp.totalAlloc -= int64(b.cap() * b.dtype.Size())

	if len(mp.freeList) < FreeListThreshold {
		mp.freeList = append(mp.freeList, b)
	}
	return nil
}

// Stats returns memory pool statistics in bytes
func (mp *MemoryPool) Stats() (allocated, peak int64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.totalAlloc, mp.peakAlloc
}

// Live returns the number of buffers that still have references.
func (mp *MemoryPool) Live() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.allocated)
}

func (b *buffer) cap() int {
	if b.dtype == Int64 {
		return cap(b.i64)
	}
	return cap(b.f64)
}

// resize sets the length to n and zeroes the visible elements.
func (b *buffer) resize(n int) {
	if b.dtype == Int64 {
		b.i64 = b.i64[:n]
		clear(b.i64)
		return
	}
	b.f64 = b.f64[:n]
	clear(b.f64)
}

func (b *buffer) retain() {
	atomic.AddInt32(&b.refs, 1)
}

func (b *buffer) release() error {
	refs := atomic.AddInt32(&b.refs, -1)
	switch {
	case refs == 0:
		return b.pool.free(b)
	case refs < 0:
		atomic.AddInt32(&b.refs, 1)
		return ErrDoubleFree
	}
	return nil
}
