package ndwrap

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/LynnColeArt/ndwrap/compute"
)

// chunks splits n elements into fixed-size ranges. Sum and SumFast share
// the split so they add the same partials in the same order.
func chunks(n int) [][2]int {
	size := compute.ChunkElems()
	out := make([][2]int, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// forEachChunk runs fn for every chunk index. With workers > 1 the chunks
// are divided into contiguous runs, one goroutine per run, in the manner
// of a kernel launch. Cancellation is checked before each chunk.
func forEachChunk(ctx context.Context, nChunks, workers int, fn func(c int)) error {
	if workers > nChunks {
		workers = nChunks
	}
	if workers <= 1 {
		for c := 0; c < nChunks; c++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(c)
		}
		return nil
	}

	chunksPerWorker := (nChunks + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunksPerWorker
		end := start + chunksPerWorker
		if end > nChunks {
			end = nChunks
		}
		go func() {
			defer wg.Done()
			for c := start; c < end; c++ {
				if ctx.Err() != nil {
					return
				}
				fn(c)
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// reduce sums a in chunks using the given number of workers.
func reduce(ctx context.Context, a *Array, workers int) (Scalar, error) {
	k := compute.Current()

	if a.DType() == Int64 {
		x := a.contiguousInt64s()
		parts := chunks(len(x))
		partials := make([]int64, len(parts))
		err := forEachChunk(ctx, len(parts), workers, func(c int) {
			partials[c] = k.SumInt64(x[parts[c][0]:parts[c][1]])
		})
		if err != nil {
			return Scalar{}, err
		}
		var total int64
		for _, p := range partials {
			total += p
		}
		return IntScalar(total), nil
	}

	x := a.contiguousFloat64s()
	parts := chunks(len(x))
	partials := make([]float64, len(parts))
	err := forEachChunk(ctx, len(parts), workers, func(c int) {
		partials[c] = k.SumFloat64(x[parts[c][0]:parts[c][1]])
	})
	if err != nil {
		return Scalar{}, err
	}
	var total float64
	for _, p := range partials {
		total += p
	}
	return FloatScalar(total), nil
}

// SumFast computes the same value as Sum, bit for bit, but reduces large
// inputs on several goroutines so the caller's other work can proceed.
func SumFast(ctx context.Context, a *Array) (Scalar, error) {
	return SumFastWith(ctx, a, DefaultConfig())
}

// SumFastWith is SumFast with an explicit configuration.
func SumFastWith(ctx context.Context, a *Array, cfg Config) (Scalar, error) {
	if err := a.check("SumFast"); err != nil {
		return Scalar{}, err
	}
	workers := 1
	if a.Size() >= cfg.ParallelThreshold {
		workers = cfg.workers()
		if glog.V(2) {
			glog.Infof("SumFast: %d elements, %d chunks of %d, %d workers",
				a.Size(), len(chunks(a.Size())), compute.ChunkElems(), workers)
		}
	}
	s, err := reduce(ctx, a, workers)
	if err != nil {
		return Scalar{}, NewExecutionError("SumFast", "reduction interrupted", err)
	}
	return s, nil
}
