// Copyright 2026 The go-gsply Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for the chunked codec
// kernels. A Pool is created once and reused across encode and decode calls, so
// per-call goroutine spawning does not dominate small files.
//
// Work is always handed out in contiguous index ranges. ParallelChunks goes further
// and only splits on chunk boundaries, so a worker packing records never needs the
// bounds of a chunk it was not given.
//
// A nil *Pool is valid and runs everything on the calling goroutine.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelChunks(numChunks, func(first, last int) {
//	    for c := first; c < last; c++ {
//	        bounds[c] = computeBounds(c)
//	    }
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem is one range of a parallel loop.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers workers. If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers, 1 for a nil pool.
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// Close shuts the pool down after pending work completes. Calling Close more than
// once is safe. A closed pool keeps working serially.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// serial reports whether work must run on the calling goroutine.
func (p *Pool) serial() bool {
	return p == nil || p.numWorkers == 1 || p.closed.Load()
}

// ParallelFor calls fn over [0, n) split into one contiguous range per worker and
// blocks until every range is done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.NumWorkers(), n)
	if p.serial() || workers == 1 {
		fn(0, n)
		return
	}

	size := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelChunks calls fn over chunk indices [0, numChunks). Workers grab batches of
// consecutive chunks with an atomic counter, which balances uneven chunks (the last
// one may be partial) without splitting any chunk between two workers.
func (p *Pool) ParallelChunks(numChunks int, fn func(first, last int)) {
	if numChunks <= 0 {
		return
	}
	workers := min(p.NumWorkers(), numChunks)
	if p.serial() || workers == 1 {
		fn(0, numChunks)
		return
	}

	// Four batches per worker keeps the tail short without hammering the counter.
	batch := max(1, numChunks/(workers*4))

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					first := int(next.Add(int64(batch))) - batch
					if first >= numChunks {
						return
					}
					fn(first, min(first+batch, numChunks))
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
