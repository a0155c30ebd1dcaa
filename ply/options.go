// Copyright 2026 go-gsply Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package ply

import (
	"io"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/ajroetker/go-gsply/gs/contrib/shquant"
	"github.com/ajroetker/go-gsply/gs/contrib/workerpool"
	"github.com/sirupsen/logrus"
)

// ParallelThreshold is the number of Gaussians below which encode and decode run on
// the calling goroutine even when workers are available.
var ParallelThreshold = 16 * 1024

// Option configures Read, Write and the in-memory codec functions.
type Option func(*options)

type options struct {
	logger      logrus.FieldLogger
	workers     int
	pool        *workerpool.Pool
	shMode      shquant.Mode
	spatialSort bool
	compressed  bool
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}()

func newOptions(opts []Option) *options {
	o := &options{logger: discard}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger. Encode and decode report at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers sets how many goroutines a call may use. 1 forces serial execution and
// n <= 0 uses GOMAXPROCS. The pool is created per call; use WithPool to share one.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPool runs the call on an existing pool. It overrides WithWorkers and
// ParallelThreshold.
func WithPool(p *workerpool.Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithSHMode selects the higher-order SH byte codec. The default,
// shquant.ModeCompatible, is the only one other readers decode without bias.
func WithSHMode(m shquant.Mode) Option {
	return func(o *options) { o.shMode = m }
}

// WithSpatialSort reorders Gaussians along a Morton curve before compressing so that
// each chunk covers a small region of space. Files written this way hold the
// Gaussians in sorted order; Compressed.Permutation maps them back.
func WithSpatialSort(enabled bool) Option {
	return func(o *options) { o.spatialSort = enabled }
}

// WithCompression makes Write and WriteFile produce the compressed layout.
func WithCompression(enabled bool) Option {
	return func(o *options) { o.compressed = enabled }
}

// acquirePool returns the pool to run n Gaussians on, nil for serial execution, and
// the function releasing it.
func (o *options) acquirePool(n int) (*workerpool.Pool, func()) {
	if o.pool != nil {
		return o.pool, func() {}
	}
	if o.workers == 1 || n < ParallelThreshold || gs.CurrentLevel() == gs.DispatchSerial {
		return nil, func() {}
	}
	p := workerpool.New(o.workers)
	return p, p.Close
}
