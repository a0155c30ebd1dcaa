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
package gs

import (
	"os"
	"runtime"
	"strconv"
)

// DispatchLevel is the execution strategy used by the codec kernels.
type DispatchLevel int

const (
	// DispatchSerial runs every kernel on the calling goroutine.
	DispatchSerial DispatchLevel = iota

	// DispatchParallel shards kernels by chunk range across a worker pool.
	DispatchParallel
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchSerial:
		return "serial"
	case DispatchParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// currentLevel is the execution strategy for this process.
// Set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

// currentName is the vector instruction set the host reports, for diagnostics.
// Set by init() in dispatch_*.go files.
var currentName string

// CurrentLevel returns the execution strategy in effect.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentName returns the host vector instruction set, such as "avx2" or "neon".
func CurrentName() string {
	return currentName
}

// NoParallelEnv checks if the GSPLY_NO_PARALLEL environment variable is set.
// When set, the codec runs serially regardless of the number of CPUs.
func NoParallelEnv() bool {
	val := os.Getenv("GSPLY_NO_PARALLEL")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func selectLevel() DispatchLevel {
	if NoParallelEnv() || runtime.NumCPU() < 2 {
		return DispatchSerial
	}
	return DispatchParallel
}
