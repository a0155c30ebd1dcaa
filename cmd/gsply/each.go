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
package main

import "golang.org/x/sync/errgroup"

// each calls fn for every path, at most r.jobs at a time, and returns the first error.
func (r *runner) each(paths []string, fn func(i int, path string) error) error {
	var g errgroup.Group
	g.SetLimit(r.jobs)
	for i, path := range paths {
		g.Go(func() error { return fn(i, path) })
	}
	return g.Wait()
}
