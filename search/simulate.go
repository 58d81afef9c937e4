// Copyright 2020-2021 Dolthub, Inc.
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

package search

import (
	"context"
	"sort"
	"time"

	"github.com/dolthub/go-metapath/meta"
)

// Timing is Simulate's report: per-run wall-clock durations plus the
// min/median/max and each run's Outcome, resolving §9 item 5's open
// question about simulate's return shape.
type Timing struct {
	Durations []time.Duration
	Outcomes  []Outcome
	Min       time.Duration
	Median    time.Duration
	Max       time.Duration
}

// Simulate runs Search n times from freshly-cloned copies of start,
// reporting wall-clock timing statistics. Because SetOfSources/Data
// mutate in place during search, each run starts from start.Clone() so
// later runs are not affected by earlier ones (the original relies on
// Python's deepcopy inside a_star for the same isolation).
func Simulate(ctx context.Context, n int, reg *meta.Registry, start *SetOfSources, goal meta.Data, opts Options) (Timing, error) {
	durations := make([]time.Duration, n)
	outcomes := make([]Outcome, n)

	for k := 0; k < n; k++ {
		begin := time.Now()
		outcome, err := Search(ctx, reg, start.Clone(), goal, opts)
		if err != nil {
			return Timing{}, err
		}
		durations[k] = time.Since(begin)
		outcomes[k] = outcome
	}

	sorted := append([]time.Duration{}, durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	t := Timing{Durations: durations, Outcomes: outcomes}
	if n > 0 {
		t.Min = sorted[0]
		t.Max = sorted[n-1]
		if n%2 == 1 {
			t.Median = sorted[n/2]
		} else {
			t.Median = (sorted[n/2-1] + sorted[n/2]) / 2
		}
	}
	return t, nil
}
