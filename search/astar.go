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
	"fmt"
	"sort"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/dolthub/go-metapath/internal/telemetry"
	"github.com/dolthub/go-metapath/meta"
)

var astarLog = telemetry.Logger("astar")

// Status classifies how a Search call ended (§5, §9's request for a
// typed outcome rather than the original's mixed return value — a
// SetOfSources on success, a list on find-multiple-paths, or a plain
// string on failure).
type Status int

const (
	// StatusFound means the goal, or a set that shrinks to it, was reached.
	// With FindMultiplePaths it is also the status when the iteration
	// budget runs out, and Results then holds every success so far,
	// which may be none.
	StatusFound Status = iota
	// StatusExhausted means the open list emptied before the goal was
	// found — either no path exists, or shedding discarded it — or that
	// ctx was cancelled, in which case Message holds ctx.Err().
	StatusExhausted
	// StatusBudgetExceeded means max_iteration iterations elapsed first.
	StatusBudgetExceeded
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	case StatusBudgetExceeded:
		return "budget-exceeded"
	default:
		return "unknown"
	}
}

// Outcome is the Search result: Status plus whichever of Result/Results
// applies, and a diagnostic Message for the non-success statuses (§5,
// §6's method_detail-grammar-adjacent audit text).
type Outcome struct {
	Status     Status
	Result     *SetOfSources
	Results    []*SetOfSources // populated when Options.FindMultiplePaths
	Iterations int
	Message    string
}

// Options configures one Search call (§4.7/§5, with a_star.py's keyword
// arguments made explicit fields).
type Options struct {
	Models            []meta.Model
	SingleUseModels   []meta.SingleUseModel
	MaxIterations     int
	Aggregate         AggregateFunc
	Variant           SimilarityVariant
	Weights           Weights
	TopSumMultiplier  int
	PreprocessRHS     bool
	FindMultiplePaths bool
	Shedding          bool
	SheddingN         int
	ShrinkPolicy      meta.ShrinkPolicy
	Audit             AuditMethod
}

// scoreOptions projects the scoring-relevant fields of Options into a
// ScoreOptions for SetOfSources.Score.
func (o Options) scoreOptions() ScoreOptions {
	weights := o.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights
	}
	variant := o.Variant
	if variant == "" {
		variant = VariantBase
	}
	aggregate := o.Aggregate
	if aggregate == "" {
		aggregate = AggregateSum
	}
	return ScoreOptions{Aggregate: aggregate, Variant: variant, Weights: weights, TopSumMultiplier: o.TopSumMultiplier}
}

// Search runs the best-first path search from start toward goal (§4.7,
// §5). Single-use models are applied once, up front, against reg;
// ordinary models are tried as neighbours before the conversion/
// aggregation/combination expansion on every iteration.
func Search(ctx context.Context, reg *meta.Registry, start *SetOfSources, goal meta.Data, opts Options) (Outcome, error) {
	if opts.MaxIterations <= 0 {
		return Outcome{}, fmt.Errorf("search: max iterations must be positive")
	}

	var multiUseModels []meta.Model
	for _, m := range opts.SingleUseModels {
		if err := m.Apply(reg); err != nil {
			return Outcome{}, fmt.Errorf("search: single-use model %s: %w", m.Name(), err)
		}
	}
	multiUseModels = opts.Models

	agg := true
	open := []*SetOfSources{start}
	if opts.PreprocessRHS {
		prepped, err := prepRHS(start, goal, reg, opts.ShrinkPolicy)
		if err != nil {
			return Outcome{}, err
		}
		agg = false
		open = []*SetOfSources{prepped}
		astarLog.Debugf("preprocessed start set into %s", prepped.String())
	}

	var closed []*SetOfSources
	var successes []*SetOfSources
	scoreOpts := opts.scoreOptions()

	for i := 0; i < opts.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return Outcome{Status: StatusExhausted, Iterations: i, Message: ctx.Err().Error()}, nil
		default:
		}

		if len(open) == 0 {
			msg := fmt.Sprintf("open list was empty after %d iterations", i)
			if opts.Shedding {
				msg += fmt.Sprintf("; shedding kept only the best %d branches, try again with more or no shedding", opts.SheddingN)
			} else {
				msg += "; no more solutions will be found"
			}
			if opts.FindMultiplePaths && len(successes) > 0 {
				return Outcome{Status: StatusFound, Results: successes, Iterations: i, Message: msg}, nil
			}
			return Outcome{Status: StatusExhausted, Iterations: i, Message: msg}, nil
		}

		span, spanCtx := opentracing.StartSpanFromContext(ctx, "astar.iteration")
		span.SetTag("iteration", i)
		span.SetTag("open_list_size", len(open))
		ctx = spanCtx

		scores := make([]float64, len(open))
		for idx, set := range open {
			v, err := set.Score(goal, reg, scoreOpts)
			if err != nil {
				span.Finish()
				return Outcome{}, err
			}
			scores[idx] = v
		}

		currentIndex := firstMaxIndex(scores)
		current := open[currentIndex]

		if opts.Shedding && len(open) > opts.SheddingN {
			open = sheddedTop(open, scores, opts.SheddingN)
			currentIndex = indexOf(open, current)
		}
		if currentIndex >= 0 {
			open = removeAt(open, currentIndex)
		}
		closed = append(closed, current)

		found, err := current.Contains(goal, reg)
		if err != nil {
			span.Finish()
			return Outcome{}, err
		}
		if !found {
			found, err = current.ContainsShrink(goal, reg, opts.ShrinkPolicy, i)
			if err != nil {
				span.Finish()
				return Outcome{}, err
			}
		}

		if found {
			span.Finish()
			if opts.FindMultiplePaths {
				successes = append(successes, current)
				continue
			}
			auditPath(current, opts.Audit)
			return Outcome{Status: StatusFound, Result: current, Iterations: i + 1}, nil
		}

		nModel, err := expandModelNeighbours(current, multiUseModels, reg, i, &open, closed)
		if err != nil {
			span.Finish()
			return Outcome{}, err
		}

		if nModel == 0 {
			nReg, err := expandRegularNeighbours(current, reg, agg, i, &open, closed)
			if err != nil {
				span.Finish()
				return Outcome{}, err
			}
			if !agg && nReg == 0 {
				if _, err := expandRegularNeighbours(current, reg, true, i, &open, closed); err != nil {
					span.Finish()
					return Outcome{}, err
				}
			}
		}

		span.Finish()
	}

	if opts.FindMultiplePaths {
		return Outcome{Status: StatusFound, Results: successes, Iterations: opts.MaxIterations}, nil
	}
	return Outcome{Status: StatusBudgetExceeded, Iterations: opts.MaxIterations,
		Message: fmt.Sprintf("did not finish within %d iterations", opts.MaxIterations)}, nil
}

// prepRHS aggregates each start-set source's right-hand variables as far
// as possible toward the goal's right-hand variables, before search
// begins (§9 item 5's grounding, a_star.py's prep_rhs).
func prepRHS(start *SetOfSources, goal meta.Data, reg *meta.Registry, policy meta.ShrinkPolicy) (*SetOfSources, error) {
	result := start.Clone()

	for _, d := range start.Sources {
		updated := d.Clone()
		var steps []meta.PathStep
		changed := false

		for v := range d.Right {
			g, err := reg.GetAggregationGraph(v.Name)
			if err != nil {
				return nil, err
			}
			for target := range goal.Right {
				if target.Name != v.Name {
					continue
				}
				reachable := g.Reachable(v.Granularity)
				if _, ok := reachable[target.Granularity]; !ok {
					continue
				}
				step, err := updated.AggregateVariable(reg, v, target)
				if err != nil {
					return nil, err
				}
				steps = append(steps, step)
				changed = true
				break
			}
		}

		if changed {
			result.AddDataSource(updated, -1, steps...)
		}
	}

	return result, nil
}

func expandModelNeighbours(current *SetOfSources, models []meta.Model, reg *meta.Registry, iteration int, open *[]*SetOfSources, closed []*SetOfSources) (int, error) {
	neighbours, steps, err := current.GetNeighboursModels(models, reg)
	if err != nil {
		return 0, err
	}
	n := 0
	for i, nb := range neighbours {
		candidate := current.Clone()
		candidate.AddDataSource(nb, iteration, steps[i])
		dup, err := containsEitherSet(*open, closed, candidate, reg)
		if err != nil {
			return 0, err
		}
		if dup {
			continue
		}
		*open = append(*open, candidate)
		n++
	}
	return n, nil
}

func expandRegularNeighbours(current *SetOfSources, reg *meta.Registry, agg bool, iteration int, open *[]*SetOfSources, closed []*SetOfSources) (int, error) {
	neighbours, steps, err := current.GetNeighbours(reg, agg)
	if err != nil {
		return 0, err
	}
	n := 0
	for i, nb := range neighbours {
		candidate := current.Clone()
		candidate.AddDataSource(nb, iteration, steps[i])
		dup, err := containsEitherSet(*open, closed, candidate, reg)
		if err != nil {
			return 0, err
		}
		if dup {
			continue
		}
		*open = append(*open, candidate)
		n++
	}
	return n, nil
}

func containsEitherSet(open, closed []*SetOfSources, s *SetOfSources, reg *meta.Registry) (bool, error) {
	dup, err := containsSet(open, s, reg)
	if err != nil || dup {
		return dup, err
	}
	return containsSet(closed, s, reg)
}

func containsSet(list []*SetOfSources, s *SetOfSources, reg *meta.Registry) (bool, error) {
	for _, existing := range list {
		eq, err := existing.Equal(s, reg)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

// firstMaxIndex returns the index of the first strictly-greatest score,
// matching Python's max(..., key=...) tie-break on a stable sequence
// (§6 item 2).
func firstMaxIndex(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

func sheddedTop(open []*SetOfSources, scores []float64, n int) []*SetOfSources {
	type scored struct {
		set   *SetOfSources
		score float64
	}
	tmp := make([]scored, len(open))
	for i, s := range open {
		tmp[i] = scored{s, scores[i]}
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].score > tmp[j].score })
	if n > len(tmp) {
		n = len(tmp)
	}
	out := make([]*SetOfSources, n)
	for i := 0; i < n; i++ {
		out[i] = tmp[i].set
	}
	return out
}

func indexOf(list []*SetOfSources, s *SetOfSources) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func removeAt(list []*SetOfSources, i int) []*SetOfSources {
	if i < 0 {
		return list
	}
	return append(append([]*SetOfSources{}, list[:i]...), list[i+1:]...)
}
