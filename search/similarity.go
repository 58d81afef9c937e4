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
	"fmt"
	"sort"

	"github.com/dolthub/go-metapath/meta"
)

// Weights and the similarity variant enum are re-exported from meta,
// since Data.Similarity (the per-source score) and SetOfSources'
// aggregate scores (below) share the same vocabulary.
type (
	Weights           = meta.Weights
	SimilarityVariant = meta.SimilarityVariant
)

var (
	DefaultWeights     = meta.DefaultWeights
	PreferUnitsWeights = meta.PreferUnitsWeights
)

const (
	VariantBase              = meta.VariantBase
	VariantBaseCoupled       = meta.VariantBaseCoupled
	VariantIndividual        = meta.VariantIndividual
	VariantNormalized        = meta.VariantNormalized
	VariantNormalizedCoupled = meta.VariantNormalizedCoupled
)

// AggregateFunc names one of the eleven ways a SetOfSources combines its
// members' individual similarity scores against a goal (§4.7).
type AggregateFunc string

const (
	AggregateSum                 AggregateFunc = "sum"
	AggregateTopSum              AggregateFunc = "topsum"
	AggregateMax                 AggregateFunc = "max"
	AggregateMean                AggregateFunc = "mean"
	AggregateMedian              AggregateFunc = "median"
	AggregateMin                 AggregateFunc = "min"
	AggregateMinMax              AggregateFunc = "minmax"
	AggregateMaxMean             AggregateFunc = "maxmean"
	AggregateMaxMeanMin          AggregateFunc = "maxmeanmin"
	AggregateMaxPerVariable      AggregateFunc = "max_per_variable"
	AggregateMaxPerVariableBonus AggregateFunc = "max_per_variable_bonus"
)

// ScoreOptions bundles everything Score needs beyond the set and goal:
// which aggregate function, which per-source similarity variant and
// weights, and topsum's multiplier parameter (unused by the other ten).
type ScoreOptions struct {
	Aggregate        AggregateFunc
	Variant          SimilarityVariant
	Weights          Weights
	TopSumMultiplier int
}

// DefaultScoreOptions is AggregateSum over VariantBase with DefaultWeights,
// the original's default call shape.
var DefaultScoreOptions = ScoreOptions{
	Aggregate: AggregateSum,
	Variant:   VariantBase,
	Weights:   DefaultWeights,
}

// Score computes and memoizes s's aggregate similarity to goal, per
// opts.Aggregate. Like Data.Similarity, the memoized value is reused on
// later calls regardless of arguments until AddDataSource resets it —
// this mirrors the original's per-object `self.score` cache exactly.
func (s *SetOfSources) Score(goal meta.Data, reg *meta.Registry, opts ScoreOptions) (float64, error) {
	if s.scoreSet {
		return *s.score, nil
	}

	scores := make([]float64, len(s.Sources))
	for i, d := range s.Sources {
		d := d
		v, err := d.Similarity(goal, opts.Variant, opts.Weights, reg)
		if err != nil {
			return 0, err
		}
		scores[i] = v
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("score: empty set of sources")
	}

	var result float64
	var err error
	switch opts.Aggregate {
	case AggregateSum, "":
		result = sumFloats(scores)
	case AggregateTopSum:
		result = topSum(scores, opts.TopSumMultiplier, goal)
	case AggregateMax:
		result = maxFloat(scores)
	case AggregateMean:
		result = meanFloat(scores)
	case AggregateMedian:
		result = medianFloat(scores)
	case AggregateMin:
		result = minFloat(scores)
	case AggregateMinMax:
		result = maxFloat(scores) * minFloat(scores)
	case AggregateMaxMean:
		result = maxFloat(scores) + meanFloat(scores)
	case AggregateMaxMeanMin:
		result = maxFloat(scores) * meanFloat(scores) * minFloat(scores)
	case AggregateMaxPerVariable:
		result, err = s.maxPerVariable(goal, reg, opts)
	case AggregateMaxPerVariableBonus:
		result, err = s.maxPerVariableBonus(goal, reg, opts)
	default:
		return 0, fmt.Errorf("score: unrecognised aggregate %q", opts.Aggregate)
	}
	if err != nil {
		return 0, err
	}

	s.score = &result
	s.scoreSet = true
	return result, nil
}

func sumFloats(vs []float64) float64 {
	var t float64
	for _, v := range vs {
		t += v
	}
	return t
}

func maxFloat(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minFloat(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func meanFloat(vs []float64) float64 {
	return sumFloats(vs) / float64(len(vs))
}

func medianFloat(vs []float64) float64 {
	sorted := append([]float64{}, vs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// topSum sums the N highest individual scores, N = multiplier * (number
// of goal variables), guarding against a non-positive multiplier (the
// original leaves this caller-supplied with no default; 3 matches its
// docstring's example).
func topSum(vs []float64, multiplier int, goal meta.Data) float64 {
	if multiplier <= 0 {
		multiplier = 3
	}
	n := multiplier * (len(goal.Left) + len(goal.Right))
	sorted := append([]float64{}, vs...)
	sort.Float64s(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	if n <= 0 {
		return 0
	}
	return sumFloats(sorted[len(sorted)-n:])
}

// maxPerVariable implements §4.7's max_per_variable: for each left
// variable name of the goal, the maximum similarity among sources
// carrying that name, averaged. The original additionally indexes by a
// per-Data `context` tag; that extension point is not modelled here (no
// SPEC_FULL component populates Data.Context), so this computes the
// context-free form directly rather than silently requiring a context
// every caller would have to fake.
func (s *SetOfSources) maxPerVariable(goal meta.Data, reg *meta.Registry, opts ScoreOptions) (float64, error) {
	names := make([]string, 0, len(goal.Left))
	for v := range goal.Left {
		names = append(names, v.Name)
	}
	if len(names) == 0 {
		return 0, nil
	}

	var total float64
	var counted int
	for _, name := range names {
		matches := s.withVarLeft(name)
		if len(matches) == 0 {
			continue
		}
		best := -1.0
		for _, d := range matches {
			d := d
			v, err := d.Similarity(goal, opts.Variant, opts.Weights, reg)
			if err != nil {
				return 0, err
			}
			if v > best {
				best = v
			}
		}
		total += best
		counted++
	}
	if counted == 0 {
		return 0, nil
	}
	return total / float64(counted), nil
}

// maxPerVariableBonus implements §4.7's max_per_variable_bonus, which
// the original itself reimplements "disregarding context for now": for
// each goal left variable, find the best-scoring source carrying that
// name, average those best scores, then apply a bonus multiplier based
// on how much the winning sources' right-hand variables agree (the mean
// is scaled by `(bonus_mult + 1) / 2`: full agreement leaves it
// unchanged; no agreement halves it).
func (s *SetOfSources) maxPerVariableBonus(goal meta.Data, reg *meta.Registry, opts ScoreOptions) (float64, error) {
	names := make([]string, 0, len(goal.Left))
	for v := range goal.Left {
		names = append(names, v.Name)
	}
	if len(names) == 0 {
		return 0, nil
	}

	var maxes []float64
	var rightSets []meta.VariableSet
	for _, name := range names {
		matches := s.withVarLeft(name)
		if len(matches) == 0 {
			continue
		}
		best := -1.0
		var bestData meta.Data
		for _, d := range matches {
			d := d
			v, err := d.Similarity(goal, opts.Variant, opts.Weights, reg)
			if err != nil {
				return 0, err
			}
			if v > best {
				best = v
				bestData = d
			}
		}
		maxes = append(maxes, best)
		rightSets = append(rightSets, bestData.Right)
	}
	if len(maxes) == 0 {
		return 0, nil
	}

	bonusMult := 1.0
	if len(rightSets) > 1 {
		inter := rightSets[0].Clone()
		union := rightSets[0].Clone()
		for _, r := range rightSets[1:] {
			inter = inter.Intersect(r)
			union = union.Union(r)
		}
		if len(union) > 0 {
			bonusMult = float64(len(inter)) / float64(len(union))
		}
	}

	return meanFloat(maxes) * (bonusMult + 1) / 2, nil
}

func (s *SetOfSources) withVarLeft(name string) []meta.Data {
	var out []meta.Data
	for _, d := range s.Sources {
		if d.ContainsVarLeft(name) {
			out = append(out, d)
		}
	}
	return out
}
