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

// Package search implements the best-first path search over sets of
// Data sources: scoring a candidate set's similarity to a goal, deriving
// neighbouring sets via conversion/aggregation/combination/modelling,
// and driving that expansion with an A*-style open/closed loop.
package search

import (
	"sort"
	"strings"

	"github.com/dolthub/go-metapath/meta"
)

// SetOfSources is one node of the search: a set of Data, the path of
// PathSteps that produced it from the start, a parallel tree of
// iteration indices recording which search iteration added each step,
// and a memoized score (§4.7).
type SetOfSources struct {
	Sources meta.DataSet
	Path    []meta.PathStep
	Tree    []int

	score    *float64
	scoreSet bool
}

// NewSetOfSources builds the start node: a single "start set" PathStep,
// an empty tree, and no cached score. reg resolves any cross-granularity
// unit comparison needed to dedup start against itself.
func NewSetOfSources(reg *meta.Registry, start []meta.Data) (*SetOfSources, error) {
	ds, err := meta.NewDataSet(reg, start...)
	if err != nil {
		return nil, err
	}
	return &SetOfSources{
		Sources: ds,
		Path:    []meta.PathStep{{Method: "start set"}},
	}, nil
}

// Clone deep-enough-copies a SetOfSources for branching during search:
// new Sources set, new Path/Tree slices, score reset.
func (s *SetOfSources) Clone() *SetOfSources {
	return &SetOfSources{
		Sources: s.Sources.Clone(),
		Path:    append([]meta.PathStep{}, s.Path...),
		Tree:    append([]int{}, s.Tree...),
	}
}

func (s *SetOfSources) String() string {
	names := make([]string, 0, len(s.Sources))
	for _, d := range s.Sources {
		names = append(names, d.String())
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ",\n ") + "\n}"
}

// Equal reports whether two SetOfSources cover the same Data, regardless
// of order or path (§4.7).
func (s *SetOfSources) Equal(other *SetOfSources, reg *meta.Registry) (bool, error) {
	if len(s.Sources) != len(other.Sources) {
		return false, nil
	}
	for _, d := range s.Sources {
		ok, err := other.Contains(d, reg)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// AddDataSource appends dataNew to Sources (without checking whether an
// equal member is already present), appends pathStep (one or many) to
// Path, records iteration on Tree once per step, and resets the memoized
// score.
func (s *SetOfSources) AddDataSource(dataNew meta.Data, iteration int, steps ...meta.PathStep) {
	s.Sources = append(s.Sources, dataNew)
	s.Path = append(s.Path, steps...)
	for range steps {
		s.Tree = append(s.Tree, iteration)
	}
	s.score = nil
	s.scoreSet = false
}

// Contains reports whether dataSet is present by exact Data equality.
func (s *SetOfSources) Contains(dataSet meta.Data, reg *meta.Registry) (bool, error) {
	for _, d := range s.Sources {
		eq, err := d.Equal(dataSet, reg)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

// ContainsShrink is Contains' fallback: if no member equals dataSet
// exactly, it checks whether any member can be shrunk into dataSet. When
// at least one can, dataSet is added to Sources with a "subset" PathStep
// per candidate documenting the shrink, and true is returned (§4.7, §9:
// "contains_shrink must append a subset PathStep").
func (s *SetOfSources) ContainsShrink(dataSet meta.Data, reg *meta.Registry, policy meta.ShrinkPolicy, iteration int) (bool, error) {
	var candidates []meta.Data
	for _, d := range s.Sources {
		ok, err := d.Shrink(dataSet, reg, policy)
		if err != nil {
			return false, err
		}
		if ok {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	for _, c := range candidates {
		s.AddDataSource(dataSet, iteration, meta.PathStep{
			Method:       "subset",
			MethodDetail: "remove variables or units",
			Input:        []meta.Data{c},
			Output:       []meta.Data{dataSet},
		})
	}
	return true, nil
}

// GetNeighbours expands every member via meta.Data.GetNeighbours (agg
// controls whether aggregation neighbours are included), deduplicating
// against results already produced in this call, and additionally
// computes pairwise combinations of every two distinct members
// (§4.7's upper-triangle loop over set_of_sources).
func (s *SetOfSources) GetNeighbours(reg *meta.Registry, agg bool) ([]meta.Data, []meta.PathStep, error) {
	var neighbours []meta.Data
	var steps []meta.PathStep

	for _, d := range s.Sources {
		dn, ps, err := d.GetNeighbours(reg, agg)
		if err != nil {
			return nil, nil, err
		}
		for i, n := range dn {
			dup, err := containsData(neighbours, n, reg)
			if err != nil {
				return nil, nil, err
			}
			if dup {
				continue
			}
			neighbours = append(neighbours, n)
			steps = append(steps, ps[i])
		}
	}

	for i := 0; i < len(s.Sources); i++ {
		for j := i + 1; j < len(s.Sources); j++ {
			rowwise, colwise, err := meta.Combine(s.Sources[i], s.Sources[j], reg)
			if err != nil {
				return nil, nil, err
			}
			if rowwise != nil {
				neighbours = append(neighbours, *rowwise)
				steps = append(steps, meta.PathStep{
					Method:       "combine",
					MethodDetail: "rowwise",
					Input:        []meta.Data{s.Sources[i], s.Sources[j]},
					Output:       []meta.Data{*rowwise},
				})
			}
			if colwise != nil {
				neighbours = append(neighbours, *colwise)
				steps = append(steps, meta.PathStep{
					Method:       "combine",
					MethodDetail: "columnwise",
					Input:        []meta.Data{s.Sources[i], s.Sources[j]},
					Output:       []meta.Data{*colwise},
				})
			}
		}
	}

	return neighbours, steps, nil
}

// GetNeighboursModels expands every combination of Sources (taken
// model.InputData-many at a time, for each model) through Model.Apply,
// deduplicating against results already produced in this call. Returns
// nil, nil, nil if models is empty (§4.7).
func (s *SetOfSources) GetNeighboursModels(models []meta.Model, reg *meta.Registry) ([]meta.Data, []meta.PathStep, error) {
	if len(models) == 0 {
		return nil, nil, nil
	}

	var neighbours []meta.Data
	var steps []meta.PathStep

	for _, m := range models {
		n := len(m.InputData)
		for _, combo := range combinations(s.Sources, n) {
			outputs, err := m.Apply(combo, reg)
			if err != nil {
				return nil, nil, err
			}
			for _, out := range outputs {
				dup, err := containsData(neighbours, out, reg)
				if err != nil {
					return nil, nil, err
				}
				if dup {
					continue
				}
				neighbours = append(neighbours, out)
				steps = append(steps, meta.PathStep{
					Method:       "model",
					MethodDetail: m.Name,
					Input:        m.InputData,
					Output:       []meta.Data{out},
				})
			}
		}
	}

	return neighbours, steps, nil
}

func containsData(ds []meta.Data, d meta.Data, reg *meta.Registry) (bool, error) {
	for _, existing := range ds {
		eq, err := existing.Equal(d, reg)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

// combinations returns every n-element subset of items, preserving
// order, matching itertools.combinations.
func combinations(items []meta.Data, n int) [][]meta.Data {
	if n <= 0 || n > len(items) {
		return nil
	}
	var out [][]meta.Data
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]meta.Data, n)
		for i, v := range idx {
			combo[i] = items[v]
		}
		out = append(out, combo)

		i := n - 1
		for i >= 0 && idx[i] == i+len(items)-n {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < n; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
