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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-metapath/meta"
)

func unitsFor(name string) meta.UnitSet {
	return meta.NewSOIU(name, meta.NewVariable("household", 0),
		meta.NewVariableSpec("region", 1, meta.NewValueSet(name)))
}

func mustSetOfSources(t *testing.T, reg *meta.Registry, ds []meta.Data) *SetOfSources {
	t.Helper()
	s, err := NewSetOfSources(reg, ds)
	require.NoError(t, err)
	return s
}

func TestNewSetOfSourcesSeedsStartStep(t *testing.T) {
	reg := meta.NewRegistry()
	d := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "d", "")
	s := mustSetOfSources(t, reg, []meta.Data{d})
	require.Len(t, s.Path, 1)
	assert.Equal(t, "start set", s.Path[0].Method)
	assert.Len(t, s.Sources, 1)
}

func TestSetOfSourcesEqualIgnoresOrder(t *testing.T) {
	reg := meta.NewRegistry()
	a := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "a", "")
	b := meta.NewData(meta.NewVariableSet(meta.NewVariable("income", 1)), meta.NewVariableSet(), unitsFor("u"), "b", "")

	s1 := mustSetOfSources(t, reg, []meta.Data{a, b})
	s2 := mustSetOfSources(t, reg, []meta.Data{b, a})
	eq, err := s1.Equal(s2, reg)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestAddDataSourceResetsScore(t *testing.T) {
	reg := meta.NewRegistry()
	d := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("u"), "d", "")
	s := mustSetOfSources(t, reg, []meta.Data{d})

	goal := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("u"), "goal", "")
	_, err := s.Score(goal, nil, DefaultScoreOptions)
	require.NoError(t, err)
	assert.True(t, s.scoreSet)

	s.AddDataSource(d.Clone(), 1)
	assert.False(t, s.scoreSet)
}

func TestContainsShrinkAddsSubsetStep(t *testing.T) {
	reg := meta.NewRegistry()
	wide := meta.NewData(
		meta.NewVariableSet(meta.NewVariable("age", 1)),
		meta.NewVariableSet(meta.NewVariable("id", 1)),
		unitsFor("u"), "wide", "")
	s := mustSetOfSources(t, reg, []meta.Data{wide})

	narrow := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "narrow", "")
	ok, err := s.ContainsShrink(narrow, reg, meta.ShrinkAllowDroppingRight, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	contains, err := s.Contains(narrow, reg)
	require.NoError(t, err)
	assert.True(t, contains)

	last := s.Path[len(s.Path)-1]
	assert.Equal(t, "subset", last.Method)
}

func TestGetNeighboursCombinesPairwise(t *testing.T) {
	reg := meta.NewRegistry()
	reg.RegisterConversionGraph("age", []int{1}, nil)
	right := meta.NewVariableSet(meta.NewVariable("id", 1))
	a := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), right, unitsFor("north"), "a", "")
	b := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), right.Clone(), unitsFor("south"), "b", "")

	s := mustSetOfSources(t, reg, []meta.Data{a, b})
	neighbours, steps, err := s.GetNeighbours(reg, false)
	require.NoError(t, err)
	require.Len(t, neighbours, len(steps))

	foundCombine := false
	for _, step := range steps {
		if step.Method == "combine" {
			foundCombine = true
		}
	}
	assert.True(t, foundCombine)
}

func TestCombinations(t *testing.T) {
	a := meta.NewData(meta.NewVariableSet(meta.NewVariable("a", 1)), meta.NewVariableSet(), unitsFor("u"), "a", "")
	b := meta.NewData(meta.NewVariableSet(meta.NewVariable("b", 1)), meta.NewVariableSet(), unitsFor("u"), "b", "")
	c := meta.NewData(meta.NewVariableSet(meta.NewVariable("c", 1)), meta.NewVariableSet(), unitsFor("u"), "c", "")

	combos := combinations([]meta.Data{a, b, c}, 2)
	assert.Len(t, combos, 3)
}

func TestCombinationsOutOfRange(t *testing.T) {
	a := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("u"), "a", "")
	assert.Nil(t, combinations([]meta.Data{a}, 2))
	assert.Nil(t, combinations([]meta.Data{a}, 0))
}
