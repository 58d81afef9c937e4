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

func TestScoreSumIsTotalOfMemberSimilarities(t *testing.T) {
	goal := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "goal", "")
	a := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "a", "")
	b := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("other"), "b", "")

	s := mustSetOfSources(t, meta.NewRegistry(), []meta.Data{a, b})
	score, err := s.Score(goal, nil, ScoreOptions{Aggregate: AggregateSum, Variant: VariantBase, Weights: DefaultWeights})
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
}

func TestScoreIsMemoized(t *testing.T) {
	goal := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("u"), "goal", "")
	a := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("u"), "a", "")
	s := mustSetOfSources(t, meta.NewRegistry(), []meta.Data{a})

	first, err := s.Score(goal, nil, DefaultScoreOptions)
	require.NoError(t, err)

	otherGoal := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 9)), meta.NewVariableSet(), unitsFor("zzz"), "other", "")
	second, err := s.Score(otherGoal, nil, ScoreOptions{Aggregate: AggregateMax})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreMaxPerVariableAveragesBestPerName(t *testing.T) {
	goal := meta.NewData(
		meta.NewVariableSet(meta.NewVariable("age", 1), meta.NewVariable("income", 1)),
		meta.NewVariableSet(), unitsFor("u"), "goal", "")
	ageSrc := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "age-src", "")
	incomeSrc := meta.NewData(meta.NewVariableSet(meta.NewVariable("income", 1)), meta.NewVariableSet(), unitsFor("other"), "income-src", "")

	s := mustSetOfSources(t, meta.NewRegistry(), []meta.Data{ageSrc, incomeSrc})
	score, err := s.Score(goal, nil, ScoreOptions{Aggregate: AggregateMaxPerVariable, Variant: VariantBase, Weights: DefaultWeights})
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
}

func TestScoreRejectsEmptySet(t *testing.T) {
	goal := meta.NewData(meta.NewVariableSet(), meta.NewVariableSet(), unitsFor("u"), "goal", "")
	s := &SetOfSources{}
	_, err := s.Score(goal, nil, DefaultScoreOptions)
	assert.Error(t, err)
}

func TestTopSumCapsAtMultiplierTimesGoalVariables(t *testing.T) {
	goal := meta.NewData(meta.NewVariableSet(meta.NewVariable("age", 1)), meta.NewVariableSet(), unitsFor("u"), "goal", "")
	got := topSum([]float64{1, 2, 3, 4, 5}, 1, goal)
	assert.Equal(t, 5.0, got)
}

func TestMedianFloatEvenAndOdd(t *testing.T) {
	assert.Equal(t, 2.0, medianFloat([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, medianFloat([]float64{1, 2, 3, 4}))
}
