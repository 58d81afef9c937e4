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

package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineRowwise(t *testing.T) {
	reg := NewRegistry()
	right := NewVariableSet(NewVariable("id", 1))

	a := NewData(NewVariableSet(NewVariable("age", 1)), right, sampleUnits("north"), "a", "")
	b := NewData(NewVariableSet(NewVariable("age", 1)), right.Clone(), sampleUnits("south"), "b", "")

	row, col, err := Combine(a, b, reg)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.Left.Equal(NewVariableSet(NewVariable("age", 1))))
	_, isUnion := row.Units.(SOIUUnion)
	assert.True(t, isUnion)
	assert.Nil(t, col)
}

func TestCombineColwise(t *testing.T) {
	reg := NewRegistry()
	right := NewVariableSet(NewVariable("id", 1))
	units := sampleUnits("north")

	a := NewData(NewVariableSet(NewVariable("age", 1)), right, units, "a", "")
	b := NewData(NewVariableSet(NewVariable("income", 1)), right.Clone(), units, "b", "")

	row, col, err := Combine(a, b, reg)
	require.NoError(t, err)
	assert.Nil(t, row)
	require.NotNil(t, col)
	assert.True(t, col.Left.IsSubset(NewVariableSet(NewVariable("age", 1), NewVariable("income", 1))))
}

func TestCombineRequiresSharedRight(t *testing.T) {
	reg := NewRegistry()
	a := NewData(NewVariableSet(NewVariable("age", 1)), NewVariableSet(NewVariable("id", 1)), sampleUnits("u"), "a", "")
	b := NewData(NewVariableSet(NewVariable("age", 1)), NewVariableSet(NewVariable("person", 1)), sampleUnits("u"), "b", "")

	row, col, err := Combine(a, b, reg)
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.Nil(t, col)
}
