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

func TestCanonicalHashAgreesWithEqual(t *testing.T) {
	left := NewVariableSet(NewVariable("age", 1), NewVariable("region", 2))
	right := NewVariableSet(NewVariable("id", 1))

	a := NewData(left, right, sampleUnits("u"), "a", "")
	b := NewData(left.Clone(), right.Clone(), sampleUnits("u"), "b", "different description")

	eq, err := a.Equal(b, NewRegistry())
	require.NoError(t, err)
	require.True(t, eq)

	ha, err := a.CanonicalHash()
	require.NoError(t, err)
	hb, err := b.CanonicalHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestCanonicalHashIgnoresUnionMemberOrderAndName(t *testing.T) {
	m1 := NewSOIU("m1", NewVariable("household", 0), NewVariableSpec("region", 1, NewValueSet("north")))
	m2 := NewSOIU("m2", NewVariable("household", 0), NewVariableSpec("region", 1, NewValueSet("south")))

	forward, err := NewSOIUUnion(m1, m2)
	require.NoError(t, err)
	backward, err := NewSOIUUnion(m2, m1)
	require.NoError(t, err)

	a := NewData(NewVariableSet(NewVariable("age", 1)), NewVariableSet(), forward, "a", "")
	b := NewData(NewVariableSet(NewVariable("age", 1)), NewVariableSet(), backward, "b", "")

	eq, err := a.Equal(b, NewRegistry())
	require.NoError(t, err)
	require.True(t, eq)

	ha, err := a.CanonicalHash()
	require.NoError(t, err)
	hb, err := b.CanonicalHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestCanonicalHashDiffersOnSemanticChange(t *testing.T) {
	a := NewData(NewVariableSet(NewVariable("age", 1)), NewVariableSet(), sampleUnits("u"), "a", "")
	b := NewData(NewVariableSet(NewVariable("age", 2)), NewVariableSet(), sampleUnits("u"), "b", "")

	ha, err := a.CanonicalHash()
	require.NoError(t, err)
	hb, err := b.CanonicalHash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}
