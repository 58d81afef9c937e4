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

var householdUnitType = NewVariable("household", 0)

func TestSOIUIsSubset(t *testing.T) {
	reg := NewRegistry()
	wide := NewSOIU("wide", householdUnitType, NewVariableSpec("region", 1, NewValueSet("north", "south")))
	narrow := NewSOIU("narrow", householdUnitType,
		NewVariableSpec("region", 1, NewValueSet("north")),
		NewVariableSpec("income", 1, NewValueSet("low")))

	sub, err2 := UnitSetIsSubset(narrow, wide, reg)
	require.NoError(t, err2)
	assert.True(t, sub)

	sub, err2 = UnitSetIsSubset(wide, narrow, reg)
	require.NoError(t, err2)
	assert.False(t, sub)
}

func TestSOIUIntersection(t *testing.T) {
	reg := NewRegistry()
	a := NewSOIU("a", householdUnitType, NewVariableSpec("region", 1, NewValueSet("north", "south")))
	b := NewSOIU("b", householdUnitType, NewVariableSpec("region", 1, NewValueSet("south", "east")))

	inter, ok, err := UnitSetIntersection(a, b, reg)
	require.NoError(t, err)
	require.True(t, ok)

	soiu, isSOIU := inter.(SOIU)
	require.True(t, isSOIU)
	assert.True(t, soiu.Specifying["region"].Available.Equal(NewValueSet("south")))
}

func TestSOIUUnionUpgradesToSOIUUnion(t *testing.T) {
	reg := NewRegistry()
	a := NewSOIU("a", householdUnitType,
		NewVariableSpec("region", 1, NewValueSet("north")),
		NewVariableSpec("income", 1, NewValueSet("low")))
	b := NewSOIU("b", householdUnitType,
		NewVariableSpec("region", 1, NewValueSet("south")),
		NewVariableSpec("income", 1, NewValueSet("high")))

	union, ok, err := UnitSetUnion(a, b, reg)
	require.NoError(t, err)
	require.True(t, ok)

	_, isUnion := union.(SOIUUnion)
	assert.True(t, isUnion)
}

func TestSOIUUnionRejectsMismatchedUnitType(t *testing.T) {
	a := NewSOIU("a", NewVariable("household", 0))
	b := NewSOIU("b", NewVariable("person", 0))

	_, err := NewSOIUUnion(a, b)
	assert.Error(t, err)
	assert.True(t, ErrBadUnion.Is(err))
}

func TestSOIUUnionIsSubsetViaGranularitySplit(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterAggregationGraph("region", []int{1, 2}, [][2]int{{2, 1}})
	_, err := reg.RegisterAggregationTable("region", 2, 1, map[interface{}]map[interface{}]struct{}{
		"north": {"north-a": struct{}{}, "north-b": struct{}{}},
		"south": {"south-a": struct{}{}, "south-b": struct{}{}},
	})
	require.NoError(t, err)

	// self covers both coarse regions in one member; other is split into
	// one fine-grained member per coarse region, so neither member of
	// other directly contains self's member and the match can only be
	// found by adjusting self to other's granularity and splitting it to
	// atoms.
	self := NewSOIU("coarse", householdUnitType, NewVariableSpec("region", 1, NewValueSet("north", "south")))
	north := NewSOIU("north", householdUnitType, NewVariableSpec("region", 2, NewValueSet("north-a", "north-b")))
	south := NewSOIU("south", householdUnitType, NewVariableSpec("region", 2, NewValueSet("south-a", "south-b")))
	other, err := NewSOIUUnion(north, south)
	require.NoError(t, err)

	sub, err := UnitSetIsSubset(self, other, reg)
	require.NoError(t, err)
	assert.True(t, sub)

	// Drop south-b from other so one of the split atoms is no longer
	// hosted anywhere: the subset must now fail.
	southPartial := NewSOIU("south", householdUnitType, NewVariableSpec("region", 2, NewValueSet("south-a")))
	otherPartial, err := NewSOIUUnion(north, southPartial)
	require.NoError(t, err)

	sub, err = UnitSetIsSubset(self, otherPartial, reg)
	require.NoError(t, err)
	assert.False(t, sub)
}

func TestSOIUSplitProducesAtomsCoveringTheWhole(t *testing.T) {
	s := NewSOIU("s", householdUnitType,
		NewVariableSpec("region", 1, NewValueSet("north", "south")),
		NewVariableSpec("income", 1, NewValueSet("low", "high")))

	atoms := soiuSplit(s)
	assert.Len(t, atoms, 4)
	for _, atom := range atoms {
		assert.Len(t, atom.Specifying["region"].Available, 1)
		assert.Len(t, atom.Specifying["income"].Available, 1)
	}
}
