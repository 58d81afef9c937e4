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

func TestVariableEqual(t *testing.T) {
	a := NewVariable("age", 1)
	b := NewVariable("age", 1)
	c := NewVariable("age", 2)
	d := NewVariable("income", 1)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.True(t, a.EqualName(c))
	assert.False(t, a.EqualName(d))
}

func TestVariableString(t *testing.T) {
	assert.Equal(t, "age1", NewVariable("age", 1).String())
}

func TestVariableSetOps(t *testing.T) {
	a := NewVariableSet(NewVariable("age", 1), NewVariable("region", 2))
	b := NewVariableSet(NewVariable("region", 2), NewVariable("income", 1))

	inter := a.Intersect(b)
	require.Len(t, inter, 1)
	assert.True(t, inter.Contains(NewVariable("region", 2)))

	union := a.Union(b)
	assert.Len(t, union, 3)

	assert.True(t, NewVariableSet(NewVariable("region", 2)).IsSubset(a))
	assert.False(t, a.IsSubset(b))
}

func TestVariableSetSorted(t *testing.T) {
	a := NewVariableSet(NewVariable("region", 2), NewVariable("age", 1))
	sorted := a.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "age1", sorted[0].String())
	assert.Equal(t, "region2", sorted[1].String())
}
