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

func valueMap(pairs map[interface{}][]interface{}) map[interface{}]map[interface{}]struct{} {
	out := make(map[interface{}]map[interface{}]struct{}, len(pairs))
	for k, vs := range pairs {
		set := make(map[interface{}]struct{}, len(vs))
		for _, v := range vs {
			set[v] = struct{}{}
		}
		out[k] = set
	}
	return out
}

func TestAggregationGraphDirectTable(t *testing.T) {
	g := newAggregationGraph("age", []int{1, 2}, [][2]int{{1, 2}})
	g.setTable(1, 2, valueMap(map[interface{}][]interface{}{
		"young": {"0-10", "11-20"},
		"old":   {"21-30"},
	}), nil)

	table, ok := g.GetTable(1, 2)
	require.True(t, ok)
	assert.Len(t, table.ValueMap["young"], 2)
}

func TestAggregationGraphChaining(t *testing.T) {
	g := newAggregationGraph("age", []int{1, 2, 3}, [][2]int{{1, 2}, {2, 3}})
	g.setTable(1, 2, valueMap(map[interface{}][]interface{}{
		"teen": {"10", "11"},
	}), nil)
	g.setTable(2, 3, valueMap(map[interface{}][]interface{}{
		"young": {"teen"},
	}), nil)

	table, ok := g.GetTable(1, 3)
	require.True(t, ok)
	assert.Equal(t, []int{2}, table.ShortcutPath)
	assert.Len(t, table.ValueMap["young"], 2)
	assert.Contains(t, table.ValueMap["young"], "10")
	assert.Contains(t, table.ValueMap["young"], "11")
}

func TestAggregationGraphNoRoute(t *testing.T) {
	g := newAggregationGraph("age", []int{1, 2, 3}, nil)
	_, ok := g.GetTable(1, 3)
	assert.False(t, ok)
}

func TestAggregationGraphReachable(t *testing.T) {
	g := newAggregationGraph("age", []int{1, 2, 3}, [][2]int{{1, 2}, {2, 3}})
	reachable := g.Reachable(1)
	assert.Contains(t, reachable, 2)
	assert.Contains(t, reachable, 3)
	assert.NotContains(t, reachable, 1)
}

func TestAggregationGraphHasKnownEdge(t *testing.T) {
	g := newAggregationGraph("age", []int{1, 2}, [][2]int{{1, 2}})
	assert.True(t, g.HasKnownEdge(1, 2))
	assert.False(t, g.HasKnownEdge(2, 1))
}
