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

import "sort"

// AggregationTable is a finer->coarser value mapping for one (variable,
// granularity_from, granularity_to) edge: for each coarse value (the map
// key) the set of fine values it subsumes. ShortcutPath records the chain
// of intermediate granularities when the table was synthesised by
// chaining (empty for a directly-registered table).
type AggregationTable struct {
	Variable      string
	GranFrom      int
	GranTo        int
	ValueMap      map[interface{}]map[interface{}]struct{}
	ShortcutPath  []int
}

// GetTranslatedVariables returns the union of fine-side values reachable
// from the given set of coarse values: ⋃{ ValueMap[v] : v ∈ valuesTo }.
func (t *AggregationTable) GetTranslatedVariables(valuesTo map[interface{}]struct{}) map[interface{}]struct{} {
	out := make(map[interface{}]struct{})
	for v := range valuesTo {
		for fine := range t.ValueMap[v] {
			out[fine] = struct{}{}
		}
	}
	return out
}

// chain merges self and other into a new table, per §4.1's chaining
// contract. Order-insensitive in the inputs: self: X->Y, other: Y->Z (or
// the symmetric other: X->Y, self: Y->Z) both produce an X->Z table.
// Returns (nil, false) when the two tables share no common granularity or
// are not defined for the same variable.
func (t *AggregationTable) chain(other *AggregationTable) (*AggregationTable, bool) {
	if t.Variable != other.Variable {
		return nil, false
	}

	var granFrom, granMid, granTo int
	var mapFromMid, mapMidTo map[interface{}]map[interface{}]struct{}
	var shortcut []int

	switch {
	case t.GranTo == other.GranFrom:
		// self: X->Y, other: Y->Z
		granFrom, granMid, granTo = t.GranFrom, t.GranTo, other.GranTo
		mapFromMid, mapMidTo = t.ValueMap, other.ValueMap
		shortcut = append(append(append([]int{}, t.ShortcutPath...), granMid), other.ShortcutPath...)
	case t.GranFrom == other.GranTo:
		// other: X->Y, self: Y->Z
		granFrom, granMid, granTo = other.GranFrom, other.GranTo, t.GranTo
		mapFromMid, mapMidTo = other.ValueMap, t.ValueMap
		shortcut = append(append(append([]int{}, other.ShortcutPath...), granMid), t.ShortcutPath...)
	default:
		return nil, false
	}

	chained := make(map[interface{}]map[interface{}]struct{})

	// For each coarse key z in mapMidTo, chained[z] = union of mapFromMid[y]
	// for every y that mapMidTo maps z to (i.e. y in mapMidTo[z]).
	for keyTo, midValues := range mapMidTo {
		set := make(map[interface{}]struct{})
		for midValue := range midValues {
			for fine := range mapFromMid[midValue] {
				set[fine] = struct{}{}
			}
		}
		chained[keyTo] = set
	}

	return &AggregationTable{
		Variable:     t.Variable,
		GranFrom:     granFrom,
		GranTo:       granTo,
		ValueMap:     chained,
		ShortcutPath: shortcut,
	}, true
}

// edge is one AggregationGraph edge: directed, optionally carrying a
// table. An edge without a table is "known but unquantified" (§3).
type edge struct {
	table *AggregationTable
}

// AggregationGraph is a directed graph of granularities for one variable,
// with an optional AggregationTable per edge.
type AggregationGraph struct {
	Variable      string
	Granularities []int
	adjacency     map[int]map[int]*edge
}

func newAggregationGraph(variable string, granularities []int, edges [][2]int) *AggregationGraph {
	g := &AggregationGraph{
		Variable:      variable,
		Granularities: append([]int{}, granularities...),
		adjacency:     make(map[int]map[int]*edge),
	}
	for _, gran := range granularities {
		g.ensureNode(gran)
	}
	for _, e := range edges {
		g.ensureEdge(e[0], e[1])
	}
	return g
}

func (g *AggregationGraph) ensureNode(n int) {
	if _, ok := g.adjacency[n]; !ok {
		g.adjacency[n] = make(map[int]*edge)
	}
}

func (g *AggregationGraph) ensureEdge(from, to int) *edge {
	g.ensureNode(from)
	g.ensureNode(to)
	e, ok := g.adjacency[from][to]
	if !ok {
		e = &edge{}
		g.adjacency[from][to] = e
	}
	return e
}

// setTable registers a table on the edge (from, to), creating the edge if
// it did not already exist. A pre-existing table on that edge is
// overwritten (with a warning, per §3/§7). shortcut, when non-nil,
// overrides the table's own ShortcutPath (used when the caller has already
// computed it, e.g. during chaining).
func (g *AggregationGraph) setTable(from, to int, valueMap map[interface{}]map[interface{}]struct{}, shortcut []int) *AggregationTable {
	e := g.ensureEdge(from, to)
	if e.table != nil {
		registryLog.Warnf("overwriting AggregationTable for variable %q: %d -> %d", g.Variable, from, to)
	}
	t := &AggregationTable{Variable: g.Variable, GranFrom: from, GranTo: to, ValueMap: valueMap, ShortcutPath: shortcut}
	e.table = t
	return t
}

// Reachable returns the descendants of `from` in the DAG (all_aggregations
// in the original).
func (g *AggregationGraph) Reachable(from int) map[int]struct{} {
	out := make(map[int]struct{})
	g.walkForward(from, out)
	delete(out, from)
	return out
}

func (g *AggregationGraph) walkForward(n int, seen map[int]struct{}) {
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}
	for to := range g.adjacency[n] {
		g.walkForward(to, seen)
	}
}

// ReachableReversed returns the ancestors of `to` (all_aggregations_reversed).
func (g *AggregationGraph) ReachableReversed(to int) map[int]struct{} {
	out := make(map[int]struct{})
	for n := range g.adjacency {
		if n == to {
			continue
		}
		if g.hasPathQuantifiedOrNot(n, to) {
			out[n] = struct{}{}
		}
	}
	return out
}

func (g *AggregationGraph) hasPathQuantifiedOrNot(from, to int) bool {
	seen := make(map[int]struct{})
	g.walkForward(from, seen)
	_, ok := seen[to]
	return ok
}

// GetTable returns the table for (from, to) if the direct edge carries
// one. Otherwise it attempts to synthesise one by finding the shortest
// path through the subgraph restricted to edges that already carry a
// table, chaining along that path, and registering the result on a new
// direct edge (caching it). Returns (nil, false) if from == to or no route
// exists.
func (g *AggregationGraph) GetTable(from, to int) (*AggregationTable, bool) {
	if from == to {
		return nil, false
	}
	if e, ok := g.adjacency[from][to]; ok && e.table != nil {
		return e.table, true
	}

	path, ok := g.shortestQuantifiedPath(from, to)
	if !ok {
		return nil, false
	}

	compound := g.adjacency[path[0]][path[1]].table
	for i := 1; i < len(path)-1; i++ {
		next := g.adjacency[path[i]][path[i+1]].table
		chained, ok := compound.chain(next)
		if !ok {
			return nil, false
		}
		compound = chained
	}

	return g.setTable(from, to, compound.ValueMap, compound.ShortcutPath), true
}

// shortestQuantifiedPath runs a breadth-first search over only the edges
// that already carry a table, matching nx.shortest_path on the subgraph
// restricted to quantified edges in the original implementation.
func (g *AggregationGraph) shortestQuantifiedPath(from, to int) ([]int, bool) {
	type frame struct {
		node int
		path []int
	}
	visited := map[int]struct{}{from: {}}
	queue := []frame{{node: from, path: []int{from}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		neighbours := make([]int, 0, len(g.adjacency[cur.node]))
		for to, e := range g.adjacency[cur.node] {
			if e.table != nil {
				neighbours = append(neighbours, to)
			}
		}
		sort.Ints(neighbours)

		for _, n := range neighbours {
			if n == to {
				return append(append([]int{}, cur.path...), n), true
			}
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, frame{node: n, path: append(append([]int{}, cur.path...), n)})
		}
	}
	return nil, false
}

// GetAllValues returns the best available approximation of the variable's
// domain at the given granularity: the union of all fine values in tables
// where it is the "from" endpoint, and all coarse values (keys) of tables
// where it is the "to" endpoint.
func (g *AggregationGraph) GetAllValues(granularity int) map[interface{}]struct{} {
	out := make(map[interface{}]struct{})
	for to, e := range g.adjacency[granularity] {
		_ = to
		if e.table == nil {
			continue
		}
		for _, fineSet := range e.table.ValueMap {
			for fine := range fineSet {
				out[fine] = struct{}{}
			}
		}
	}
	for from, tos := range g.adjacency {
		e, ok := tos[granularity]
		if !ok || e.table == nil {
			continue
		}
		_ = from
		for coarse := range e.table.ValueMap {
			out[coarse] = struct{}{}
		}
	}
	return out
}

// HasKnownEdge reports whether (from, to) is a known edge in the DAG
// (carrying a table or not) — used by preprocess_rhs to witness
// reachability without requiring a quantified chain (§3: "presence alone
// witnesses reachability for preprocessing").
func (g *AggregationGraph) HasKnownEdge(from, to int) bool {
	_, ok := g.adjacency[from][to]
	return ok
}
