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
	"fmt"
	"sort"
)

// ConversionGraph is an undirected graph of granularities for one
// variable. Edges carry no value mapping (conversions are value-preserving
// granularity changes on the measurement side) but may be tagged with the
// name of the SingleUseModel that introduced them, so path-step text can
// credit the model.
type ConversionGraph struct {
	Variable      string
	Granularities []int
	adjacency     map[int]map[int]string // neighbour -> model name ("" if not from a model)
}

func newConversionGraph(variable string, granularities []int, edges [][2]int) *ConversionGraph {
	g := &ConversionGraph{
		Variable:      variable,
		Granularities: append([]int{}, granularities...),
		adjacency:     make(map[int]map[int]string),
	}
	for _, gran := range granularities {
		g.ensureNode(gran)
	}
	for _, e := range edges {
		g.AddEdge(e[0], e[1], "")
	}
	return g
}

func (g *ConversionGraph) ensureNode(n int) {
	if _, ok := g.adjacency[n]; !ok {
		g.adjacency[n] = make(map[int]string)
	}
}

// AddEdge adds an undirected conversion edge, optionally crediting the
// model (by name) that introduced it. Re-adding an existing edge updates
// its model credit.
func (g *ConversionGraph) AddEdge(from, to int, modelName string) {
	g.ensureNode(from)
	g.ensureNode(to)
	g.adjacency[from][to] = modelName
	g.adjacency[to][from] = modelName
}

// AllConversions returns every granularity reachable from from
// via the conversion graph's connected component, excluding the starting
// node itself.
func (g *ConversionGraph) AllConversions(from int) map[int]struct{} {
	out := make(map[int]struct{})
	seen := map[int]struct{}{from: {}}
	queue := []int{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for next := range g.adjacency[n] {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			out[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return out
}

// CheckConversion reports whether a path exists between the two
// granularities.
func (g *ConversionGraph) CheckConversion(from, to int) bool {
	if from == to {
		return true
	}
	_, ok := g.AllConversions(from)[to]
	return ok
}

// GetPathDetail computes the PathStep method and method_detail text for a
// conversion between two granularities, crediting any model-introduced
// edge along the shortest path (§4.7, §6 method_detail grammar).
func (g *ConversionGraph) GetPathDetail(from, to int) (method, detail string) {
	path, ok := g.shortestPath(from, to)
	if !ok || len(path) < 2 {
		return "conversion", fmt.Sprintf("%s: %d→%d", g.Variable, from, to)
	}

	method = "conversion"
	var parts []string
	for i := 0; i < len(path)-1; i++ {
		modelName := g.adjacency[path[i]][path[i+1]]
		if modelName != "" {
			method = "model"
			parts = append(parts, fmt.Sprintf("%s %s: %d→%d", modelName, g.Variable, path[i], path[i+1]))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %d→%d", g.Variable, path[i], path[i+1]))
		}
	}

	detail = joinSemicolon(parts)
	return method, detail
}

func joinSemicolon(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "; "
		}
		out += p
	}
	return out
}

func (g *ConversionGraph) shortestPath(from, to int) ([]int, bool) {
	if from == to {
		return []int{from}, true
	}
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
		for n := range g.adjacency[cur.node] {
			neighbours = append(neighbours, n)
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
