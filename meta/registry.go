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

	"github.com/hashicorp/go-multierror"

	"github.com/dolthub/go-metapath/internal/telemetry"
)

// Registry holds the process-wide-in-spirit, but explicitly-handled state
// the rest of §3 calls "ownership": one AggregationGraph and one
// ConversionGraph per variable name, keyed the same way the original
// AggregationGraph/ConversionGraph class attributes were keyed by
// variable_name. Passing a *Registry through the API (rather than reading
// package globals) is the re-architecture called for in §9 "Process-wide
// registries": it keeps registries append-mostly, overwrite-on-duplicate,
// and test-isolated.
type Registry struct {
	aggregation map[string]*AggregationGraph
	conversion  map[string]*ConversionGraph
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		aggregation: make(map[string]*AggregationGraph),
		conversion:  make(map[string]*ConversionGraph),
	}
}

var registryLog = telemetry.Logger("registry")

// RegisterAggregationGraph creates (or overwrites) the AggregationGraph for
// a variable name. Re-registration overwrites the previous graph and its
// tables, and a warning is emitted — never a fatal error (§3 invariant,
// §7 "Warnings are emitted on registry overwrites").
func (r *Registry) RegisterAggregationGraph(variable string, granularities []int, edges [][2]int) *AggregationGraph {
	if _, exists := r.aggregation[variable]; exists {
		registryLog.Warnf("overwriting AggregationGraph for variable %q", variable)
	}
	g := newAggregationGraph(variable, granularities, edges)
	r.aggregation[variable] = g
	return g
}

// RegisterConversionGraph creates (or overwrites) the ConversionGraph for a
// variable name, with the same overwrite-with-warning semantics as
// RegisterAggregationGraph.
func (r *Registry) RegisterConversionGraph(variable string, granularities []int, edges [][2]int) *ConversionGraph {
	if _, exists := r.conversion[variable]; exists {
		registryLog.Warnf("overwriting ConversionGraph for variable %q", variable)
	}
	g := newConversionGraph(variable, granularities, edges)
	r.conversion[variable] = g
	return g
}

// RegisterAggregationTable adds (or overwrites) the table for one edge of
// the variable's AggregationGraph. The graph must already be registered.
func (r *Registry) RegisterAggregationTable(variable string, from, to int, valueMap map[interface{}]map[interface{}]struct{}) (*AggregationTable, error) {
	g, ok := r.aggregation[variable]
	if !ok {
		return nil, ErrNotInitialised.New(fmt.Sprintf("AggregationGraph %s", variable))
	}
	return g.setTable(from, to, valueMap, nil), nil
}

// GetAggregationGraph returns the registered graph for a variable name, or
// a fatal ErrNotInitialised.
func (r *Registry) GetAggregationGraph(variable string) (*AggregationGraph, error) {
	g, ok := r.aggregation[variable]
	if !ok {
		return nil, ErrNotInitialised.New(fmt.Sprintf("AggregationGraph %s", variable))
	}
	return g, nil
}

// GetConversionGraph returns the registered graph for a variable name, or a
// fatal ErrNotInitialised.
func (r *Registry) GetConversionGraph(variable string) (*ConversionGraph, error) {
	g, ok := r.conversion[variable]
	if !ok {
		return nil, ErrNotInitialised.New(fmt.Sprintf("ConversionGraph %s", variable))
	}
	return g, nil
}

// AggregationEdgeSpec and ConversionEdgeSpec describe one graph's setup
// declaratively, so RegisterSession can batch many registrations (and the
// TOML session loader in cmd/metapath-run can build them mechanically from
// a parsed document).
type AggregationEdgeSpec struct {
	Variable      string
	Granularities []int
	Edges         [][2]int
	Tables        []AggregationTableSpec
}

// AggregationTableSpec declares one AggregationTable to attach to an edge
// already present in the graph.
type AggregationTableSpec struct {
	From, To int
	ValueMap map[interface{}][]interface{}
}

// ConversionEdgeSpec describes one ConversionGraph's setup.
type ConversionEdgeSpec struct {
	Variable      string
	Granularities []int
	Edges         [][2]int
}

// RegisterSession registers many aggregation and conversion graphs/tables
// in one call, the way a session bootstrap does before a search begins.
// Every failure is collected via go-multierror rather than aborting on the
// first one, so a caller loading a large declarative session file (see
// cmd/metapath-run) gets a complete diagnostic in one pass.
func (r *Registry) RegisterSession(aggs []AggregationEdgeSpec, convs []ConversionEdgeSpec) error {
	var result *multierror.Error

	for _, a := range aggs {
		if len(a.Edges) == 0 && len(a.Granularities) > 1 {
			result = multierror.Append(result, fmt.Errorf("aggregation graph %q: %d granularities but no edges", a.Variable, len(a.Granularities)))
		}
		g := r.RegisterAggregationGraph(a.Variable, a.Granularities, a.Edges)
		for _, t := range a.Tables {
			valueMap := make(map[interface{}]map[interface{}]struct{}, len(t.ValueMap))
			for k, vs := range t.ValueMap {
				set := make(map[interface{}]struct{}, len(vs))
				for _, v := range vs {
					set[v] = struct{}{}
				}
				valueMap[k] = set
			}
			g.setTable(t.From, t.To, valueMap, nil)
		}
	}

	for _, c := range convs {
		if len(c.Edges) == 0 && len(c.Granularities) > 1 {
			result = multierror.Append(result, fmt.Errorf("conversion graph %q: %d granularities but no edges", c.Variable, len(c.Granularities)))
		}
		r.RegisterConversionGraph(c.Variable, c.Granularities, c.Edges)
	}

	return result.ErrorOrNil()
}
