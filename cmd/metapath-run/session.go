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

package main

import (
	"fmt"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cast"

	"github.com/dolthub/go-metapath/meta"
	"github.com/dolthub/go-metapath/search"
)

// Session is a fully parsed declarative run: the registry setup, the
// starting sources, the goal, and the search options, assembled from a
// TOML document (a batch CLI describing a run, not an interactive
// widget — see SPEC_FULL.md's Non-goals).
type Session struct {
	Registry *meta.Registry
	Start    []meta.Data
	Goal     meta.Data
	Options  search.Options
}

// LoadSession parses a TOML document into a Session. Field coercion goes
// through meta.CoerceLiteral so a document's integers/floats/strings/
// bools land on the same literal domain ValueSet expects.
func LoadSession(doc []byte) (*Session, error) {
	tree, err := toml.LoadBytes(doc)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	reg := meta.NewRegistry()

	aggs, err := parseAggregationSpecs(tree.Get("aggregation"))
	if err != nil {
		return nil, err
	}
	convs, err := parseConversionSpecs(tree.Get("conversion"))
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterSession(aggs, convs); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	dataByName := map[string]meta.Data{}
	dataTree, _ := tree.Get("data").([]*toml.Tree)
	for _, dt := range dataTree {
		d, err := parseData(dt, reg)
		if err != nil {
			return nil, err
		}
		dataByName[d.Name] = d
	}

	startNames, err := stringList(tree.Get("start"))
	if err != nil {
		return nil, fmt.Errorf("load session: start: %w", err)
	}
	var start []meta.Data
	for _, n := range startNames {
		d, ok := dataByName[n]
		if !ok {
			return nil, fmt.Errorf("load session: start references unknown data %q", n)
		}
		start = append(start, d)
	}

	goalName, _ := tree.Get("goal").(string)
	goal, ok := dataByName[goalName]
	if !ok {
		return nil, fmt.Errorf("load session: goal references unknown data %q", goalName)
	}

	opts, err := parseOptions(tree.Get("search"))
	if err != nil {
		return nil, err
	}

	return &Session{Registry: reg, Start: start, Goal: goal, Options: opts}, nil
}

func parseAggregationSpecs(v interface{}) ([]meta.AggregationEdgeSpec, error) {
	trees, _ := v.([]*toml.Tree)
	out := make([]meta.AggregationEdgeSpec, 0, len(trees))
	for _, t := range trees {
		variable, _ := t.Get("variable").(string)
		grans, err := intList(t.Get("granularities"))
		if err != nil {
			return nil, fmt.Errorf("aggregation %q: granularities: %w", variable, err)
		}
		edges, err := edgeList(t.Get("edges"))
		if err != nil {
			return nil, fmt.Errorf("aggregation %q: edges: %w", variable, err)
		}
		out = append(out, meta.AggregationEdgeSpec{Variable: variable, Granularities: grans, Edges: edges})
	}
	return out, nil
}

func parseConversionSpecs(v interface{}) ([]meta.ConversionEdgeSpec, error) {
	trees, _ := v.([]*toml.Tree)
	out := make([]meta.ConversionEdgeSpec, 0, len(trees))
	for _, t := range trees {
		variable, _ := t.Get("variable").(string)
		grans, err := intList(t.Get("granularities"))
		if err != nil {
			return nil, fmt.Errorf("conversion %q: granularities: %w", variable, err)
		}
		edges, err := edgeList(t.Get("edges"))
		if err != nil {
			return nil, fmt.Errorf("conversion %q: edges: %w", variable, err)
		}
		out = append(out, meta.ConversionEdgeSpec{Variable: variable, Granularities: grans, Edges: edges})
	}
	return out, nil
}

func parseData(t *toml.Tree, reg *meta.Registry) (meta.Data, error) {
	name, _ := t.Get("name").(string)
	left, err := parseVariableSet(t.Get("left"))
	if err != nil {
		return meta.Data{}, fmt.Errorf("data %q: left: %w", name, err)
	}
	right, err := parseVariableSet(t.Get("right"))
	if err != nil {
		return meta.Data{}, fmt.Errorf("data %q: right: %w", name, err)
	}
	units, err := parseUnitSet(t.Get("units"), reg)
	if err != nil {
		return meta.Data{}, fmt.Errorf("data %q: units: %w", name, err)
	}
	description, _ := t.Get("description").(string)
	return meta.NewData(left, right, units, name, description), nil
}

func parseVariableSet(v interface{}) (meta.VariableSet, error) {
	trees, _ := v.([]*toml.Tree)
	out := meta.NewVariableSet()
	for _, t := range trees {
		name, _ := t.Get("name").(string)
		gran, err := cast.ToIntE(t.Get("granularity"))
		if err != nil {
			return nil, fmt.Errorf("variable %q: granularity: %w", name, err)
		}
		out[meta.NewVariable(name, gran)] = struct{}{}
	}
	return out, nil
}

func parseUnitSet(v interface{}, reg *meta.Registry) (meta.UnitSet, error) {
	t, ok := v.(*toml.Tree)
	if !ok {
		return nil, fmt.Errorf("missing units table")
	}
	unitTypeName, _ := t.Get("unit_type").(string)
	unitTypeGran, err := cast.ToIntE(t.Get("unit_type_granularity"))
	if err != nil {
		return nil, fmt.Errorf("unit_type_granularity: %w", err)
	}
	unitType := meta.NewVariable(unitTypeName, unitTypeGran)

	name, _ := t.Get("name").(string)

	specTrees, _ := t.Get("specifying").([]*toml.Tree)
	specs := make([]meta.VariableSpec, 0, len(specTrees))
	for _, st := range specTrees {
		svName, _ := st.Get("name").(string)
		svGran, err := cast.ToIntE(st.Get("granularity"))
		if err != nil {
			return nil, fmt.Errorf("specifying %q: granularity: %w", svName, err)
		}
		rawValues, _ := st.Get("values").([]interface{})
		values, err := meta.CoerceLiterals(rawValues)
		if err != nil {
			return nil, fmt.Errorf("specifying %q: values: %w", svName, err)
		}
		specs = append(specs, meta.NewVariableSpec(svName, svGran, values))
	}

	return meta.NewSOIU(name, unitType, specs...), nil
}

func parseOptions(v interface{}) (search.Options, error) {
	t, ok := v.(*toml.Tree)
	if !ok {
		return search.Options{MaxIterations: 100, Aggregate: search.AggregateSum, Variant: search.VariantBase, Weights: search.DefaultWeights}, nil
	}

	opts := search.Options{
		MaxIterations:     100,
		Aggregate:         search.AggregateSum,
		Variant:           search.VariantBase,
		Weights:           search.DefaultWeights,
		PreprocessRHS:     cast.ToBool(t.Get("preprocess_rhs")),
		FindMultiplePaths: cast.ToBool(t.Get("find_multiple_paths")),
		Shedding:          cast.ToBool(t.Get("shedding")),
		SheddingN:         10,
	}
	if v := t.Get("max_iterations"); v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return search.Options{}, fmt.Errorf("search.max_iterations: %w", err)
		}
		opts.MaxIterations = n
	}
	if v, ok := t.Get("aggregate").(string); ok && v != "" {
		opts.Aggregate = search.AggregateFunc(v)
	}
	if v, ok := t.Get("variant").(string); ok && v != "" {
		opts.Variant = search.SimilarityVariant(v)
	}
	if v := t.Get("shedding_n"); v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return search.Options{}, fmt.Errorf("search.shedding_n: %w", err)
		}
		opts.SheddingN = n
	}
	if v, ok := t.Get("weights_preset").(string); ok && v == "prefer_units" {
		opts.Weights = search.PreferUnitsWeights
	}
	return opts, nil
}

func stringList(v interface{}) ([]string, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list")
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, err := cast.ToStringE(r)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func intList(v interface{}) ([]int, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, nil
	}
	out := make([]int, len(raw))
	for i, r := range raw {
		n, err := cast.ToIntE(r)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func edgeList(v interface{}) ([][2]int, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, nil
	}
	out := make([][2]int, 0, len(raw))
	for _, r := range raw {
		pair, ok := r.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("expected a [from, to] pair, got %v", r)
		}
		from, err := cast.ToIntE(pair[0])
		if err != nil {
			return nil, err
		}
		to, err := cast.ToIntE(pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, [2]int{from, to})
	}
	return out, nil
}
