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

import "fmt"

// UnitsRule selects how Model.Apply reconciles the unit sets of several
// matched input sources into the output's unit set (§4.6).
type UnitsRule string

const (
	UnitsRuleExact        UnitsRule = "exact"
	UnitsRuleIntersection UnitsRule = "intersection"
	UnitsRuleUnion        UnitsRule = "union"
	UnitsRuleEqual        UnitsRule = "equal"
)

// Model declares that a fixed set of input Data, if available, yields an
// output Data — a named exception to the ordinary conversion/aggregation
// manipulations (§4.6). Modelling is deliberately declarative: every
// available model, however trivial, must be registered explicitly.
type Model struct {
	Name       string
	InputData  []Data
	OutputData Data
	UnitsRule  UnitsRule
}

// NewModel builds a Model with the given name.
func NewModel(name string, input []Data, output Data, rule UnitsRule) Model {
	return Model{Name: name, InputData: input, OutputData: output, UnitsRule: rule}
}

func (m Model) String() string {
	in := make([]string, len(m.InputData))
	for i, d := range m.InputData {
		in[i] = d.String()
	}
	return fmt.Sprintf("%s: %s -> %s", m.Name, joinArrow(in), m.OutputData.String())
}

func joinArrow(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " + "
		}
		out += s
	}
	return out
}

// Apply reports whether the model's required inputs are present (possibly
// via a shrinkable superset) in potentialInput, and if so returns the
// concrete output Data values the model can produce. A nil slice means
// the model is not applicable.
//
// The exact rule requires a literal or shrinkable match per required
// input and produces exactly one output, with the output's own unit set
// unchanged. The intersection/union/equal rules instead reconcile the
// matched sources' unit sets per SPEC_FULL's unit-set algebra, producing
// one output per combination of matches that yields a legal reconciled
// unit set (§4.6).
func (m Model) Apply(potentialInput []Data, reg *Registry) ([]Data, error) {
	switch m.UnitsRule {
	case UnitsRuleExact:
		return m.applyExact(potentialInput, reg)
	case UnitsRuleIntersection, UnitsRuleUnion, UnitsRuleEqual:
		return m.applyReconciling(potentialInput, reg)
	default:
		return nil, fmt.Errorf("model %s: unrecognised units rule %q", m.Name, m.UnitsRule)
	}
}

func (m Model) applyExact(potentialInput []Data, reg *Registry) ([]Data, error) {
	for _, required := range m.InputData {
		matched := false
		for _, have := range potentialInput {
			eq, err := have.Equal(required, reg)
			if err != nil {
				return nil, err
			}
			if eq {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		// No exact match; a shrinkable superset also satisfies the model.
		for _, have := range potentialInput {
			ok, err := have.Shrink(required, reg, ShrinkAllowDroppingRight)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return nil, nil
		}
	}
	return []Data{m.OutputData}, nil
}

func (m Model) applyReconciling(potentialInput []Data, reg *Registry) ([]Data, error) {
	unitsMatches := make([][]UnitSet, len(m.InputData))
	for i, required := range m.InputData {
		var matches []UnitSet
		for _, have := range potentialInput {
			if have.ShrinkVariablesOnly(required, ShrinkAllowDroppingRight) {
				matches = append(matches, have.Units)
			}
		}
		if len(matches) == 0 {
			return nil, nil
		}
		unitsMatches[i] = matches
	}

	var outputs []Data
	for _, perm := range cartesianUnitSets(unitsMatches) {
		unitsNew, ok, err := m.reconcile(perm, reg)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out := m.OutputData.Clone()
		out.Units = unitsNew
		out.resetScore()
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func (m Model) reconcile(perm []UnitSet, reg *Registry) (UnitSet, bool, error) {
	switch m.UnitsRule {
	case UnitsRuleIntersection:
		cur := perm[0]
		for _, next := range perm[1:] {
			result, ok, err := UnitSetIntersection(cur, next, reg)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			cur = result
		}
		return cur, true, nil
	case UnitsRuleUnion:
		cur := perm[0]
		for _, next := range perm[1:] {
			result, ok, err := UnitSetUnion(cur, next, reg)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			cur = result
		}
		return cur, true, nil
	case UnitsRuleEqual:
		first := perm[0]
		for _, next := range perm[1:] {
			eq, err := UnitSetEqual(first, next, reg)
			if err != nil {
				return nil, false, err
			}
			if !eq {
				return nil, false, nil
			}
		}
		return first, true, nil
	default:
		return nil, false, fmt.Errorf("model %s: unrecognised units rule %q", m.Name, m.UnitsRule)
	}
}

// cartesianUnitSets is itertools.product over a slice of candidate lists.
func cartesianUnitSets(lists [][]UnitSet) [][]UnitSet {
	result := [][]UnitSet{{}}
	for _, list := range lists {
		var next [][]UnitSet
		for _, prefix := range result {
			for _, v := range list {
				combo := append(append([]UnitSet{}, prefix...), v)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}

// SingleUseModel is applied once, before the search starts, typically to
// widen a ConversionGraph or AggregationGraph with an edge that is not
// ordinarily available (§4.6). Apply returns an error describing why the
// model could not be applied; a nil error means it succeeded.
type SingleUseModel interface {
	Name() string
	Apply(reg *Registry) error
}

// ConversionEdgeModel is a SingleUseModel that adds a single conversion
// edge, crediting itself in the resulting path-step text.
type ConversionEdgeModel struct {
	ModelName string
	Variable  string
	From, To  int
}

func (m ConversionEdgeModel) Name() string { return m.ModelName }

func (m ConversionEdgeModel) Apply(reg *Registry) error {
	g, err := reg.GetConversionGraph(m.Variable)
	if err != nil {
		return err
	}
	g.AddEdge(m.From, m.To, m.ModelName)
	return nil
}
