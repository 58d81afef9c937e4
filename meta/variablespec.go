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

// ValueSet is a set of available literal values for a VariableSpec. Values
// must be comparable (string, int64, float64, bool — the domain of literals
// a session's TOML/API setup can produce; see literal.go).
type ValueSet map[interface{}]struct{}

// NewValueSet builds a ValueSet from a slice.
func NewValueSet(vs ...interface{}) ValueSet {
	out := make(ValueSet, len(vs))
	for _, v := range vs {
		out[v] = struct{}{}
	}
	return out
}

func (s ValueSet) Clone() ValueSet {
	out := make(ValueSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

func (s ValueSet) Equal(other ValueSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

func (s ValueSet) IsSubset(other ValueSet) bool {
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

func (s ValueSet) Intersect(other ValueSet) ValueSet {
	out := make(ValueSet)
	for v := range s {
		if _, ok := other[v]; ok {
			out[v] = struct{}{}
		}
	}
	return out
}

func (s ValueSet) Union(other ValueSet) ValueSet {
	out := s.Clone()
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Sorted returns the members in a deterministic order (by %v string form),
// used by canonical hashing and debug text.
func (s ValueSet) Sorted() []interface{} {
	out := make([]interface{}, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return fmt.Sprintf("%v", out[i]) < fmt.Sprintf("%v", out[j]) })
	return out
}

// VariableSpec is a Variable plus the set of values it is known to take —
// the atomic constraint used inside SetOfIncludedUnits (§3, §4.2).
type VariableSpec struct {
	Variable
	Available ValueSet
}

// NewVariableSpec builds a VariableSpec.
func NewVariableSpec(name string, granularity int, available ValueSet) VariableSpec {
	if available == nil {
		available = ValueSet{}
	}
	return VariableSpec{Variable: NewVariable(name, granularity), Available: available}
}

// Equal is structural over (name, granularity, value set).
func (v VariableSpec) Equal(other VariableSpec) bool {
	return v.Name == other.Name && v.Granularity == other.Granularity && v.Available.Equal(other.Available)
}

func (v VariableSpec) String() string {
	vals := v.Available.Sorted()
	strs := make([]string, len(vals))
	for i, val := range vals {
		strs[i] = fmt.Sprintf("%v", val)
	}
	return fmt.Sprintf("%s_%d: {%s}", v.Name, v.Granularity, joinComma(strs))
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// IsComplete reports whether Available equals every value the registry
// knows about for this variable at this granularity (§4.2 is_complete).
func (v VariableSpec) IsComplete(reg *Registry) (bool, error) {
	g, err := reg.GetAggregationGraph(v.Name)
	if err != nil {
		return false, err
	}
	all := g.GetAllValues(v.Granularity)
	return v.Available.Equal(ValueSet(all)), nil
}

// IsSubset implements §4.2's three-case dispatch: same granularity is a
// plain subset test; self finer than other requires every fine value to
// lift into a retained coarse value; self coarser than other requires
// every retained coarse value's full fine expansion to be contained in
// other. Returns (false, err) only for the fatal case of a missing
// registry entry; an unreachable granularity pair is a soft "no" (ok=false,
// err=nil).
func (v VariableSpec) IsSubset(other VariableSpec, reg *Registry) (bool, error) {
	if v.Name != other.Name {
		return false, nil
	}
	if v.Granularity == other.Granularity {
		return v.Available.IsSubset(other.Available), nil
	}

	g, err := reg.GetAggregationGraph(v.Name)
	if err != nil {
		return false, err
	}

	if table, ok := g.GetTable(v.Granularity, other.Granularity); ok {
		// self is finer: every fine value must lift to a coarse value of
		// other.
		for fine := range v.Available {
			found := false
			for coarse := range other.Available {
				if _, ok := table.ValueMap[coarse][fine]; ok {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		}
		return true, nil
	}

	if table, ok := g.GetTable(other.Granularity, v.Granularity); ok {
		// self is coarser: every fine value the coarse value expands to
		// must be retained by other.
		for coarse := range v.Available {
			for fine := range table.ValueMap[coarse] {
				if _, ok := other.Available[fine]; !ok {
					return false, nil
				}
			}
		}
		return true, nil
	}

	return false, nil
}

// Intersection implements §4.2 intersection: identify the finer side A and
// coarser side B via whichever table is available; result has A's
// granularity. Returns (zero, false) when no table connects the two
// granularities (and they are not equal).
func (v VariableSpec) Intersection(other VariableSpec, reg *Registry) (VariableSpec, bool, error) {
	if v.Name != other.Name {
		return VariableSpec{}, false, nil
	}
	if v.Granularity == other.Granularity {
		return NewVariableSpec(v.Name, v.Granularity, v.Available.Intersect(other.Available)), true, nil
	}

	g, err := reg.GetAggregationGraph(v.Name)
	if err != nil {
		return VariableSpec{}, false, err
	}

	fine, coarse, table, ok := g.orientFinerCoarser(v, other)
	if !ok {
		return VariableSpec{}, false, nil
	}

	result := ValueSet{}
	for a := range fine.Available {
		for b := range coarse.Available {
			if _, ok := table.ValueMap[b][a]; ok {
				result[a] = struct{}{}
				break
			}
		}
	}
	return NewVariableSpec(fine.Name, fine.Granularity, result), true, nil
}

// Union implements §4.2 union: result has the finer side's granularity,
// and contains A's own values plus the fine-side expansion of every value
// in B.
func (v VariableSpec) Union(other VariableSpec, reg *Registry) (VariableSpec, bool, error) {
	if v.Name != other.Name {
		return VariableSpec{}, false, nil
	}
	if v.Granularity == other.Granularity {
		return NewVariableSpec(v.Name, v.Granularity, v.Available.Union(other.Available)), true, nil
	}

	g, err := reg.GetAggregationGraph(v.Name)
	if err != nil {
		return VariableSpec{}, false, err
	}

	fine, coarse, table, ok := g.orientFinerCoarser(v, other)
	if !ok {
		return VariableSpec{}, false, nil
	}

	result := fine.Available.Clone()
	for b := range coarse.Available {
		for a := range table.ValueMap[b] {
			result[a] = struct{}{}
		}
	}
	return NewVariableSpec(fine.Name, fine.Granularity, result), true, nil
}

// orientFinerCoarser finds whichever of (a, other) is the finer-granularity
// side by looking for a table in either direction, returning (finer,
// coarser, table-from-finer-to-coarser, ok).
func (g *AggregationGraph) orientFinerCoarser(a, b VariableSpec) (fine, coarse VariableSpec, table *AggregationTable, ok bool) {
	if t, found := g.GetTable(a.Granularity, b.Granularity); found {
		return a, b, t, true
	}
	if t, found := g.GetTable(b.Granularity, a.Granularity); found {
		return b, a, t, true
	}
	return VariableSpec{}, VariableSpec{}, nil, false
}
