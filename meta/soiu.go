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
	"strings"
)

// UnitSet is the sum type {Simple, Union} for "which units does a Data
// source cover" (§3, §9 "two variants... form a sum type"). Every
// operation on it (IsSubset, Intersection, Union) is a free function in
// this file that type-switches exhaustively on both operands, rather than
// a method any concrete type could selectively override — the dispatch
// lives in one place per operation.
type UnitSet interface {
	unitType() Variable
	isUnitSet()
}

// SOIU ("Simple") describes the units of UnitType for which every
// specifying variable takes one of its available values; unmentioned
// variables are unconstrained.
type SOIU struct {
	Name       string
	UnitType   Variable
	Specifying map[string]VariableSpec // keyed by specvar name: unique per SOIU (§3 invariant)
}

func (s SOIU) unitType() Variable { return s.UnitType }
func (SOIU) isUnitSet()           {}

// NewSOIU builds a simple SetOfIncludedUnits from a (possibly unsorted,
// duplicate-free by name) slice of specifying variables.
func NewSOIU(name string, unitType Variable, specifying ...VariableSpec) SOIU {
	m := make(map[string]VariableSpec, len(specifying))
	for _, sv := range specifying {
		m[sv.Name] = sv
	}
	return SOIU{Name: name, UnitType: unitType, Specifying: m}
}

func (s SOIU) String() string {
	names := make([]string, 0, len(s.Specifying))
	for n := range s.Specifying {
		names = append(names, s.Specifying[n].String())
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: {%s -- %s}", s.Name, s.UnitType, strings.Join(names, ", "))
}

func (s SOIU) get(name string) (VariableSpec, bool) {
	v, ok := s.Specifying[name]
	return v, ok
}

// SOIUUnion ("Union") is the disjunctive union of several SOIUs sharing a
// unit type (§3, §4.4). Construction raises ErrBadUnion if members
// disagree on unit type — the one place in this package that returns a
// fatal setup error from a constructor rather than a lookup.
type SOIUUnion struct {
	Name     string
	UnitType Variable
	Members  []SOIU
}

func (u SOIUUnion) unitType() Variable { return u.UnitType }
func (SOIUUnion) isUnitSet()           {}

// NewSOIUUnion builds a SOIUUnion, deduplicating members by name+value
// equality. Returns ErrBadUnion if the members do not all share one unit
// type.
func NewSOIUUnion(members ...SOIU) (SOIUUnion, error) {
	if len(members) == 0 {
		return SOIUUnion{}, ErrBadUnion.New()
	}
	unitType := members[0].UnitType
	names := make([]string, 0, len(members))
	deduped := make([]SOIU, 0, len(members))
	seen := map[string]struct{}{}
	for _, m := range members {
		if !m.UnitType.Equal(unitType) {
			return SOIUUnion{}, ErrBadUnion.New()
		}
		key := soiuIdentity(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, m)
		n := m.Name
		if strings.Contains(n, "∩") {
			n = "(" + n + ")"
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return SOIUUnion{Name: strings.Join(names, " ∪ "), UnitType: unitType, Members: deduped}, nil
}

func soiuIdentity(s SOIU) string {
	return s.String()
}

func (u SOIUUnion) String() string {
	strs := make([]string, len(u.Members))
	for i, m := range u.Members {
		strs[i] = m.String()
	}
	sort.Strings(strs)
	return fmt.Sprintf("%s: {%s}", u.Name, strings.Join(strs, ", "))
}

// MinimumGranularities returns, for each specvar name appearing in any
// member, the minimum granularity encountered (§4.4).
func (u SOIUUnion) MinimumGranularities() map[string]int {
	out := map[string]int{}
	for _, m := range u.Members {
		for name, sv := range m.Specifying {
			if cur, ok := out[name]; !ok || sv.Granularity < cur {
				out[name] = sv.Granularity
			}
		}
	}
	return out
}

// --- Equality -----------------------------------------------------------

// UnitSetEqual reports whether a and b describe the same units: a is a
// subset of b and b is a subset of a.
func UnitSetEqual(a, b UnitSet, reg *Registry) (bool, error) {
	aSubB, err := UnitSetIsSubset(a, b, reg)
	if err != nil {
		return false, err
	}
	bSubA, err := UnitSetIsSubset(b, a, reg)
	if err != nil {
		return false, err
	}
	return aSubB && bSubA, nil
}

// --- IsSubset -------------------------------------------------------------

// UnitSetIsSubset implements §4.3/§4.4's is_subset, dispatching on the
// concrete type of both operands.
func UnitSetIsSubset(a, b UnitSet, reg *Registry) (bool, error) {
	if !a.unitType().Equal(b.unitType()) {
		return false, nil
	}
	switch av := a.(type) {
	case SOIU:
		switch bv := b.(type) {
		case SOIU:
			return soiuIsSubsetSOIU(av, bv, reg)
		case SOIUUnion:
			return soiuUnionIsSubset(SOIUUnion{Name: av.Name, UnitType: av.UnitType, Members: []SOIU{av}}, bv, reg)
		}
	case SOIUUnion:
		switch bv := b.(type) {
		case SOIU:
			return soiuUnionIsSubset(av, SOIUUnion{Name: bv.Name, UnitType: bv.UnitType, Members: []SOIU{bv}}, reg)
		case SOIUUnion:
			return soiuUnionIsSubset(av, bv, reg)
		}
	}
	return false, nil
}

// soiuIsSubsetSOIU implements §4.3 is_subset(self simple, other simple):
// other may constrain at most the variables self constrains (S_o ⊆ S_s),
// and for every name in S_o, self's specvar must be a subset of other's.
func soiuIsSubsetSOIU(self, other SOIU, reg *Registry) (bool, error) {
	for name, otherSpec := range other.Specifying {
		selfSpec, ok := self.get(name)
		if !ok {
			return false, nil
		}
		sub, err := selfSpec.IsSubset(otherSpec, reg)
		if err != nil {
			return false, err
		}
		if !sub {
			return false, nil
		}
	}
	return true, nil
}

// soiuUnionIsSubset implements §4.4's two-step is_subset for unions.
func soiuUnionIsSubset(self, other SOIUUnion, reg *Registry) (bool, error) {
	minGran := other.MinimumGranularities()

	for _, s := range self.Members {
		covered := false
		for _, t := range other.Members {
			ok, err := soiuIsSubsetSOIU(s, t, reg)
			if err != nil {
				return false, err
			}
			if ok {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		// Step 2: refine to the coarsest common granularities in `other`
		// and split to atoms; every atom must be hosted by some member of
		// `other`.
		adjusted, err := soiuAdjustGranularities(s, minGran, reg)
		if err != nil {
			return false, err
		}
		atoms := soiuSplit(adjusted)
		for _, atom := range atoms {
			hosted := false
			for _, t := range other.Members {
				ok, err := soiuIsSubsetSOIU(atom, t, reg)
				if err != nil {
					return false, err
				}
				if ok {
					hosted = true
					break
				}
			}
			if !hosted {
				return false, nil
			}
		}
	}
	return true, nil
}

// --- Intersection -----------------------------------------------------------

// UnitSetIntersection implements §4.3/§4.4 intersection.
func UnitSetIntersection(a, b UnitSet, reg *Registry) (UnitSet, bool, error) {
	switch av := a.(type) {
	case SOIU:
		switch bv := b.(type) {
		case SOIU:
			return soiuIntersectionSOIU(av, bv, reg)
		case SOIUUnion:
			return soiuUnionIntersection(bv, SOIUUnion{Name: av.Name, UnitType: av.UnitType, Members: []SOIU{av}}, reg)
		}
	case SOIUUnion:
		switch bv := b.(type) {
		case SOIU:
			return soiuUnionIntersection(av, SOIUUnion{Name: bv.Name, UnitType: bv.UnitType, Members: []SOIU{bv}}, reg)
		case SOIUUnion:
			return soiuUnionIntersection(av, bv, reg)
		}
	}
	return nil, false, nil
}

func soiuIntersectionSOIU(self, other SOIU, reg *Registry) (UnitSet, bool, error) {
	if !self.UnitType.Equal(other.UnitType) {
		return nil, false, nil
	}
	if soiusEqual(self, other, reg) {
		return self, true, nil
	}
	if ok, err := soiuIsSubsetSOIU(self, other, reg); err != nil {
		return nil, false, err
	} else if ok {
		return self, true, nil
	}
	if ok, err := soiuIsSubsetSOIU(other, self, reg); err != nil {
		return nil, false, err
	} else if ok {
		return other, true, nil
	}

	names := sortedStrings([]string{self.Name, other.Name})
	resultName := strings.Join(names, " ∩ ")

	allNames := map[string]struct{}{}
	for n := range self.Specifying {
		allNames[n] = struct{}{}
	}
	for n := range other.Specifying {
		allNames[n] = struct{}{}
	}

	result := map[string]VariableSpec{}
	for n := range allNames {
		sv, okSelf := self.get(n)
		ov, okOther := other.get(n)
		switch {
		case okSelf && okOther:
			inter, ok, err := sv.Intersection(ov, reg)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			if len(inter.Available) == 0 {
				return nil, false, nil
			}
			result[n] = inter
		case okSelf:
			result[n] = sv
		case okOther:
			result[n] = ov
		}
	}

	specs := make([]VariableSpec, 0, len(result))
	for _, sv := range result {
		specs = append(specs, sv)
	}
	return NewSOIU(resultName, self.UnitType, specs...), true, nil
}

func soiuUnionIntersection(self, other SOIUUnion, reg *Registry) (UnitSet, bool, error) {
	var survivors []SOIU
	for _, a := range self.Members {
		for _, b := range other.Members {
			res, ok, err := soiuIntersectionSOIU(a, b, reg)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			survivors = append(survivors, flattenToSOIUs(res)...)
		}
	}
	if len(survivors) == 0 {
		return nil, false, nil
	}
	result, err := NewSOIUUnion(dedupeSOIUs(survivors)...)
	if err != nil {
		return nil, false, err
	}
	if len(result.Members) == 1 {
		return result.Members[0], true, nil
	}
	return result, true, nil
}

func flattenToSOIUs(u UnitSet) []SOIU {
	switch v := u.(type) {
	case SOIU:
		return []SOIU{v}
	case SOIUUnion:
		return v.Members
	}
	return nil
}

func dedupeSOIUs(in []SOIU) []SOIU {
	seen := map[string]struct{}{}
	out := make([]SOIU, 0, len(in))
	for _, s := range in {
		key := soiuIdentity(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// --- Union -----------------------------------------------------------------

// UnitSetUnion implements §4.3/§4.4 union.
func UnitSetUnion(a, b UnitSet, reg *Registry) (UnitSet, bool, error) {
	switch av := a.(type) {
	case SOIU:
		switch bv := b.(type) {
		case SOIU:
			return soiuUnionSOIU(av, bv, reg)
		case SOIUUnion:
			return soiuUnionUnion(bv, SOIUUnion{Name: av.Name, UnitType: av.UnitType, Members: []SOIU{av}}, reg)
		}
	case SOIUUnion:
		switch bv := b.(type) {
		case SOIU:
			return soiuUnionUnion(av, SOIUUnion{Name: bv.Name, UnitType: bv.UnitType, Members: []SOIU{bv}}, reg)
		case SOIUUnion:
			return soiuUnionUnion(av, bv, reg)
		}
	}
	return nil, false, nil
}

func soiuUnionSOIU(self, other SOIU, reg *Registry) (UnitSet, bool, error) {
	if !self.UnitType.Equal(other.UnitType) {
		return nil, false, nil
	}
	if soiusEqual(self, other, reg) {
		return self, true, nil
	}
	if ok, err := soiuIsSubsetSOIU(self, other, reg); err != nil {
		return nil, false, err
	} else if ok {
		return other, true, nil
	}
	if ok, err := soiuIsSubsetSOIU(other, self, reg); err != nil {
		return nil, false, err
	} else if ok {
		return self, true, nil
	}

	// General case: the union may not be rectangular; upgrade to a
	// SOIUUnion of both operands (§4.3).
	u, err := NewSOIUUnion(self, other)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func soiuUnionUnion(self, other SOIUUnion, reg *Registry) (UnitSet, bool, error) {
	combined := append(append([]SOIU{}, self.Members...), other.Members...)
	u, err := NewSOIUUnion(dedupeSOIUs(combined)...)
	if err != nil {
		return nil, false, err
	}
	if len(u.Members) == 1 {
		return u.Members[0], true, nil
	}
	return u, true, nil
}

func soiusEqual(a, b SOIU, reg *Registry) bool {
	ok1, err1 := soiuIsSubsetSOIU(a, b, reg)
	ok2, err2 := soiuIsSubsetSOIU(b, a, reg)
	return err1 == nil && err2 == nil && ok1 && ok2
}

func sortedStrings(ss []string) []string {
	out := append([]string{}, ss...)
	sort.Strings(out)
	return out
}

// --- adjust_granularities and split (§4.3) ---------------------------------

// soiuAdjustGranularities implements §4.3 adjust_granularities: for each
// (name -> desired granularity), if self has that specvar at a different
// granularity, replace it with its fine-side translation at the desired
// granularity; if self is missing the variable entirely, it was implicitly
// complete, so add it at the desired granularity with all available
// values.
func soiuAdjustGranularities(self SOIU, desired map[string]int, reg *Registry) (SOIU, error) {
	result := map[string]VariableSpec{}
	for n, sv := range self.Specifying {
		result[n] = sv
	}

	for name, desiredGran := range desired {
		current, ok := result[name]
		if ok {
			if current.Granularity == desiredGran {
				continue
			}
			g, err := reg.GetAggregationGraph(name)
			if err != nil {
				return SOIU{}, err
			}
			table, found := g.GetTable(desiredGran, current.Granularity)
			if !found {
				continue
			}
			translated := table.GetTranslatedVariables(map[interface{}]struct{}(current.Available))
			result[name] = NewVariableSpec(name, desiredGran, ValueSet(translated))
			continue
		}

		// Missing: implicitly complete. Add with all available values at
		// the desired granularity.
		g, err := reg.GetAggregationGraph(name)
		if err != nil {
			return SOIU{}, err
		}
		all := g.GetAllValues(desiredGran)
		result[name] = NewVariableSpec(name, desiredGran, ValueSet(all))
	}

	specs := make([]VariableSpec, 0, len(result))
	for _, sv := range result {
		specs = append(specs, sv)
	}
	return NewSOIU(self.Name, self.UnitType, specs...), nil
}

// soiuSplit implements §4.3 split(): the Cartesian product over all
// specifying variables' value sets, producing one single-value SOIU per
// combination, named "<name>_<i>" in product order (per original_source's
// itertools.product over the specvars). The disjunctive union of the
// output equals the input.
func soiuSplit(self SOIU) []SOIU {
	names := make([]string, 0, len(self.Specifying))
	for n := range self.Specifying {
		names = append(names, n)
	}
	sort.Strings(names)

	valueLists := make([][]interface{}, len(names))
	for i, n := range names {
		valueLists[i] = self.Specifying[n].Available.Sorted()
	}

	var combos [][]interface{}
	var recurse func(i int, cur []interface{})
	recurse = func(i int, cur []interface{}) {
		if i == len(valueLists) {
			combos = append(combos, append([]interface{}{}, cur...))
			return
		}
		for _, v := range valueLists[i] {
			recurse(i+1, append(cur, v))
		}
	}
	recurse(0, nil)

	out := make([]SOIU, 0, len(combos))
	for idx, combo := range combos {
		specs := make([]VariableSpec, len(names))
		for i, n := range names {
			gran := self.Specifying[n].Granularity
			specs[i] = NewVariableSpec(n, gran, NewValueSet(combo[i]))
		}
		out = append(out, NewSOIU(fmt.Sprintf("%s_%d", self.Name, idx), self.UnitType, specs...))
	}
	return out
}
