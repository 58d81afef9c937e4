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

	"github.com/mitchellh/hashstructure"
)

// canonicalData is the hashstructure input for a Data value: sorted member
// slices standing in for the unordered Left/Right sets, and a sorted slice
// of canonicalSOIU standing in for the unit set's member atoms regardless
// of whether it started life as a bare SOIU or a SOIUUnion. Neither leg
// carries the display Name a SOIU/SOIUUnion/Variable happens to have been
// given, since Name is a label synthesised by algebra operations and plays
// no part in semantic identity.
type canonicalData struct {
	Left  []string
	Right []string
	Units []canonicalSOIU
}

// canonicalSpec is the canonical encoding of a VariableSpec: its available
// values sorted by string form, so two specs with the same values added in
// a different order encode identically.
type canonicalSpec struct {
	Name        string
	Granularity int
	Values      []string
}

// canonicalSOIU is the canonical encoding of one SOIU atom: its specifying
// variables sorted by name. A SOIUUnion canonicalises to a sorted slice of
// these, one per member, so member order never affects the hash.
type canonicalSOIU struct {
	UnitType   string
	Specifying []canonicalSpec
}

// CanonicalHash computes a hash from canonicalised field tuples: two Data
// values with the same variables and the same unit atoms hash equal,
// regardless of Left/Right insertion order, SOIUUnion member order, or
// whether a single unit was wrapped in a one-member union somewhere along
// the way. The atoms are hashed as written, so Equal values whose unit
// sets are stated at different granularities, or split into union
// members differently, hash differently.
func (d Data) CanonicalHash() (uint64, error) {
	c := canonicalData{
		Left:  stringifyVariables(d.Left),
		Right: stringifyVariables(d.Right),
		Units: canonicalizeUnitSet(d.Units),
	}
	h, err := hashstructure.Hash(c, nil)
	if err != nil {
		return 0, fmt.Errorf("canonical hash: %w", err)
	}
	return h, nil
}

func stringifyVariables(s VariableSet) []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, v := range sorted {
		out[i] = v.String()
	}
	return out
}

// canonicalizeUnitSet flattens a SOIU or SOIUUnion to its member atoms and
// canonicalises each, then sorts the result so member order is never part
// of the hash input.
func canonicalizeUnitSet(u UnitSet) []canonicalSOIU {
	if u == nil {
		return nil
	}
	atoms := flattenToSOIUs(u)
	out := make([]canonicalSOIU, len(atoms))
	for i, a := range atoms {
		out[i] = canonicalizeSOIU(a)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprintf("%+v", out[i]) < fmt.Sprintf("%+v", out[j])
	})
	return out
}

func canonicalizeSOIU(s SOIU) canonicalSOIU {
	names := make([]string, 0, len(s.Specifying))
	for n := range s.Specifying {
		names = append(names, n)
	}
	sort.Strings(names)

	specs := make([]canonicalSpec, len(names))
	for i, n := range names {
		sv := s.Specifying[n]
		vals := sv.Available.Sorted()
		strs := make([]string, len(vals))
		for j, v := range vals {
			strs[j] = fmt.Sprintf("%v", v)
		}
		specs[i] = canonicalSpec{Name: n, Granularity: sv.Granularity, Values: strs}
	}
	return canonicalSOIU{UnitType: s.UnitType.String(), Specifying: specs}
}
