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

// Variable is the smallest unit of the metadata model: a name paired with a
// granularity. Two variables are equal only when both fields match.
type Variable struct {
	Name        string
	Granularity int
}

// NewVariable builds a Variable.
func NewVariable(name string, granularity int) Variable {
	return Variable{Name: name, Granularity: granularity}
}

// String renders the variable the way the rest of the package's debug
// output and path-step text expects: name immediately followed by
// granularity, e.g. "age1".
func (v Variable) String() string {
	return fmt.Sprintf("%s%d", v.Name, v.Granularity)
}

// Equal reports structural equality over both fields.
func (v Variable) Equal(other Variable) bool {
	return v.Name == other.Name && v.Granularity == other.Granularity
}

// EqualName reports whether the two variables share a name, regardless of
// granularity. Used when scoring "similar but not exact" matches.
func (v Variable) EqualName(other Variable) bool {
	return v.Name == other.Name
}

// VariableSet is a set of Variables keyed by value, since Variable is a
// small comparable struct.
type VariableSet map[Variable]struct{}

// NewVariableSet builds a VariableSet from a slice, deduplicating.
func NewVariableSet(vs ...Variable) VariableSet {
	out := make(VariableSet, len(vs))
	for _, v := range vs {
		out[v] = struct{}{}
	}
	return out
}

// Clone returns a shallow copy.
func (s VariableSet) Clone() VariableSet {
	out := make(VariableSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Contains reports membership.
func (s VariableSet) Contains(v Variable) bool {
	_, ok := s[v]
	return ok
}

// Names returns the set of distinct variable names present, disregarding
// granularity.
func (s VariableSet) Names() map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for v := range s {
		out[v.Name] = struct{}{}
	}
	return out
}

// IsSubset reports whether every member of s is also a member of other.
func (s VariableSet) IsSubset(other VariableSet) bool {
	for v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Intersect returns the variables common to both sets.
func (s VariableSet) Intersect(other VariableSet) VariableSet {
	out := make(VariableSet)
	for v := range s {
		if other.Contains(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Union returns the variables present in either set.
func (s VariableSet) Union(other VariableSet) VariableSet {
	out := make(VariableSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Sorted returns the members ordered by their string form, used anywhere
// output needs to be deterministic (names, hashing, audit text).
func (s VariableSet) Sorted() []Variable {
	out := make([]Variable, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
