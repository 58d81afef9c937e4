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

// Combine produces the row-wise and column-wise combinations of two
// sources that share the same right-hand (identifier) variables (§4.5).
// Row-wise requires overlapping left variables and unions the unit sets;
// column-wise requires overlapping unit sets and unions the left
// variables. Either result is nil when its precondition fails; both may
// be nil, either, or both non-nil depending on the inputs.
func Combine(a, b Data, reg *Registry) (rowwise, colwise *Data, err error) {
	if !a.Right.Equal(b.Right) {
		return nil, nil, nil
	}
	right := a.Right.Clone()
	name := fmt.Sprintf("combine (%s+%s)", a.Name, b.Name)

	if len(a.Left.Intersect(b.Left)) > 0 {
		units, ok, uerr := UnitSetUnion(a.Units, b.Units, reg)
		if uerr != nil {
			return nil, nil, uerr
		}
		if ok {
			d := NewData(a.Left.Intersect(b.Left), right, units, name, "")
			rowwise = &d
		}
	}

	unitsIntersection, ok, ierr := UnitSetIntersection(a.Units, b.Units, reg)
	if ierr != nil {
		return nil, nil, ierr
	}
	if ok {
		d := NewData(a.Left.Union(b.Left), right, unitsIntersection, name, "")
		colwise = &d
	}

	return rowwise, colwise, nil
}
