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

import "gopkg.in/src-d/go-errors.v1"

// Setup errors (§7 "Setup errors (fatal)"): requesting a graph or table
// that was never registered, or constructing a union across heterogeneous
// unit types. These are always returned, never panicked, but are built
// from a Kind so callers can test for them with Kind.Is.
var (
	// ErrNotInitialised is returned when a graph or table is requested for
	// a variable name that was never registered.
	ErrNotInitialised = errors.NewKind("not initialised: %s")
	// ErrBadUnion is returned when a SetOfIncludedUnitsUnion is constructed
	// from members that do not all share the same unit type.
	ErrBadUnion = errors.NewKind("bad union: members do not share a unit type")
)

// Soft inapplicability (§7 "Soft inapplicability (recoverable)"): these
// never halt execution. Callers observe them as an explicit negative
// result (a zero value plus `ok == false`, or a typed outcome), never as a
// returned error that must be handled. The Kinds below exist so that when
// an operation chooses to surface the detail as an error value (for
// logging, mainly), it stays classifiable.
var (
	// ErrNoRoute is the detail behind a failed aggregation/conversion
	// lookup: no path exists between two granularities, or the path that
	// exists has a gap with no registered table.
	ErrNoRoute = errors.NewKind("no route for %s: %d -> %d")
	// ErrIncompatibleUnitTypes is the detail behind a failed
	// intersection/union between SetOfIncludedUnits-like values with
	// different unit types.
	ErrIncompatibleUnitTypes = errors.NewKind("incompatible unit types: %s vs %s")
	// ErrModelRuleNotMet is the detail behind a model whose units_rule
	// could not be satisfied by any candidate tuple of inputs.
	ErrModelRuleNotMet = errors.NewKind("model %s: units rule %s not met")
	// ErrMismatchedVariable is the detail behind chaining or comparing two
	// VariableSpecs/AggregationTables for different variable names.
	ErrMismatchedVariable = errors.NewKind("mismatched variable: %s vs %s")
)
