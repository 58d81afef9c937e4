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

	uuid "github.com/satori/go.uuid"
)

// Data is one source: measurement (left) columns keyed by identifier
// (right) columns, populated for the described units (§3). Equality and
// hashing are structural over (Left, Right, Units) only — Name,
// Description, and the cached score are bookkeeping.
type Data struct {
	Left        VariableSet
	Right       VariableSet
	Units       UnitSet
	Name        string
	Description string

	cachedScore *float64
}

// NewData builds a Data with a fresh, collision-safe name when none is
// given — the way the original relies on a unique name per node for
// legible path text; here a uuid suffix is used instead of trusting the
// caller not to collide (§6: derived Data/SetOfSources get synthesised
// names).
func NewData(left, right VariableSet, units UnitSet, name, description string) Data {
	if name == "" {
		name = "data-" + uuid.NewV4().String()[:8]
	}
	return Data{Left: left, Right: right, Units: units, Name: name, Description: description}
}

// Equal is structural over the three semantic fields, ignoring Name,
// Description, and the cached score (§3 "Data equality ignores name").
// Units comparison is granularity-aware (two specifying variables of the
// same name at different granularities are reconciled via the
// AggregationTable the registry holds for that variable), so a real
// Registry is required: every call site sits where a Registry is already
// in scope, since nothing in this package can compare units without one.
func (d Data) Equal(other Data, reg *Registry) (bool, error) {
	if !d.Left.Equal(other.Left) || !d.Right.Equal(other.Right) {
		return false, nil
	}
	return UnitSetEqual(d.Units, other.Units, reg)
}

func (s VariableSet) Equal(other VariableSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// EqualVariablesOnly compares left/right variable sets, disregarding units
// (§4.5, used by models).
func (d Data) EqualVariablesOnly(other Data) bool {
	return d.Left.Equal(other.Left) && d.Right.Equal(other.Right)
}

func (d Data) String() string {
	return fmt.Sprintf("%s %s", d.Name, d.Notation())
}

// Notation renders the "(left | right)_units" form used throughout
// path-step text.
func (d Data) Notation() string {
	left := variableNames(d.Left.Sorted())
	right := variableNames(d.Right.Sorted())
	return fmt.Sprintf("(%s | %s)_%s", left, right, unitSetString(d.Units))
}

// unitSetString renders a unit set by its name for Notation.
func unitSetString(u UnitSet) string {
	switch v := u.(type) {
	case SOIU:
		return v.Name
	case SOIUUnion:
		return v.Name
	}
	return ""
}

func variableNames(vs []Variable) string {
	strs := make([]string, len(vs))
	for i, v := range vs {
		strs[i] = v.String()
	}
	return joinComma(strs)
}

// VariableNamesLeft/VariableNamesRight/ContainsVarLeft/ContainsVarRight
// mirror the original's helpers used by the max_per_variable family of
// similarity scores and by model matching.
func (d Data) VariableNamesLeft() map[string]struct{}  { return d.Left.Names() }
func (d Data) VariableNamesRight() map[string]struct{} { return d.Right.Names() }

func (d Data) ContainsVarLeft(name string) bool {
	_, ok := d.VariableNamesLeft()[name]
	return ok
}

func (d Data) ContainsVarRight(name string) bool {
	_, ok := d.VariableNamesRight()[name]
	return ok
}

// resetScore clears the memoized similarity score, required whenever the
// variable sets change (§4.5).
func (d *Data) resetScore() { d.cachedScore = nil }

// Similarity scores self against other (the goal), memoizing the result
// on self exactly as the original does: once computed for this Data
// value, later calls return the cached score regardless of arguments,
// until resetScore is called by a mutation. Callers that need a fresh
// score for different weights/variant must call resetScore first.
func (d *Data) Similarity(other Data, variant SimilarityVariant, weights Weights, reg *Registry) (float64, error) {
	if d.cachedScore != nil {
		return *d.cachedScore, nil
	}

	leftEqual := countEqual(d.Left, other.Left)
	rightEqual := countEqual(d.Right, other.Right)
	leftSimilar := countNameOnly(d.Left, other.Left) - leftEqual
	rightSimilar := countNameOnly(d.Right, other.Right) - rightEqual

	unitsEq, err := UnitSetEqual(d.Units, other.Units, reg)
	if err != nil {
		return 0, err
	}
	var unitsScore float64
	if unitsEq {
		unitsScore = weights.Units
	}

	leftEqualMax := float64(len(other.Left))
	rightEqualMax := float64(len(other.Right))

	baseScore := weights.LeftEqual*float64(leftEqual) + weights.LeftSimilar*float64(leftSimilar) +
		weights.RightEqual*float64(rightEqual) + weights.RightSimilar*float64(rightSimilar) + unitsScore

	var score float64
	switch variant {
	case VariantBase, "":
		score = baseScore
	case VariantBaseCoupled:
		score = (weights.LeftEqual*float64(leftEqual) + weights.LeftSimilar*float64(leftSimilar)) *
			(weights.RightEqual*float64(rightEqual) + weights.RightSimilar*float64(rightSimilar) + unitsScore)
	case VariantIndividual:
		score = d.similarityIndividual(other, weights, unitsScore)
	case VariantNormalized:
		denom := weights.LeftEqual*leftEqualMax + weights.RightEqual*rightEqualMax + weights.Units
		if denom == 0 {
			score = 0
		} else {
			score = baseScore / denom
		}
	case VariantNormalizedCoupled:
		numerator := (weights.LeftEqual*float64(leftEqual) + weights.LeftSimilar*float64(leftSimilar)) *
			(weights.RightEqual*float64(rightEqual) + weights.RightSimilar*float64(rightSimilar) + unitsScore)
		denom := weights.LeftEqual * leftEqualMax * (weights.RightEqual*rightEqualMax + weights.Units)
		if denom == 0 {
			score = 0
		} else {
			score = numerator / denom
		}
	default:
		return 0, fmt.Errorf("similarity: unrecognised variant %q", variant)
	}

	d.cachedScore = &score
	return score, nil
}

// similarityIndividual implements the "individual" variant: asymmetric,
// scanning the goal's (other's) variables and rewarding self for each
// exact or name-only match, then dividing by self's own variable count
// so larger sources are penalized (§4.5).
func (d *Data) similarityIndividual(other Data, weights Weights, unitsScore float64) float64 {
	score := 0.0
	selfLeftNames := d.VariableNamesLeft()
	selfRightNames := d.VariableNamesRight()

	for v := range other.Left {
		if d.Left.Contains(v) {
			score += weights.LeftEqual
		} else if _, ok := selfLeftNames[v.Name]; ok {
			score += weights.LeftSimilar
		}
	}
	for v := range other.Right {
		if d.Right.Contains(v) {
			score += weights.RightEqual
		} else if _, ok := selfRightNames[v.Name]; ok {
			score += weights.RightSimilar
		}
	}
	score += unitsScore

	denom := float64(len(d.Left) + len(d.Right))
	if denom == 0 {
		return 0
	}
	return score / denom
}

func countEqual(a, b VariableSet) int {
	n := 0
	for v := range a {
		if b.Contains(v) {
			n++
		}
	}
	return n
}

func countNameOnly(a, b VariableSet) int {
	bNames := b.Names()
	n := 0
	for v := range a {
		if _, ok := bNames[v.Name]; ok {
			n++
		}
	}
	return n
}

// ConvertVariable performs an in-place granularity swap on Left (the
// measurement side), via the ConversionGraph, and returns the PathStep
// documenting the change. Returns an error only if the two variables do
// not share a name, or the conversion graph for that name is not
// registered.
func (d *Data) ConvertVariable(reg *Registry, remove, add Variable) (PathStep, error) {
	if remove.Name != add.Name {
		return PathStep{}, fmt.Errorf("convert_variable: %s and %s are different variables", remove, add)
	}
	before := d.Clone()

	delete(d.Left, remove)
	d.Left[add] = struct{}{}
	d.Name += "*"
	d.resetScore()

	cg, err := reg.GetConversionGraph(remove.Name)
	if err != nil {
		return PathStep{}, err
	}
	method, detail := cg.GetPathDetail(remove.Granularity, add.Granularity)

	return PathStep{
		Method:       method,
		MethodDetail: detail,
		Input:        []Data{before},
		Output:       []Data{*d},
	}, nil
}

// AggregateVariable is ConvertVariable's symmetric counterpart on the
// Right (identifier) side, via the AggregationGraph.
func (d *Data) AggregateVariable(reg *Registry, remove, add Variable) (PathStep, error) {
	if remove.Name != add.Name {
		return PathStep{}, fmt.Errorf("aggregate_variable: %s and %s are different variables", remove, add)
	}
	before := d.Clone()

	delete(d.Right, remove)
	d.Right[add] = struct{}{}
	d.Name += "*"
	d.resetScore()

	// Aggregation graphs are directed; method/detail text follows the same
	// arrow grammar as conversion, without model credit (models only ever
	// widen the ConversionGraph in this system — see SingleUseModel).
	return PathStep{
		Method:       "aggregation",
		MethodDetail: fmt.Sprintf("%s: %d→%d", remove.Name, remove.Granularity, add.Granularity),
		Input:        []Data{before},
		Output:       []Data{*d},
	}, nil
}

// Clone returns a deep-enough copy: new Left/Right sets, same Units value
// (UnitSet values are treated as immutable once constructed).
func (d Data) Clone() Data {
	return Data{
		Left:        d.Left.Clone(),
		Right:       d.Right.Clone(),
		Units:       d.Units,
		Name:        d.Name,
		Description: d.Description,
	}
}

// GetNeighbours emits one neighbour per (left-var, reachable conversion
// granularity), and, if agg, one per (right-var, reachable aggregation
// granularity). Combination is not a unary neighbour (§4.5).
func (d Data) GetNeighbours(reg *Registry, agg bool) ([]Data, []PathStep, error) {
	var neighbours []Data
	var steps []PathStep

	for v := range d.Left {
		cg, err := reg.GetConversionGraph(v.Name)
		if err != nil {
			return nil, nil, err
		}
		for g := range cg.AllConversions(v.Granularity) {
			next := d.Clone()
			next.Name = d.Name + "*"
			v2 := NewVariable(v.Name, g)
			step, err := next.ConvertVariable(reg, v, v2)
			if err != nil {
				return nil, nil, err
			}
			neighbours = append(neighbours, next)
			steps = append(steps, step)
		}
	}

	if agg {
		for v := range d.Right {
			ag, err := reg.GetAggregationGraph(v.Name)
			if err != nil {
				return nil, nil, err
			}
			for g := range ag.Reachable(v.Granularity) {
				next := d.Clone()
				v2 := NewVariable(v.Name, g)
				step, err := next.AggregateVariable(reg, v, v2)
				if err != nil {
					return nil, nil, err
				}
				neighbours = append(neighbours, next)
				steps = append(steps, step)
			}
		}
	}

	return neighbours, steps, nil
}

// Shrink reports whether self can be shrunk to other: other's left and
// right variables must each be a subset of self's, and other's unit set
// must be a subset of self's. Dropping right-hand variables is permitted
// by design (§4.5's open discussion point; see ShrinkPolicy for the
// configurable policy this implies per §9).
func (d Data) Shrink(other Data, reg *Registry, policy ShrinkPolicy) (bool, error) {
	if !other.Left.IsSubset(d.Left) {
		return false, nil
	}
	if policy == ShrinkRequireEqualRight {
		if !d.Right.Equal(other.Right) {
			return false, nil
		}
	} else if !other.Right.IsSubset(d.Right) {
		return false, nil
	}
	return UnitSetIsSubset(other.Units, d.Units, reg)
}

// ShrinkVariablesOnly is Shrink without the unit-set condition (§4.5,
// used by Model.Apply's intersection/union/equal rules).
func (d Data) ShrinkVariablesOnly(other Data, policy ShrinkPolicy) bool {
	if !other.Left.IsSubset(d.Left) {
		return false
	}
	if policy == ShrinkRequireEqualRight {
		return d.Right.Equal(other.Right)
	}
	return other.Right.IsSubset(d.Right)
}

// ShrinkPolicy selects whether dropping right-hand (identifier) variables
// during Shrink is permitted. §9's Design Notes flag this as an open
// question the original source left as two code variants (one commented
// out); this type makes the choice a configurable, explicit policy
// instead of a hardcoded behaviour.
type ShrinkPolicy int

const (
	// ShrinkAllowDroppingRight permits shrink to drop right-hand
	// variables, merging units whose identifier columns were only
	// distinguished by the dropped variable. This is the default and
	// matches the original implementation's active (non-commented-out)
	// code path.
	ShrinkAllowDroppingRight ShrinkPolicy = iota
	// ShrinkRequireEqualRight forbids dropping right-hand variables:
	// self.Right must equal other.Right exactly. This matches the
	// original's commented-out alternative.
	ShrinkRequireEqualRight
)

// DataSet is an order-preserving collection of Data, deduplicated when
// built through NewDataSet (a plain append does not deduplicate), used
// by SetOfSources, which needs to iterate members deterministically and
// index into them for pairwise combination (§4.7's upper-triangle loop).
type DataSet []Data

// NewDataSet builds a DataSet from a slice, deduplicating by Equal. reg
// resolves any cross-granularity unit comparison the dedup needs.
func NewDataSet(reg *Registry, ds ...Data) (DataSet, error) {
	out := make(DataSet, 0, len(ds))
	var err error
	for _, d := range ds {
		out, err = appendUnique(out, d, reg)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendUnique(out DataSet, d Data, reg *Registry) (DataSet, error) {
	for _, existing := range out {
		eq, err := existing.Equal(d, reg)
		if err != nil {
			return nil, err
		}
		if eq {
			return out, nil
		}
	}
	return append(out, d), nil
}

// Clone returns a shallow copy (Data values are themselves copy-safe via
// Data.Clone where mutation is needed).
func (ds DataSet) Clone() DataSet {
	return append(DataSet{}, ds...)
}
