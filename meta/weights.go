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

// Weights parameterizes Data.Similarity (§4.5). The original hardcodes
// these as module constants with one override used for a "prefer exact
// unit coverage" mode; here they are a plain struct so callers (in
// particular the search package's presets) can construct variants
// freely.
type Weights struct {
	LeftEqual    float64
	LeftSimilar  float64
	RightEqual   float64
	RightSimilar float64
	Units        float64
}

// DefaultWeights matches the original's hardcoded defaults.
var DefaultWeights = Weights{
	LeftEqual:    5,
	LeftSimilar:  2,
	RightEqual:   5,
	RightSimilar: 1,
	Units:        5,
}

// PreferUnitsWeights is the original's "prefer exact unit coverage"
// override: the units weight is raised well above the variable weights
// so an exact unit-set match dominates the score.
var PreferUnitsWeights = Weights{
	LeftEqual:    5,
	LeftSimilar:  2,
	RightEqual:   5,
	RightSimilar: 1,
	Units:        20,
}

// SimilarityVariant selects one of the five scoring formulas Data.Similarity
// implements (§4.5).
type SimilarityVariant string

const (
	VariantBase              SimilarityVariant = "base"
	VariantBaseCoupled       SimilarityVariant = "base_coupled"
	VariantIndividual        SimilarityVariant = "individual"
	VariantNormalized        SimilarityVariant = "normalized"
	VariantNormalizedCoupled SimilarityVariant = "normalized_coupled"
)
