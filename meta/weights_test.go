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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeights(t *testing.T) {
	assert.Equal(t, 5.0, DefaultWeights.LeftEqual)
	assert.Equal(t, 2.0, DefaultWeights.LeftSimilar)
	assert.Equal(t, 5.0, DefaultWeights.RightEqual)
	assert.Equal(t, 1.0, DefaultWeights.RightSimilar)
	assert.Equal(t, 5.0, DefaultWeights.Units)
}

func TestPreferUnitsWeightsOnlyChangesUnits(t *testing.T) {
	assert.Equal(t, DefaultWeights.LeftEqual, PreferUnitsWeights.LeftEqual)
	assert.Equal(t, DefaultWeights.LeftSimilar, PreferUnitsWeights.LeftSimilar)
	assert.Equal(t, DefaultWeights.RightEqual, PreferUnitsWeights.RightEqual)
	assert.Equal(t, DefaultWeights.RightSimilar, PreferUnitsWeights.RightSimilar)
	assert.Equal(t, 20.0, PreferUnitsWeights.Units)
}
