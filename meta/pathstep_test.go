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

func TestPathStepString(t *testing.T) {
	in := NewData(NewVariableSet(), NewVariableSet(), sampleUnits("u"), "in1", "")
	out := NewData(NewVariableSet(), NewVariableSet(), sampleUnits("u"), "out1", "")

	step := PathStep{Method: "conversion", MethodDetail: "region: 1→2", Input: []Data{in}, Output: []Data{out}}
	assert.Equal(t, "conversion(region: 1→2): in1 -> out1", step.String())
}
