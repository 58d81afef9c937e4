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

func TestConversionGraphCheckConversion(t *testing.T) {
	g := newConversionGraph("region", []int{1, 2, 3}, [][2]int{{1, 2}})
	assert.True(t, g.CheckConversion(1, 2))
	assert.True(t, g.CheckConversion(2, 1))
	assert.False(t, g.CheckConversion(1, 3))
	assert.True(t, g.CheckConversion(1, 1))
}

func TestConversionGraphModelCredit(t *testing.T) {
	g := newConversionGraph("region", []int{1, 2, 3}, [][2]int{{1, 2}})
	g.AddEdge(2, 3, "nuts-model")

	method, detail := g.GetPathDetail(1, 3)
	assert.Equal(t, "model", method)
	assert.Contains(t, detail, "nuts-model")
	assert.Contains(t, detail, "region: 1→2")
}

func TestConversionGraphPlainPathDetail(t *testing.T) {
	g := newConversionGraph("region", []int{1, 2}, [][2]int{{1, 2}})
	method, detail := g.GetPathDetail(1, 2)
	assert.Equal(t, "conversion", method)
	assert.Equal(t, "region: 1→2", detail)
}

func TestConversionGraphNoPath(t *testing.T) {
	g := newConversionGraph("region", []int{1, 2, 3}, [][2]int{{1, 2}})
	method, detail := g.GetPathDetail(1, 3)
	assert.Equal(t, "conversion", method)
	assert.NotEmpty(t, detail)
}
