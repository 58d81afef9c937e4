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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-metapath/search"
)

const sampleSession = `
start = ["population-nuts1"]
goal = "population-nuts2"

[[aggregation]]
variable = "region"
granularities = [1, 2]
edges = [[1, 2]]

[[conversion]]
variable = "region"
granularities = [1, 2]
edges = [[1, 2]]

[[data]]
name = "population-nuts1"
description = "population counted at NUTS1"

  [[data.left]]
  name = "population"
  granularity = 1

  [[data.right]]
  name = "region"
  granularity = 1

  [data.units]
  name = "all-households"
  unit_type = "household"
  unit_type_granularity = 0

[[data]]
name = "population-nuts2"
description = "population counted at NUTS2"

  [[data.left]]
  name = "population"
  granularity = 1

  [[data.right]]
  name = "region"
  granularity = 2

  [data.units]
  name = "all-households"
  unit_type = "household"
  unit_type_granularity = 0

[search]
max_iterations = 20
aggregate = "sum"
variant = "base"
`

func TestLoadSessionParsesGraphsAndData(t *testing.T) {
	session, err := LoadSession([]byte(sampleSession))
	require.NoError(t, err)

	require.Len(t, session.Start, 1)
	assert.Equal(t, "population-nuts1", session.Start[0].Name)
	assert.Equal(t, "population-nuts2", session.Goal.Name)
	assert.Equal(t, 20, session.Options.MaxIterations)
	assert.Equal(t, search.AggregateSum, session.Options.Aggregate)

	_, err = session.Registry.GetConversionGraph("region")
	require.NoError(t, err)
}

func TestLoadSessionRejectsUnknownGoal(t *testing.T) {
	bad := `
start = ["a"]
goal = "missing"

[[data]]
name = "a"

  [data.units]
  name = "u"
  unit_type = "household"
  unit_type_granularity = 0
`
	_, err := LoadSession([]byte(bad))
	assert.Error(t, err)
}

func TestLoadSessionDefaultsSearchOptions(t *testing.T) {
	minimal := `
start = ["a"]
goal = "a"

[[data]]
name = "a"

  [data.units]
  name = "u"
  unit_type = "household"
  unit_type_granularity = 0
`
	session, err := LoadSession([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, 100, session.Options.MaxIterations)
	assert.Equal(t, search.AggregateSum, session.Options.Aggregate)
}
