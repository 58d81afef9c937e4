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

	"github.com/spf13/cast"
)

// CoerceLiteral normalizes a value decoded from a declarative session
// document (TOML via cmd/metapath-run) into one of the handful of
// concrete types ValueSet and VariableSpec compare by: int64, float64,
// bool, or string. TOML decodes integers as int64 and dates/times in
// ways a session file should never produce for a variable value, so this
// narrows rather than widens the accepted domain.
func CoerceLiteral(v interface{}) (interface{}, error) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToInt64(v), nil
	case float32, float64:
		return cast.ToFloat64(v), nil
	case bool:
		return cast.ToBool(v), nil
	case string:
		return v, nil
	default:
		return nil, fmt.Errorf("coerce literal: unsupported type %T for value %v", v, v)
	}
}

// CoerceLiterals applies CoerceLiteral across a slice, used when building
// a ValueSet from a session document's list of available values.
func CoerceLiterals(vs []interface{}) (ValueSet, error) {
	out := make(ValueSet, len(vs))
	for _, v := range vs {
		c, err := CoerceLiteral(v)
		if err != nil {
			return nil, err
		}
		out[c] = struct{}{}
	}
	return out, nil
}
