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

// PathStep is the audit record for one transformation applied while
// searching: which method produced it, a human-readable detail string,
// and the input/output Data it connects (§3). Combination steps carry two
// inputs and one output; conversion/aggregation/subset steps carry one of
// each.
type PathStep struct {
	Method       string
	MethodDetail string
	Input        []Data
	Output       []Data
}

func (p PathStep) String() string {
	in := make([]string, len(p.Input))
	for i, d := range p.Input {
		in[i] = d.Name
	}
	out := make([]string, len(p.Output))
	for i, d := range p.Output {
		out[i] = d.Name
	}
	return fmt.Sprintf("%s(%s): %s -> %s", p.Method, p.MethodDetail, joinComma(in), joinComma(out))
}
