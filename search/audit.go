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

package search

import "github.com/dolthub/go-metapath/meta"

// AuditMethod receives every PathStep of the path a single-path Search
// finds (multi-path and unsuccessful searches audit nothing), the way
// auth.AuditMethod receives authentication/authorization/query events —
// a small interface a caller implements to forward path text to its own
// logging or UI, independent of the astarLog debug output this package
// emits on its own.
type AuditMethod interface {
	// Step logs one PathStep taken during iteration i of a search.
	Step(iteration int, step meta.PathStep)
}

// LogAudit is the default AuditMethod, forwarding every step to the
// package's own structured logger.
type LogAudit struct{}

// Step implements AuditMethod.
func (LogAudit) Step(iteration int, step meta.PathStep) {
	astarLog.WithField("iteration", iteration).WithField("method", step.Method).
		Debugf("%s", step.String())
}

// auditPath replays every step of a finished SetOfSources' Path through
// method, in order, paired with its Tree iteration marker. Steps
// predating the search (the initial "start set" step, iteration -1 from
// rhs preprocessing) are included with their recorded iteration.
func auditPath(set *SetOfSources, method AuditMethod) {
	if method == nil {
		return
	}
	for i, step := range set.Path {
		iteration := -1
		if i > 0 && i-1 < len(set.Tree) {
			iteration = set.Tree[i-1]
		}
		method.Step(iteration, step)
	}
}
