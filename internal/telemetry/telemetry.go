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

// Package telemetry centralizes the logrus wiring shared by the meta and
// search packages, the way auth.AuditLog centralized it for authentication
// events: a package-level entry tagged with a "system" field, fed through
// WithFields at each call site.
package telemetry

import "github.com/sirupsen/logrus"

// Logger returns a logrus.Entry tagged with the given subsystem name.
// Subsystems used in this module: "registry" and "astar".
func Logger(system string) *logrus.Entry {
	return logrus.StandardLogger().WithField("system", system)
}

// SetOutput lets callers (tests, cmd/metapath-run) set the log level of
// every subsystem at once, since all Logger calls share the standard
// logger instance. It does not change where log output is written.
func SetOutput(level logrus.Level) {
	logrus.SetLevel(level)
}
