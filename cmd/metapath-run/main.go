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

// This is an example of how to run a metapath search from a declarative
// session file:
//
// > metapath-run --session session.toml
// found a path to <goal name> in <n> iterations
// {<data name> (<left variables> | <right variables>)_<unit set name>
// }
//
// The lines after the first list the final set of sources between
// braces, sorted, one per line, separated by commas.
//
// Any TOML document matching the shape LoadSession expects will work.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dolthub/go-metapath/search"
)

var (
	sessionPath = flag.String("session", "", "path to a TOML session file (required)")
	timeout     = flag.Duration("timeout", 30*time.Second, "search timeout")
	simulateN   = flag.Int("simulate", 0, "if > 0, run the search this many times and report timing instead of the path")
)

func main() {
	flag.Parse()
	if *sessionPath == "" {
		fmt.Fprintln(os.Stderr, "metapath-run: -session is required")
		os.Exit(2)
	}

	doc, err := os.ReadFile(*sessionPath)
	if err != nil {
		fatalf("read session: %v", err)
	}

	session, err := LoadSession(doc)
	if err != nil {
		fatalf("load session: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start, err := search.NewSetOfSources(session.Registry, session.Start)
	if err != nil {
		fatalf("build start set: %v", err)
	}

	if *simulateN > 0 {
		timing, err := search.Simulate(ctx, *simulateN, session.Registry, start, session.Goal, session.Options)
		if err != nil {
			fatalf("simulate: %v", err)
		}
		fmt.Printf("ran %d times: min=%s median=%s max=%s\n", *simulateN, timing.Min, timing.Median, timing.Max)
		var found int
		for _, o := range timing.Outcomes {
			if o.Status == search.StatusFound {
				found++
			}
		}
		fmt.Printf("%d/%d runs found a path\n", found, *simulateN)
		return
	}

	outcome, err := search.Search(ctx, session.Registry, start, session.Goal, session.Options)
	if err != nil {
		fatalf("search: %v", err)
	}

	printOutcome(session, outcome)
}

func printOutcome(session *Session, outcome search.Outcome) {
	switch outcome.Status {
	case search.StatusFound:
		if outcome.Result != nil {
			fmt.Printf("found a path to %s in %d iterations\n", session.Goal.Name, outcome.Iterations)
			fmt.Println(outcome.Result.String())
			return
		}
		fmt.Printf("found %d paths to %s in %d iterations\n", len(outcome.Results), session.Goal.Name, outcome.Iterations)
		for i, r := range outcome.Results {
			fmt.Printf("-- path %d --\n", i+1)
			fmt.Println(r.String())
		}
	case search.StatusExhausted:
		fmt.Printf("exhausted the search after %d iterations: %s\n", outcome.Iterations, outcome.Message)
		os.Exit(1)
	case search.StatusBudgetExceeded:
		fmt.Printf("gave up after %d iterations: %s\n", outcome.Iterations, outcome.Message)
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "metapath-run: "+format+"\n", args...)
	os.Exit(1)
}
