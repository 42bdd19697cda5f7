// Copyright 2026 The Fudge-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fudge

import "github.com/timandy/routine"

// threadGuard enforces spec.md §5's "a reader or writer is bound to one
// logical thread while active": the first call binds the guard to the
// calling goroutine, and every later call must come from that same
// goroutine. Disabled by WithoutThreadAffinity/WithoutWriterThreadAffinity
// for tests that intentionally hand a reader or writer across goroutines.
type threadGuard struct {
	enabled bool
	bound   bool
	goid    int64
}

func newThreadGuard(enabled bool) threadGuard {
	return threadGuard{enabled: enabled}
}

func (g *threadGuard) enter() error {
	if !g.enabled {
		return nil
	}
	id := routine.Goid()
	if !g.bound {
		g.bound = true
		g.goid = id
		return nil
	}
	if g.goid != id {
		return errUnsupportedFeature("used from goroutine %d, but bound to goroutine %d on first use", id, g.goid)
	}
	return nil
}
