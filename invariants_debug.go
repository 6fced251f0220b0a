// Copyright 2020 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build promise_debug

package promise

import "fmt"

// checkInvariants is the debug-only consistency check ported from the
// original's healthyCheck (promise_inl.hpp): every live owner must still
// point back at h, and every queued task must be Pending and
// back-reference h. It panics on the first broken invariant it finds,
// matching the original's throw std::runtime_error(""). Callers (join,
// and this package's _test.go files) invoke it only under
// -tags promise_debug, so it costs nothing in a normal build.
func (h *Holder) checkInvariants() {
	for _, w := range h.owners {
		owner := w.Value()
		if owner == nil {
			continue
		}
		if owner.current() != h {
			panic(fmt.Sprintf("promise: invariant broken: owner %p does not point back at holder %p", owner, h))
		}
	}

	for _, task := range h.pendingTasks {
		if task == nil {
			panic(fmt.Sprintf("promise: invariant broken: holder %p has a nil pending task", h))
		}
		if task.state != Pending {
			panic(fmt.Sprintf("promise: invariant broken: pending task %p on holder %p has state %s", task, h, task.state))
		}
		if task.currentHolder() != h {
			panic(fmt.Sprintf("promise: invariant broken: pending task %p's back-reference does not match holder %p", task, h))
		}
	}
}
