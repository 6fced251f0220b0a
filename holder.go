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

package promise

import (
	"runtime"
	"weak"
)

// Holder is the settlement cell threaded by continuation Tasks: spec's
// PromiseHolder. It carries the current state and value, the FIFO queue of
// pending Tasks, the set of Handles (through their indirections) that
// currently point at it, and a bounded call trace.
//
// A Holder is mutated only while its lock is held; the lock is a no-op in
// the default single-threaded build and a re-entrant counting mutex under
// -tags promise_multithread.
type Holder struct {
	lock locker

	state TaskState
	value any

	pendingTasks []*Task
	owners       []weak.Pointer[indirection]

	trace *CallTrace
	sink  UncaughtHandler

	correlated bool
	corrID     string

	fired bool // uncaught sink already invoked for this holder
}

func newHolder(cfg Config) *Holder {
	h := &Holder{
		lock:       newHolderLock(),
		state:      Pending,
		trace:      newCallTrace(cfg.maxTrace),
		sink:       cfg.sink,
		correlated: cfg.correlated,
	}
	runtime.SetFinalizer(h, finalizeHolder)
	return h
}

// finalizeHolder is the idiomatic Go substitute for PromiseHolder's
// destructor (spec §4.1): since Go has no deterministic destruction, the
// uncaught-rejection check runs from a GC finalizer instead, firing only if
// the holder's last observed state is Rejected. A holder whose rejection
// was consumed by an onRejected handler has already transitioned to
// Resolved by the time it becomes unreachable, so "no uncaught on caught
// chains" falls out of the state machine in engine.go without any extra
// bookkeeping here.
func finalizeHolder(h *Holder) {
	h.lock.lock()
	rejected := h.state == Rejected && !h.fired
	if rejected {
		h.fired = true
	}
	value := h.value
	h.lock.unlock()
	if rejected {
		fireUncaught(h, value)
	}
}

// addOwner registers ind as a live owner of h, used only by join to
// retarget owners to the surviving holder (H4).
func (h *Holder) addOwner(ind *indirection) {
	h.owners = append(h.owners, weak.Make(ind))
}

// liveOwners compacts and returns the indirections that are still alive.
func (h *Holder) liveOwners() []*indirection {
	live := h.owners[:0]
	var out []*indirection
	for _, w := range h.owners {
		if ind := w.Value(); ind != nil {
			live = append(live, w)
			out = append(out, ind)
		}
	}
	h.owners = live
	return out
}

func (h *Holder) correlationID() string {
	if !h.correlated {
		return ""
	}
	if h.corrID == "" {
		h.corrID = newCorrelationID()
	}
	return h.corrID
}
