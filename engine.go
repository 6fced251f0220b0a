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
	"context"

	"github.com/pkg/errors"
)

// mismatcher recognizes the engine's pass-through signal, the
// internal/erased.MismatchPanic raised by internal/erased.WrapMismatch. It
// is a small local interface so engine.go does not need to import the
// package just to type-switch on it; its method is exported because a type
// from another package cannot implement an unexported interface method.
type mismatcher interface {
	Mismatch()
}

// preserveSettlement is a sentinel a Callback can return (not panic) to
// tell the engine "re-raise whatever the upstream settlement already was,
// unchanged" — used by Finally/Always/ThenPromise so a rejection keeps its
// original value and state instead of being replaced by the returned value
// the way any other return value would be.
type preserveSettlement struct{}

// settleAndCall sets h's state and value directly, if h is still Pending
// (used by Deferred.Resolve/Reject and by Promise.Resolve/Reject), and then
// drives the engine for task. A task whose state is
// already non-Pending (it has already been dequeued and run once) is a
// documented no-op, matching Defer::resolve/reject's own
// task_->state_ != kPending guard in the original.
func settleAndCall(task *Task, state TaskState, value any) {
	h := task.currentHolder()
	if h == nil {
		return
	}
	h.lock.lock()
	if task.state != Pending {
		h.lock.unlock()
		return
	}
	if h.state == Pending {
		h.state = state
		h.value = value
	}
	h.lock.unlock()
	engineCall(task)
}

// engineCall is the Engine.call() state machine of spec §4.3. It is
// re-entrant: it may be invoked from any agent, including from inside a
// continuation it is itself running (a nested resolve/reject), because the
// holder's state is set to Pending before a continuation runs.
func engineCall(task *Task) {
	for {
		h := task.currentHolder()
		if h == nil {
			return
		}

		h.lock.waitFront(func() bool {
			return len(h.pendingTasks) > 0 && h.pendingTasks[0] == task
		})

		h.lock.lock()
		if task.state != Pending || h.state == Pending {
			h.lock.unlock()
			return
		}

		// pop the front task
		h.pendingTasks = h.pendingTasks[1:]
		h.trace.push(task.site)
		h.trace.push(here(2))

		state := h.state
		value := h.value
		task.state = state
		cb := task.onResolved
		if state == Rejected {
			cb = task.onRejected
		}

		if cb == nil {
			// pass-through: no matching callable, carry the settlement
			// forward unchanged.
			h.value = value
			task.clearCallbacks()
			h.lock.unlock()
			task = nextFrontTask(h, task)
			if task == nil {
				return
			}
			continue
		}

		h.state = Pending
		h.lock.unlock()
		ctx := withHolder(context.Background(), h)
		result, resultIsPromise, panicked, panicVal := invoke(cb, ctx, value)
		h.lock.lock()

		switch {
		case panicked:
			if _, ok := panicVal.(mismatcher); ok {
				// type-mismatch extracting the payload: documented
				// pass-through, preserves the original settlement.
				h.state = state
				h.value = value
			} else {
				h.state = Rejected
				h.value = errors.WithStack(asError(panicVal))
			}
			task.clearCallbacks()
			h.lock.unlock()
			task = nextFrontTask(h, task)
			if task == nil {
				return
			}
		case resultIsPromise != nil:
			returned := resultIsPromise.ind.current()
			h.lock.unlock()
			left := join(returned, h)
			task.clearCallbacks()
			task = nextFrontTask(left, task)
			if task == nil {
				return
			}
		default:
			if _, ok := result.(preserveSettlement); ok {
				h.state = state
				h.value = value
			} else {
				h.state = Resolved
				h.value = result
			}
			task.clearCallbacks()
			h.lock.unlock()
			task = nextFrontTask(h, task)
			if task == nil {
				return
			}
		}
	}
}

// nextFrontTask returns the new front task of h, if any, distinct from the
// just-completed prev task, so engineCall's loop can continue driving the
// chain without recursing (step 8 of spec §4.3).
func nextFrontTask(h *Holder, prev *Task) *Task {
	h.lock.lock()
	defer h.lock.unlock()
	if len(h.pendingTasks) == 0 {
		return nil
	}
	front := h.pendingTasks[0]
	if front == prev {
		return nil
	}
	return front
}

// invoke runs cb with ctx, recovering any panic so the caller can branch on
// whether it was a type-mismatch (pass-through) or any other payload
// (rejection).
func invoke(cb Callback, ctx context.Context, value any) (result any, asPromise *Promise, panicked bool, panicVal any) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			panicVal = r
		}
	}()
	out := cb(ctx, value)
	if p, ok := out.(*Promise); ok {
		return nil, p, false, nil
	}
	return out, nil, false, nil
}

func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return errors.Errorf("%v", v)
}

// join fuses right into left when a continuation returns a Promise,
// implementing spec §4.4. Both holders' locks are held for the duration of
// the splice; left (the holder of the returned Promise) is returned as the
// surviving holder every remaining Task, owner, and Handle should use from
// here on.
func join(left, right *Holder) *Holder {
	if right == left {
		// join idempotence (spec §8): joining a holder onto itself is a
		// no-op.
		return left
	}

	left.lock.lock()
	right.lock.lock()

	left.checkInvariants()
	right.checkInvariants()

	for _, t := range right.pendingTasks {
		t.holder = weakHolder(left)
	}
	left.pendingTasks = append(left.pendingTasks, right.pendingTasks...)
	right.pendingTasks = nil

	left.trace.prepend(right.trace)

	for _, ind := range right.liveOwners() {
		ind.retarget(left)
		left.addOwner(ind)
	}
	right.owners = nil

	right.state = Resolved
	right.fired = true

	right.lock.unlock()
	left.lock.unlock()

	return left
}
