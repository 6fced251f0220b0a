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
	"weak"
)

// Callback is the shape every continuation callable takes: it receives a
// context carrying the running holder (retrievable via CurrentTrace) and
// the upstream settlement value, and returns either a plain value (the
// next settlement) or a *Promise (triggering a join). It may panic; a
// panic carrying an *erased.MismatchError-derived value is treated as the
// type-mismatch pass-through case described in spec §4.2 and §7, any other
// panic becomes the next Rejected value.
type Callback func(ctx context.Context, value any) any

// Task is one continuation record: spec's Task. It is created by then or
// newPromise, queued on exactly one Holder at a time, and weakly
// back-references that Holder so H2 can be checked after a join retargets
// it.
type Task struct {
	state TaskState

	onResolved Callback
	onRejected Callback

	site   Loc
	holder weak.Pointer[Holder]
}

func newTask(site Loc, h *Holder, onResolved, onRejected Callback) *Task {
	return &Task{
		state:      Pending,
		onResolved: onResolved,
		onRejected: onRejected,
		site:       site,
		holder:     weak.Make(h),
	}
}

// currentHolder resolves the task's weak back-reference, returning nil if
// the holder it pointed to is gone.
func (t *Task) currentHolder() *Holder {
	return t.holder.Value()
}

// weakHolder is a small wrapper around weak.Make used by join when
// retargeting a task's back-reference to the surviving holder (H2).
func weakHolder(h *Holder) weak.Pointer[Holder] {
	return weak.Make(h)
}

// clearCallbacks drops the task's stored callables once the engine has
// invoked them, matching step 7 of call() in spec §4.3.
func (t *Task) clearCallbacks() {
	t.onResolved = nil
	t.onRejected = nil
}
