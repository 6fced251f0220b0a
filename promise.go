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
	"io"
	"sync/atomic"
)

// indirection is the Go analogue of promise-cpp's SharedPromise: a level of
// indirection between a Handle and its current Holder so that join can
// atomically retarget every Handle of a Holder at once, per spec §5's
// atomic-load-then-verify protocol.
type indirection struct {
	holder atomic.Pointer[Holder]
}

func newIndirection(h *Holder) *indirection {
	ind := &indirection{}
	ind.holder.Store(h)
	h.addOwner(ind)
	return ind
}

// obtainLock implements the retry loop from spec §5: load the holder,
// acquire its lock, then verify the indirection still points at the holder
// whose lock was acquired. It terminates because join only changes an
// indirection's target a finite number of times before the graph
// stabilizes.
func (ind *indirection) obtainLock() (*Holder, locker) {
	for {
		h := ind.holder.Load()
		l := h.lock
		l.lock()
		if ind.holder.Load() == h {
			return h, l
		}
		l.unlock()
	}
}

func (ind *indirection) current() *Holder {
	return ind.holder.Load()
}

func (ind *indirection) retarget(h *Holder) {
	ind.holder.Store(h)
}

// Promise is a strong reference into a Holder through an indirection: the
// public Handle of spec §3/§6.
type Promise struct {
	ind *indirection
}

// NewPromise creates a new, unsettled Promise and invokes run with a
// context carrying this Promise's holder (retrievable via CurrentTrace)
// and a Deferred bound to its sole initial task. Any panic from run
// becomes that task's rejection, matching the original's
// newPromise(loc, run).
func NewPromise(run func(ctx context.Context, d *Deferred), opts ...Option) *Promise {
	cfg := buildConfig(opts)
	h := newHolder(cfg)
	ind := newIndirection(h)
	p := &Promise{ind: ind}

	task := newTask(here(1), h, nil, nil)
	h.pendingTasks = append(h.pendingTasks, task)

	if run == nil {
		return p
	}

	d := &Deferred{task: task, p: p}
	ctx := withHolder(context.Background(), h)
	func() {
		defer func() {
			if r := recover(); r != nil {
				d.Reject(panicToValue(r))
			}
		}()
		run(ctx, d)
	}()
	return p
}

// NewUnresolved returns an unsettled Promise with no body, matching
// newPromise() with no run function.
func NewUnresolved(opts ...Option) *Promise {
	return NewPromise(nil, opts...)
}

// Then appends a Task with the given callables to the Promise's current
// holder, and invokes the engine once. The return value is the same
// Promise: adjacent Then calls share one Holder and run in FIFO order
// (spec §4.2).
func (p *Promise) Then(onResolved, onRejected Callback) *Promise {
	h, l := p.ind.obtainLock()
	task := newTask(here(1), h, onResolved, onRejected)
	h.pendingTasks = append(h.pendingTasks, task)
	l.unlock()

	engineCall(task)
	return p
}

// Fail is Then(nil, onRejected).
func (p *Promise) Fail(onRejected Callback) *Promise {
	return p.Then(nil, onRejected)
}

// ThenPromise forwards p's settlement to other's head task (resolving or
// rejecting it with p's value) and returns p with its settlement
// unchanged. Nothing is rejected when other is dropped without settling:
// the Finally it registers on other has an empty callback.
func (p *Promise) ThenPromise(other *Promise) *Promise {
	p.Then(
		func(_ context.Context, v any) any { other.Resolve(v); return preserveSettlement{} },
		func(_ context.Context, v any) any { other.Reject(v); return preserveSettlement{} },
	)
	other.Finally(func(context.Context, any) {})
	return p
}

// Resolve settles the current head task, if any, as Resolved with value.
// It is a no-op if there is no pending head task (spec §6, Open Question 2
// resolved in SPEC_FULL.md §5).
func (p *Promise) Resolve(value any) {
	h, l := p.ind.obtainLock()
	task := headTask(h)
	l.unlock()
	if task == nil {
		return
	}
	settleAndCall(task, Resolved, value)
}

// Reject settles the current head task, if any, as Rejected with value.
func (p *Promise) Reject(value any) {
	h, l := p.ind.obtainLock()
	task := headTask(h)
	l.unlock()
	if task == nil {
		return
	}
	settleAndCall(task, Rejected, value)
}

func headTask(h *Holder) *Task {
	if len(h.pendingTasks) == 0 {
		return nil
	}
	return h.pendingTasks[0]
}

// Dump writes the current holder's call trace to w.
func (p *Promise) Dump(w io.Writer) error {
	h, l := p.ind.obtainLock()
	trace := h.trace
	l.unlock()
	return trace.Dump(w)
}

func panicToValue(r any) any {
	if err, ok := r.(error); ok {
		return err
	}
	return r
}
