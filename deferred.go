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

// Deferred is a settlement capability bound to one Task, matching spec's
// Defer. It strongly holds its Task and the Promise it was minted from, so
// the holder cannot vanish mid-settlement.
type Deferred struct {
	task *Task
	p    *Promise
}

// Resolve settles the bound task as Resolved with value, then drives the
// engine. A Deferred whose task has already settled is a no-op: only the
// first Resolve or Reject call takes effect.
func (d *Deferred) Resolve(value any) {
	settleAndCall(d.task, Resolved, value)
}

// Reject settles the bound task as Rejected with value, then drives the
// engine. Like Resolve, this is a no-op once the bound task has already
// settled.
func (d *Deferred) Reject(value any) {
	settleAndCall(d.task, Rejected, value)
}

// Promise returns the Promise this Deferred settles.
func (d *Deferred) Promise() *Promise {
	return d.p
}

// doBreakTag pairs a doWhile break value the way the original tags a
// two-element vector<any> to distinguish a break from any other rejection.
type doBreakTag struct {
	value any
}

// DeferLoop wraps a Deferred, exposing the doContinue/doBreak/reject
// surface doWhile's run function receives, matching spec's DeferLoop.
type DeferLoop struct {
	d *Deferred
}

// DoContinue resolves the loop body so doWhile re-invokes run for another
// iteration.
func (l *DeferLoop) DoContinue() {
	l.d.Resolve(nil)
}

// DoBreak rejects the loop body with a sentinel tag carrying value;
// doWhile recognizes the tag and resolves the outer Promise with value
// instead of propagating it as a rejection.
func (l *DeferLoop) DoBreak(value any) {
	l.d.Reject(doBreakTag{value: value})
}

// Reject propagates value as an ordinary rejection out of the loop.
func (l *DeferLoop) Reject(value any) {
	l.d.Reject(value)
}
