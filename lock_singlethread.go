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

//go:build !promise_multithread

package promise

// holderLock is the single-threaded build's lock: a no-op. Ordering is
// still FIFO because the engine only ever dequeues from the front of
// pendingTasks; nested settlement is safe because call() sets the holder
// state to Pending before invoking a continuation, so a re-entrant
// resolve/reject merely enqueues rather than racing the in-flight call.
type holderLock struct{}

func newHolderLock() locker { return holderLock{} }

func (holderLock) lock()   {}
func (holderLock) unlock() {}

// waitFront is the multi-threaded build's FIFO condition wait. In the
// single-threaded build there is nothing to wait for: call() never
// observes a holder with another task already running, since there is
// only ever one active agent inside the critical section.
func (holderLock) waitFront(func() bool) {}

func (holderLock) broadcast() {}
